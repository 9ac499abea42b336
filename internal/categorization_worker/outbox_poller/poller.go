package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgermind/categorization-engine/internal/config"
	"github.com/ledgermind/categorization-engine/internal/domain/outbox"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
)

// Poller processes pending outbox messages
type Poller struct {
	outboxRepo          outbox.Repository
	completionPublisher CompletionPublisher
	logger              *slog.Logger
	pollInterval        time.Duration
	batchSize           int
	maxRetryAttempts    int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	completionPublisher CompletionPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:          outboxRepo,
		completionPublisher: completionPublisher,
		logger:              logger,
		pollInterval:        cfg.PollingInterval,
		batchSize:           cfg.BatchSize,
		maxRetryAttempts:    cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			p.logger.Debug("Outbox Poller tick: processing pending messages")
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found.")
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		err := p.completionPublisher.PublishCompletion(ctx, msg)
		if err != nil {
			p.logger.Error("Failed to publish completion event for outbox message",
				"outbox_id", msg.ID, "task_id", msg.TaskID, "current_attempts", msg.Attempts, "error", err,
			)

			// Increment attempt count
			if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
				p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", errInc)
				// Continue to next message if increment fails
				continue
			}

			if msg.Attempts+1 >= p.maxRetryAttempts {
				p.logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
					"outbox_id", msg.ID, "task_id", msg.TaskID, "attempts_made", msg.Attempts+1,
				)
				if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
					p.logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "outbox_id", msg.ID, "error", errUpdate)
				}
			}
			continue
		}
		p.logger.Info("Successfully processed and published outbox message", "outbox_id", msg.ID, "task_id", msg.TaskID)
	}
	return nil
}
