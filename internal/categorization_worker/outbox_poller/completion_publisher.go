package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/domain/outbox"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/platform/messaging/producers"
)

// CompletionPublisher publishes outbox messages as completion events
type CompletionPublisher interface {
	PublishCompletion(ctx context.Context, message *outbox.Message) error
}

// CompletionPublisherImpl implements CompletionPublisher
type CompletionPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewCompletionPublisher creates a new publisher
func NewCompletionPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) CompletionPublisher {
	return &CompletionPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishCompletion publishes a drained outbox message to the completion
// topic. Events are keyed by user id so downstream detectors see one user's
// events in order.
func (p *CompletionPublisherImpl) PublishCompletion(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetCompletionEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal completion event from outbox payload",
			"outbox_id", message.ID, "task_id", message.TaskID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	p.logger.Info("Attempting to publish completion event",
		"outbox_id", message.ID, "task_id", message.TaskID, "user_id", event.UserID,
	)

	if err := p.producer.Publish(ctx, event.UserID.String(), event); err != nil {
		p.logger.Error("Failed to publish completion event to Kafka",
			"outbox_id", message.ID, "task_id", message.TaskID, "error", err,
		)
		return fmt.Errorf("failed to publish completion event for outbox %d: %w", message.ID, err)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		p.logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "task_id", message.TaskID, "error", err,
		)
		return fmt.Errorf("completion event for task %s published, but failed to mark outbox %d as PROCESSED: %w", message.TaskID.String(), message.ID, err)
	}

	p.logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "task_id", message.TaskID)
	return nil
}
