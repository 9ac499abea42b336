package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgermind/categorization-engine/internal/domain/audit"
)

const (
	// AuditCollectionName is the name of the batch record collection in MongoDB
	AuditCollectionName = "classification_batches"
)

// AuditRepository implements the audit.Repository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a batch record. Task IDs are unique; a retried task replaces
// nothing and the duplicate write surfaces as an error the caller may ignore.
func (r *AuditRepository) Create(ctx context.Context, record *audit.BatchRecord) error {
	collection := r.db.Collection(AuditCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create batch record",
			"task_id", record.TaskID.String(),
			"error", err)
		return fmt.Errorf("failed to create batch record: %w", err)
	}

	return nil
}

// GetByTaskID retrieves a batch record by its task ID.
// Returns ErrRecordNotFound if no record exists for the given task.
func (r *AuditRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*audit.BatchRecord, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"task_id": taskID}
	var record audit.BatchRecord
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, audit.ErrRecordNotFound{TaskID: taskID}
		}
		r.logger.Error("Failed to get batch record",
			"task_id", taskID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get batch record: %w", err)
	}

	return &record, nil
}

// ListByUser retrieves paginated batch records for a user.
// Results are sorted by creation time in descending order (newest first).
func (r *AuditRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*audit.BatchRecord, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list batch records",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list batch records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*audit.BatchRecord
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode batch records",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode batch records: %w", err)
	}

	return records, nil
}
