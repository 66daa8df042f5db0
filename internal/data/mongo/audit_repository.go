package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

const (
	// AuditCollectionName is the name of the reconciliation audit collection in MongoDB
	AuditCollectionName = "reconciliation_audit"
)

// AuditRepository implements the reconciliation.AuditRepository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) reconciliation.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores one audit record for a committed reconciliation
func (r *AuditRepository) Create(ctx context.Context, record *reconciliation.AuditRecord) error {
	collection := r.db.Collection(AuditCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create audit record",
			"transaction_id", record.TransactionID.String(),
			"invoice_id", record.InvoiceID.String(),
			"error", err)
		return fmt.Errorf("failed to create audit record: %w", err)
	}

	return nil
}

// ListByUser retrieves paginated audit records for a user.
// Results are sorted by confirmation time in descending order (newest first).
func (r *AuditRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.AuditRecord, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"confirmed_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list audit records",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*reconciliation.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode audit records",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode audit records: %w", err)
	}

	return records, nil
}
