package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
)

const (
	// CaptureCollectionName is the name of the raw extraction capture collection in MongoDB
	CaptureCollectionName = "extraction_captures"
)

// CaptureRepository implements the invoice.CaptureRepository interface for MongoDB
type CaptureRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCaptureRepository creates a new MongoDB capture repository
func NewCaptureRepository(logger *slog.Logger, db *mongo.Database) invoice.CaptureRepository {
	return &CaptureRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores the raw oracle output captured for one document
func (r *CaptureRepository) Create(ctx context.Context, capture *invoice.Capture) error {
	collection := r.db.Collection(CaptureCollectionName)

	_, err := collection.InsertOne(ctx, capture)
	if err != nil {
		r.logger.Error("Failed to create extraction capture",
			"invoice_id", capture.InvoiceID.String(),
			"error", err)
		return fmt.Errorf("failed to create extraction capture: %w", err)
	}

	return nil
}

// GetByInvoiceID retrieves the capture for an invoice.
// Returns nil when no capture exists (manual uploads have none).
func (r *CaptureRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*invoice.Capture, error) {
	collection := r.db.Collection(CaptureCollectionName)

	filter := bson.M{"invoice_id": invoiceID}
	var capture invoice.Capture
	err := collection.FindOne(ctx, filter).Decode(&capture)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error("Failed to get extraction capture",
			"invoice_id", invoiceID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get extraction capture: %w", err)
	}

	return &capture, nil
}
