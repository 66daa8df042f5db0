package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Capture is the raw extraction-oracle output for one document, kept verbatim
// so a reviewer can compare it against the structured invoice
type Capture struct {
	ID        uuid.UUID              `bson:"_id" json:"id"`
	UserID    uuid.UUID              `bson:"user_id" json:"user_id"`
	InvoiceID uuid.UUID              `bson:"invoice_id" json:"invoice_id"`
	FileName  string                 `bson:"file_name" json:"file_name"`
	Raw       map[string]interface{} `bson:"raw" json:"raw"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

// CaptureRepository persists raw extraction captures
type CaptureRepository interface {
	Create(ctx context.Context, capture *Capture) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*Capture, error)
}
