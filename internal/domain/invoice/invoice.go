package invoice

import (
	"time"

	"github.com/google/uuid"
)

// Direction indicates whether the invoice was received or issued
type Direction string

const (
	DirectionIncoming Direction = "incoming" // Received from a supplier
	DirectionOutgoing Direction = "outgoing" // Issued to a client
)

// Party identifies one side of an invoice (supplier or client).
// JSON tags follow the extraction oracle's wire format.
type Party struct {
	Name  string `json:"name"`
	TaxID string `json:"siret"`
	VATID string `json:"vat"`
}

// Amounts carries the monetary breakdown of an invoice.
// Total ~ PreTax + Tax is advisory only; extraction may be imperfect.
type Amounts struct {
	PreTax   float64 `json:"ht"`
	Tax      float64 `json:"tva"`
	TaxRate  float64 `json:"tva_rate"`
	Total    float64 `json:"ttc"`
	Currency string  `json:"currency"`
}

// Invoice represents a received or issued billing document
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   *time.Time `json:"invoice_date"`
	DueDate       *time.Time `json:"due_date"`
	Supplier      Party      `json:"supplier"`
	Client        Party      `json:"client"`
	Amounts       Amounts    `json:"amounts"`
	Category      string     `json:"category"`
	Anomalies     []string   `json:"anomalies"`
	Confidence    float64    `json:"confidence_global"` // Extraction confidence, 0-1
	Direction     Direction  `json:"direction"`
	FileName      string     `json:"file_name"`
	EmailID       string     `json:"email_id,omitempty"`
	EmailSubject  string     `json:"email_subject,omitempty"`
	Validated     bool       `json:"is_validated"`
	Paid          bool       `json:"is_paid"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Extraction is the structured capture returned by the extraction oracle for
// one document. Keys are the oracle's contract, not ours.
type Extraction struct {
	InvoiceNumber string   `json:"invoice_number"`
	InvoiceDate   string   `json:"invoice_date"`
	DueDate       string   `json:"due_date"`
	Supplier      Party    `json:"supplier"`
	Client        Party    `json:"client"`
	Amounts       Amounts  `json:"amounts"`
	Category      string   `json:"category"`
	Anomalies     []string `json:"anomalies"`
	Confidence    float64  `json:"confidence_global"`
}

// NewFromExtraction builds an invoice owned by userID from an oracle capture.
// Unparseable dates are left nil rather than rejected; the capture's own
// confidence score is the caller's signal for review.
func NewFromExtraction(userID uuid.UUID, fileName string, ext *Extraction, direction Direction) *Invoice {
	now := time.Now()
	inv := &Invoice{
		ID:            uuid.New(),
		UserID:        userID,
		InvoiceNumber: ext.InvoiceNumber,
		Supplier:      ext.Supplier,
		Client:        ext.Client,
		Amounts:       ext.Amounts,
		Category:      ext.Category,
		Anomalies:     ext.Anomalies,
		Confidence:    ext.Confidence,
		Direction:     direction,
		FileName:      fileName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if d, err := time.Parse("2006-01-02", ext.InvoiceDate); err == nil {
		inv.InvoiceDate = &d
	}
	if d, err := time.Parse("2006-01-02", ext.DueDate); err == nil {
		inv.DueDate = &d
	}
	return inv
}
