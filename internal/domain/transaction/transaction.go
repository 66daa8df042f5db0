package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction represents one ledger line from an imported bank statement.
// Amount is signed: negative values are debits.
type Transaction struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Date            time.Time              `json:"date"`
	Amount          float64                `json:"amount"`
	Vendor          string                 `json:"vendor,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Category        string                 `json:"category,omitempty"`
	SourceFile      string                 `json:"source_file"`
	ImportBatchID   uuid.UUID              `json:"import_batch_id"`
	Reconciled      bool                   `json:"is_reconciled"`
	InvoiceID       *uuid.UUID             `json:"invoice_id,omitempty"`
	MatchConfidence *float64               `json:"reconciliation_confidence,omitempty"`
	MatchDetails    map[string]interface{} `json:"reconciliation_details,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ReconciliationDetails is the blob persisted alongside a committed
// reconciliation, recording who confirmed it and when.
type ReconciliationDetails struct {
	InvoiceNumber string    `json:"invoice_number"`
	AutoConfirmed bool      `json:"auto_confirmed"`
	ConfirmedBy   string    `json:"confirmed_by"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}
