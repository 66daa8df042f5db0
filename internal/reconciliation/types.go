package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSummary is the invoice-side payload serialized into the matching
// oracle prompt. Field names are the oracle's contract.
type InvoiceSummary struct {
	Supplier      string  `json:"fournisseur"`
	Total         float64 `json:"montant_ttc"`
	Date          string  `json:"date"`
	InvoiceNumber string  `json:"invoice_number"`
}

// TransactionSummary is one ledger line as presented to the matching oracle
type TransactionSummary struct {
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Vendor        string  `json:"vendor"`
	Description   string  `json:"description"`
	TransactionID string  `json:"transaction_id"`
}

// MatchCandidate is one oracle-proposed pairing. Date granularity varies:
// the oracle may return a full date or just a year-month prefix.
type MatchCandidate struct {
	Date        string                 `json:"date"`
	Amount      float64                `json:"amount"`
	Vendor      string                 `json:"vendor"`
	Similarity  float64                `json:"similarite_fournisseur"`
	Differences []string               `json:"differences"`
	Details     map[string]interface{} `json:"details_differences"`
	Confidence  float64                `json:"niveau_confiance"`
}

// MatchResult is the matching oracle's full response for one invoice
type MatchResult struct {
	Found      bool             `json:"correspondance_trouvee"`
	Candidates []MatchCandidate `json:"lignes_correspondantes"`
	Conclusion string           `json:"conclusion"`
}

// Outcome is the terminal state of one invoice within a batch run
type Outcome string

const (
	OutcomeAutoConfirmed Outcome = "auto_confirmed"
	OutcomePendingReview Outcome = "pending_review"
	OutcomeNoMatch       Outcome = "no_match"
)

// BatchStats aggregates per-outcome counters for one batch run.
// AutoConfirmed + ManualReview + NoMatch always equals Processed.
type BatchStats struct {
	TotalInvoices int `json:"total_invoices"`
	Processed     int `json:"processed"`
	Matched       int `json:"matched"`
	AutoConfirmed int `json:"auto_confirmed"`
	ManualReview  int `json:"manual_review"`
	NoMatch       int `json:"no_match"`
}

// InvoiceResult records the outcome for one invoice attempted in a batch
type InvoiceResult struct {
	InvoiceID     uuid.UUID              `json:"invoice_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	TransactionID *uuid.UUID             `json:"transaction_id,omitempty"`
	Confidence    float64                `json:"confidence"`
	AutoConfirmed bool                   `json:"auto_confirmed"`
	Outcome       Outcome                `json:"outcome"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// BatchReport is the sole externally observable output of a batch run,
// besides the committed database mutations
type BatchReport struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Stats   BatchStats      `json:"stats"`
	Results []InvoiceResult `json:"results"`
}

// AuditRecord is the document persisted for every committed reconciliation,
// manual or automatic
type AuditRecord struct {
	ID            uuid.UUID              `bson:"_id" json:"id"`
	UserID        uuid.UUID              `bson:"user_id" json:"user_id"`
	InvoiceID     uuid.UUID              `bson:"invoice_id" json:"invoice_id"`
	TransactionID uuid.UUID              `bson:"transaction_id" json:"transaction_id"`
	InvoiceNumber string                 `bson:"invoice_number" json:"invoice_number"`
	Confidence    float64                `bson:"confidence" json:"confidence"`
	AutoConfirmed bool                   `bson:"auto_confirmed" json:"auto_confirmed"`
	ConfirmedBy   string                 `bson:"confirmed_by" json:"confirmed_by"`
	ConfirmedAt   time.Time              `bson:"confirmed_at" json:"confirmed_at"`
	Details       map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
}

// Event is the message published to the reconciliation event stream after a
// commit. Best-effort: a publish failure never unwinds the commit.
type Event struct {
	UserID        uuid.UUID `json:"user_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Confidence    float64   `json:"confidence"`
	AutoConfirmed bool      `json:"auto_confirmed"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}
