package handler

import "github.com/FaridBenamara/Bill-z/internal/domain/invoice"

// ScanDocumentRequest is one raw document in a scan request
type ScanDocumentRequest struct {
	FileName     string `json:"file_name" binding:"required"`
	Text         string `json:"text" binding:"required"`
	Direction    string `json:"direction" binding:"omitempty,oneof=incoming outgoing"`
	EmailID      string `json:"email_id,omitempty"`
	EmailSubject string `json:"email_subject,omitempty"`
}

// CreateInvoiceRequest represents a manually supplied invoice, using the same
// field shape the extraction oracle produces
type CreateInvoiceRequest struct {
	invoice.Extraction
	Direction string `json:"direction" binding:"omitempty,oneof=incoming outgoing"`
	FileName  string `json:"file_name"`
}

// ScanRequest represents a request to extract a batch of invoice documents
type ScanRequest struct {
	Documents []ScanDocumentRequest `json:"documents" binding:"required,min=1,dive"`
}

// ConfirmReconciliationRequest represents a manual reconciliation confirmation
type ConfirmReconciliationRequest struct {
	InvoiceID     string  `json:"invoice_id" binding:"required,uuid"`
	TransactionID string  `json:"transaction_id" binding:"required,uuid"`
	Confidence    float64 `json:"confidence" binding:"omitempty,gt=0,lte=1"`
}

// AuditQueryParams represents pagination parameters for the audit listing
type AuditQueryParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// TransactionQueryParams represents filters for the transaction listing
type TransactionQueryParams struct {
	Reconciled *bool `form:"reconciled"`
}
