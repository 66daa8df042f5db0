package reconciliation

import (
	"context"

	"github.com/google/uuid"
)

// AuditRepository persists the audit trail of committed reconciliations
type AuditRepository interface {
	Create(ctx context.Context, record *AuditRecord) error

	// ListByUser returns a user's audit records, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*AuditRecord, error)
}
