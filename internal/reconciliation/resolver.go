package reconciliation

import (
	"math"
	"strings"

	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// amountTolerance absorbs float drift between the oracle's echoed amount and
// the stored ledger amount
const amountTolerance = 0.01

// resolveTransaction maps an oracle candidate back to a concrete ledger row.
// The oracle only echoes field values, never IDs, so resolution runs three
// strategies from strict to loose and the first hit wins:
//
//  1. date prefix + amount + vendor
//  2. date prefix + amount
//  3. amount alone, skipped when the candidate amount is zero
//
// The candidate date may be truncated (a bare year-month, or empty); a prefix
// comparison honours whatever granularity the oracle returned. Pool order
// breaks ties within a strategy.
func resolveTransaction(candidate *MatchCandidate, pool []*transaction.Transaction) (*transaction.Transaction, error) {
	for _, txn := range pool {
		if dateMatches(txn, candidate) && amountMatches(txn, candidate) && vendorMatches(txn, candidate) {
			return txn, nil
		}
	}

	for _, txn := range pool {
		if dateMatches(txn, candidate) && amountMatches(txn, candidate) {
			return txn, nil
		}
	}

	if candidate.Amount != 0 {
		for _, txn := range pool {
			if amountMatches(txn, candidate) {
				return txn, nil
			}
		}
	}

	return nil, ErrNoTransactionResolved{}
}

func dateMatches(txn *transaction.Transaction, candidate *MatchCandidate) bool {
	if candidate.Date == "" {
		return true
	}
	return strings.HasPrefix(txn.Date.Format("2006-01-02"), candidate.Date)
}

func amountMatches(txn *transaction.Transaction, candidate *MatchCandidate) bool {
	return math.Abs(txn.Amount-candidate.Amount) < amountTolerance
}

func vendorMatches(txn *transaction.Transaction, candidate *MatchCandidate) bool {
	return strings.EqualFold(strings.TrimSpace(txn.Vendor), strings.TrimSpace(candidate.Vendor))
}
