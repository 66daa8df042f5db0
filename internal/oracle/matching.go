package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

var errEmptyCompletion = errors.New("completion returned no choices")

// rawCandidate accepts the alternate key spellings the oracle is known to
// emit before normalization into reconciliation.MatchCandidate
type rawCandidate struct {
	Date          string                 `json:"date"`
	DateReleve    string                 `json:"date_releve"`
	Amount        float64                `json:"amount"`
	MontantReleve float64                `json:"montant_releve"`
	Vendor        string                 `json:"vendor"`
	Fournisseur   string                 `json:"fournisseur"`
	Similarity    float64                `json:"similarite_fournisseur"`
	Differences   []string               `json:"differences"`
	Details       map[string]interface{} `json:"details_differences"`
	Confidence    float64                `json:"niveau_confiance"`
}

type rawMatchResult struct {
	Found      bool           `json:"correspondance_trouvee"`
	Candidates []rawCandidate `json:"lignes_correspondantes"`
	Conclusion string         `json:"conclusion"`
}

// ProposeMatches asks the matching oracle which ledger lines could settle the
// invoice. Transport failures surface as ErrOracleUnavailable, undecodable
// bodies as ErrOracleMalformed; the caller treats both as "no proposal".
func (c *Client) ProposeMatches(ctx context.Context, inv reconciliation.InvoiceSummary, lines []reconciliation.TransactionSummary, direction invoice.Direction) (*reconciliation.MatchResult, error) {
	invoiceJSON, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice summary: %w", err)
	}
	ledgerJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger lines: %w", err)
	}

	systemContext := matchingContextIncoming
	if direction == invoice.DirectionOutgoing {
		systemContext = matchingContextOutgoing
	}
	prompt := fillTemplate(matchingPromptTemplate, map[string]string{
		placeholderInvoiceJSON: string(invoiceJSON),
		placeholderLedgerJSON:  string(ledgerJSON),
	})

	body, err := c.complete(ctx, c.analysisModel, systemContext, prompt)
	if err != nil {
		c.logger.Warn("Matching oracle call failed", "invoice_number", inv.InvoiceNumber, "error", err)
		return nil, reconciliation.ErrOracleUnavailable{Err: err}
	}

	var raw rawMatchResult
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		c.logger.Warn("Matching oracle returned undecodable body", "invoice_number", inv.InvoiceNumber, "error", err)
		return nil, reconciliation.ErrOracleMalformed{Detail: err.Error()}
	}

	result := &reconciliation.MatchResult{
		Found:      raw.Found,
		Candidates: make([]reconciliation.MatchCandidate, 0, len(raw.Candidates)),
		Conclusion: raw.Conclusion,
	}
	for _, rc := range raw.Candidates {
		result.Candidates = append(result.Candidates, normalizeCandidate(rc))
	}
	return result, nil
}

// normalizeCandidate folds the oracle's alternate key spellings into the
// canonical candidate shape. Preference order: canonical key, alternate
// top-level key, then the same keys nested under details_differences.
func normalizeCandidate(rc rawCandidate) reconciliation.MatchCandidate {
	candidate := reconciliation.MatchCandidate{
		Date:        rc.Date,
		Amount:      rc.Amount,
		Vendor:      rc.Vendor,
		Similarity:  rc.Similarity,
		Differences: rc.Differences,
		Details:     rc.Details,
		Confidence:  rc.Confidence,
	}
	if candidate.Date == "" {
		candidate.Date = rc.DateReleve
	}
	if candidate.Amount == 0 && rc.MontantReleve != 0 {
		candidate.Amount = rc.MontantReleve
	}
	if candidate.Vendor == "" {
		candidate.Vendor = rc.Fournisseur
	}
	if rc.Details != nil {
		if candidate.Date == "" {
			if v, ok := rc.Details["date_releve"].(string); ok {
				candidate.Date = v
			}
		}
		if candidate.Amount == 0 {
			if v, ok := rc.Details["montant_releve"].(float64); ok {
				candidate.Amount = v
			}
		}
	}
	return candidate
}
