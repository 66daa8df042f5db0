package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

// Analyze asks the analysis oracle for an optimisation report over the user's
// invoices and reconciliation state. The report shape is free-form JSON; the
// HTTP layer passes it through untouched.
func (c *Client) Analyze(ctx context.Context, invoices interface{}, reconciliations interface{}) (map[string]interface{}, error) {
	invoicesJSON, err := json.Marshal(invoices)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoices for analysis: %w", err)
	}
	recsJSON, err := json.Marshal(reconciliations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reconciliations for analysis: %w", err)
	}

	prompt := fillTemplate(analysisPromptTemplate, map[string]string{
		placeholderInvoicesJSON: string(invoicesJSON),
		placeholderRecsJSON:     string(recsJSON),
	})

	body, err := c.complete(ctx, c.analysisModel, analysisContext, prompt)
	if err != nil {
		return nil, reconciliation.ErrOracleUnavailable{Err: err}
	}

	var report map[string]interface{}
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, reconciliation.ErrOracleMalformed{Detail: fmt.Sprintf("analysis: %s", err)}
	}
	return report, nil
}
