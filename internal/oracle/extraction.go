package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FaridBenamara/Bill-z/internal/domain/invoice"
	"github.com/FaridBenamara/Bill-z/internal/reconciliation"
)

// Extract asks the extraction oracle to structure one raw invoice document.
// The raw decoded map is returned alongside the typed capture so callers can
// archive the oracle's full answer, unknown keys included.
func (c *Client) Extract(ctx context.Context, documentText string) (*invoice.Extraction, map[string]interface{}, error) {
	prompt := fillTemplate(extractionPromptTemplate, map[string]string{
		placeholderRawDocument: documentText,
	})

	body, err := c.complete(ctx, c.extractModel, extractionContext, prompt)
	if err != nil {
		return nil, nil, reconciliation.ErrOracleUnavailable{Err: err}
	}

	var ext invoice.Extraction
	if err := json.Unmarshal([]byte(body), &ext); err != nil {
		return nil, nil, reconciliation.ErrOracleMalformed{Detail: fmt.Sprintf("extraction: %s", err)}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		raw = map[string]interface{}{}
	}

	return &ext, raw, nil
}
