// Package ledgerimport turns uploaded bank statements (CSV or XLSX) into
// persisted ledger transactions. Rows that cannot be parsed are skipped and
// counted rather than failing the import; only structural problems (missing
// required columns, unreadable file) abort it.
package ledgerimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/FaridBenamara/Bill-z/internal/domain/transaction"
)

// dateFormats are tried in order against each row's date cell
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

// columnAliases maps the canonical column names to the header spellings
// accepted in uploaded statements
var columnAliases = map[string][]string{
	"date":        {"date"},
	"amount":      {"amount", "montant"},
	"vendor":      {"vendor", "fournisseur"},
	"description": {"description", "libelle", "libellé"},
	"category":    {"category", "categorie", "catégorie"},
}

// ErrMissingColumn indicates the statement lacks a required header
type ErrMissingColumn struct {
	Column string
}

func (e ErrMissingColumn) Error() string {
	return "statement is missing required column: " + e.Column
}

// ErrUnsupportedFormat indicates the uploaded file is neither CSV nor XLSX
type ErrUnsupportedFormat struct {
	Extension string
}

func (e ErrUnsupportedFormat) Error() string {
	return "unsupported statement format: " + e.Extension
}

// ImportResult summarizes one statement import
type ImportResult struct {
	BatchID      uuid.UUID                  `json:"batch_id"`
	Imported     int                        `json:"imported"`
	Skipped      int                        `json:"skipped"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

// Service parses bank statements and persists the resulting transactions
type Service struct {
	logger *slog.Logger
	txns   transaction.Repository
}

// NewService creates a statement import service
func NewService(logger *slog.Logger, txns transaction.Repository) *Service {
	return &Service{logger: logger, txns: txns}
}

// Import parses the statement and stores every parseable row under a fresh
// import batch ID. The file format is chosen from the file name's extension.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (*ImportResult, error) {
	var rows [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat{Extension: ext}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read statement %s: %w", fileName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("statement %s is empty", fileName)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		BatchID:      uuid.New(),
		Transactions: []*transaction.Transaction{},
	}
	now := time.Now().UTC()

	for i, row := range rows[1:] {
		txn, ok := s.parseRow(row, columns)
		if !ok {
			s.logger.Debug("Skipping unparseable statement row", "file", fileName, "row", i+2)
			result.Skipped++
			continue
		}
		txn.ID = uuid.New()
		txn.UserID = userID
		txn.SourceFile = fileName
		txn.ImportBatchID = result.BatchID
		txn.CreatedAt = now
		result.Transactions = append(result.Transactions, txn)
	}

	if len(result.Transactions) > 0 {
		if err := s.txns.CreateBatch(ctx, result.Transactions); err != nil {
			return nil, fmt.Errorf("failed to store imported transactions: %w", err)
		}
	}
	result.Imported = len(result.Transactions)

	s.logger.Info("Statement imported",
		"user_id", userID,
		"file", fileName,
		"batch_id", result.BatchID,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// mapColumns resolves header cells to canonical column indexes.
// date and amount are required; the rest are optional.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if name == alias {
					if _, taken := columns[canonical]; !taken {
						columns[canonical] = i
					}
				}
			}
		}
	}

	for _, required := range []string{"date", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, ErrMissingColumn{Column: required}
		}
	}
	return columns, nil
}

// parseRow builds a transaction from one statement row. Returns false when
// the date or amount cell cannot be parsed.
func (s *Service) parseRow(row []string, columns map[string]int) (*transaction.Transaction, bool) {
	date, ok := parseDate(cell(row, columns["date"]))
	if !ok {
		return nil, false
	}
	amount, err := parseAmount(cell(row, columns["amount"]))
	if err != nil {
		return nil, false
	}

	txn := &transaction.Transaction{
		Date:   date,
		Amount: amount,
	}
	if i, ok := columns["vendor"]; ok {
		txn.Vendor = strings.TrimSpace(cell(row, i))
	}
	if i, ok := columns["description"]; ok {
		txn.Description = strings.TrimSpace(cell(row, i))
	}
	if i, ok := columns["category"]; ok {
		txn.Category = strings.TrimSpace(cell(row, i))
	}
	return txn, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, format := range dateFormats {
		if d, err := time.Parse(format, value); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts both dot and comma decimal separators
func parseAmount(value string) (float64, error) {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, ",", ".")
	return strconv.ParseFloat(value, 64)
}
