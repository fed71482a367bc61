package scanning

import (
	"context"
	"strings"

	"github.com/zombor/statement-import/internal/importer"
)

// Statement is a PDF statement handed to a Scanner. Lines holds the cleaned
// text layer and is empty for scanned documents.
type Statement struct {
	Lines []string
	PDF   []byte
}

// StatementEntry is one transaction as reported by a model
type StatementEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      any    `json:"amount"` // number or string
}

// Scanner defines the interface for model-assisted statement reading
type Scanner interface {
	// ScanStatement reads a statement and returns the transactions it lists
	ScanStatement(ctx context.Context, statement Statement) ([]StatementEntry, error)
	// Close closes the scanner and releases resources
	Close() error
}

// Records normalizes entries into transaction records, dropping any entry
// without a valid date, a description and a parseable amount
func Records(entries []StatementEntry) []importer.TransactionRecord {
	records := make([]importer.TransactionRecord, 0, len(entries))
	for _, entry := range entries {
		date, ok := importer.NormalizeDate(entry.Date)
		if !ok {
			continue
		}
		description := strings.TrimSpace(entry.Description)
		if description == "" {
			continue
		}
		amount, ok := importer.NormalizeAmount(entry.Amount)
		if !ok {
			continue
		}
		records = append(records, importer.TransactionRecord{
			Date:        date,
			Description: description,
			Amount:      amount,
		})
	}
	return records
}
