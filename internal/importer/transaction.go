package importer

import "errors"

// FileType is the detected format of an imported file
type FileType string

const (
	FileTypeExcel   FileType = "excel"
	FileTypePDF     FileType = "pdf"
	FileTypeUnknown FileType = "unknown"
)

// TransactionRecord is one imported transaction
type TransactionRecord struct {
	Date        string  `json:"date"` // ISO 8601 instant, always UTC
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Account     string  `json:"account,omitempty"`
}

// ImportResult is the output of a single import call
type ImportResult struct {
	Transactions []TransactionRecord `json:"transactions"`
	SourceName   string              `json:"sourceName"`
	Metadata     map[string]any      `json:"metadata"`
}

var (
	// ErrUnsupportedInput is returned when a File carries neither Data nor Body
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrNoParser is returned when no extractor accepts the file
	ErrNoParser = errors.New("no parser available for file")

	// ErrEmptyWorkbook is returned when a spreadsheet has no readable worksheet
	ErrEmptyWorkbook = errors.New("no worksheets found in workbook")
)
