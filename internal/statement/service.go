package statement

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zombor/statement-import/internal/importer"
	"github.com/zombor/statement-import/internal/scanning"
	"github.com/zombor/statement-import/internal/store"
)

// previewSize is the number of transactions shown in a summary
const previewSize = 5

// IDGenerator generates unique IDs for imports
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// Summary describes the transactions currently held by the store
type Summary struct {
	Count   int                          `json:"count"`
	Total   decimal.Decimal              `json:"total"`
	Preview []importer.TransactionRecord `json:"preview"`
}

// Service imports statements and publishes the result to the transaction store.
// It owns the store's Writer, so an import completing is the only way the
// stored transactions change.
type Service struct {
	importer    *importer.Importer
	scanner     scanning.Scanner
	store       *store.Store
	writer      *store.Writer
	idGenerator IDGenerator
	log         zerolog.Logger
}

// NewService creates a Service with a fresh store. scanner may be nil, which
// disables model-assisted reading of PDFs.
func NewService(imp *importer.Importer, scanner scanning.Scanner, log zerolog.Logger) *Service {
	st, writer := store.New()
	return NewServiceWithDeps(imp, scanner, st, writer, &uuidGenerator{}, log)
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(imp *importer.Importer, scanner scanning.Scanner, st *store.Store, writer *store.Writer, idGen IDGenerator, log zerolog.Logger) *Service {
	return &Service{
		importer:    imp,
		scanner:     scanner,
		store:       st,
		writer:      writer,
		idGenerator: idGen,
		log:         log,
	}
}

// Store returns the transaction store for read access and subscriptions
func (s *Service) Store() *store.Store {
	return s.store
}

// Import runs a file through the importer and replaces the stored transactions
// with the result. A PDF that yields no transactions is handed to the scanner
// when one is configured; scanner failures leave the empty result in place.
func (s *Service) Import(ctx context.Context, file importer.File) (*importer.ImportResult, error) {
	if file.Data == nil && file.Body != nil {
		data, err := io.ReadAll(file.Body)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %w", err)
		}
		file.Data, file.Body = data, nil
	}

	result, err := s.importer.Import(file)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("filename", file.Name).
			Str("content_type", file.MIMEType).
			Int("file_size", len(file.Data)).
			Msg("Failed to import file")
		return nil, fmt.Errorf("importing file: %w", err)
	}

	if len(result.Transactions) == 0 && s.scanner != nil && result.Metadata["fileType"] == string(importer.FileTypePDF) {
		if records := s.scan(ctx, result.SourceName, file.Data); len(records) > 0 {
			result.Transactions = records
			result.Metadata["assisted"] = true
		}
	}

	result.Metadata["importId"] = s.idGenerator.Generate()
	s.writer.SetTransactions(result.Transactions)

	s.log.Info().
		Str("source", result.SourceName).
		Int("transactions", len(result.Transactions)).
		Interface("import_id", result.Metadata["importId"]).
		Msg("Imported file")

	return result, nil
}

func (s *Service) scan(ctx context.Context, sourceName string, data []byte) []importer.TransactionRecord {
	lines, err := importer.ReadPDFLines(data)
	if err != nil {
		s.log.Warn().Err(err).Str("source", sourceName).Msg("Failed to read statement text for scanning")
		return nil
	}

	entries, err := s.scanner.ScanStatement(ctx, scanning.Statement{Lines: lines, PDF: data})
	if err != nil {
		s.log.Warn().Err(err).Str("source", sourceName).Msg("Failed to scan statement")
		return nil
	}

	return scanning.Records(entries)
}

// Transactions returns the current store snapshot
func (s *Service) Transactions() []importer.TransactionRecord {
	return s.store.Transactions()
}

// Summary totals the stored transactions and previews the first few
func (s *Service) Summary() Summary {
	transactions := s.store.Transactions()

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(decimal.NewFromFloat(t.Amount))
	}

	preview := transactions
	if len(preview) > previewSize {
		preview = preview[:previewSize]
	}

	return Summary{
		Count:   len(transactions),
		Total:   total,
		Preview: preview,
	}
}
