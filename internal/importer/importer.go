package importer

import (
	"fmt"
	"io"
	"regexp"
	"time"
)

// DefaultSourceName names files that arrive without a name
const DefaultSourceName = "uploaded-file"

var (
	spreadsheetExtension = regexp.MustCompile(`(?i)\.(xlsx|xlsm|xls)$`)
	pdfExtension         = regexp.MustCompile(`(?i)\.pdf$`)
	spreadsheetMIMEType  = regexp.MustCompile(`(?i)spreadsheet|excel`)
)

const pdfMIMEType = "application/pdf"

// File is a single file handed to the importer. Either Data or Body must be set.
type File struct {
	Name     string
	MIMEType string
	Size     int64 // zero when unknown; the bytes read are counted instead
	Data     []byte
	Body     io.Reader
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// extractor turns the bytes of one file format into records
type extractor func(data []byte) ([]TransactionRecord, error)

var extractors = map[FileType]extractor{
	FileTypeExcel: extractSpreadsheet,
	FileTypePDF:   extractPDF,
}

func extractSpreadsheet(data []byte) ([]TransactionRecord, error) {
	rows, err := ReadWorkbook(data)
	if err != nil {
		return nil, err
	}
	return ExtractRows(rows), nil
}

func extractPDF(data []byte) ([]TransactionRecord, error) {
	lines, err := ReadPDFLines(data)
	if err != nil {
		return nil, err
	}
	return ExtractLines(lines), nil
}

// DetectFileType classifies a file by its name and MIME type hint. Each format
// is tried in turn, extension first and MIME type second.
func DetectFileType(name, mimeType string) FileType {
	if spreadsheetExtension.MatchString(name) || spreadsheetMIMEType.MatchString(mimeType) {
		return FileTypeExcel
	}
	if pdfExtension.MatchString(name) || mimeType == pdfMIMEType {
		return FileTypePDF
	}
	return FileTypeUnknown
}

// Importer routes files to the extractor for their format
type Importer struct {
	timeSource TimeSource
}

// New creates an Importer using the wall clock
func New() *Importer {
	return NewWithTimeSource(&defaultTimeSource{})
}

// NewWithTimeSource creates an Importer with a custom clock for testing
func NewWithTimeSource(timeSource TimeSource) *Importer {
	return &Importer{timeSource: timeSource}
}

// Import detects the format of f, extracts its transactions and wraps them with
// import metadata. Finding no transactions is not an error.
func (i *Importer) Import(f File) (*ImportResult, error) {
	sourceName := f.Name
	if sourceName == "" {
		sourceName = DefaultSourceName
	}

	fileType := DetectFileType(sourceName, f.MIMEType)
	extract, ok := extractors[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoParser, sourceName)
	}

	data, err := readFile(f)
	if err != nil {
		return nil, err
	}

	transactions, err := extract(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sourceName, err)
	}

	metadata := map[string]any{
		"importedAt": i.timeSource.Now().UTC().Format(TimestampLayout),
		"fileType":   string(fileType),
	}
	if f.Size > 0 {
		metadata["fileSize"] = f.Size
	} else {
		metadata["fileSize"] = int64(len(data))
	}

	return &ImportResult{
		Transactions: transactions,
		SourceName:   sourceName,
		Metadata:     metadata,
	}, nil
}

func readFile(f File) ([]byte, error) {
	switch {
	case f.Data != nil:
		return f.Data, nil
	case f.Body != nil:
		data, err := io.ReadAll(f.Body)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		return data, nil
	default:
		return nil, ErrUnsupportedInput
	}
}
