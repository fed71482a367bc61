package importer

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// ReadPDFLines extracts the text of every page in document order and splits it
// into cleaned lines
func ReadPDFLines(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	lines := make([]string, 0)
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d: %w", page+1, err)
		}
		lines = append(lines, SplitPageText(text)...)
	}
	return lines, nil
}
