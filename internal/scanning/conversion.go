package scanning

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// maxRenderedPages bounds how many pages of a scanned statement are sent as images
const maxRenderedPages = 5

// statementScanPrompt is the shared prompt used by all LLM providers
const statementScanPrompt = `You are reading a bank or card statement. List every transaction it contains.

For each transaction extract:
1. **date**: the transaction or posting date, in ISO 8601 format (YYYY-MM-DD).
2. **description**: the merchant or payee text exactly as printed.
3. **amount**: a number, negative for money going out and positive for money coming in.

Return ONLY a valid JSON array in this exact format:
[
  {"date": "YYYY-MM-DD", "description": "Merchant", "amount": -0.00}
]

Important:
- Skip balances, totals, headers and page footers
- Return [] if there are no transactions
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// statementPrompt appends the text layer to the shared prompt when there is one
func statementPrompt(statement Statement) string {
	if len(statement.Lines) == 0 {
		return statementScanPrompt
	}
	return statementScanPrompt + "\n\nStatement text:\n" + strings.Join(statement.Lines, "\n")
}

// renderPages converts the first pages of a PDF to PNG images. It is only
// used for statements without a text layer.
func renderPages(pdfData []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := min(doc.NumPage(), maxRenderedPages)
	images := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("rendering PDF page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding PNG: %w", err)
		}
		images = append(images, buf.Bytes())
	}

	return images, nil
}

// statementImages returns page images for scanned statements and nothing for
// statements that already carry text
func statementImages(statement Statement) ([][]byte, error) {
	if len(statement.Lines) > 0 || len(statement.PDF) == 0 {
		return nil, nil
	}
	return renderPages(statement.PDF)
}
