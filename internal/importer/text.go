package importer

import (
	"regexp"
	"strings"
)

var (
	// ISO dates, or two-digit groups separated by '/', '.' or '-' with a two to four digit year
	datePattern = regexp.MustCompile(`(?:\d{4}-\d{2}-\d{2}|\d{2}[/.-]\d{2}[/.-]\d{2,4})`)

	// optionally signed, optionally dollar-prefixed, optional thousands grouping, two decimals
	amountPattern = regexp.MustCompile(`[+-]?\$?\s?-?\d{1,3}(?:,\d{3})*\.\d{2}`)

	lineBreaks = regexp.MustCompile(`\n+`)
	wideSpace  = regexp.MustCompile(`\s{2,}`)
)

// SplitPageText splits a page of extracted text into cleaned lines: runs of two
// or more whitespace characters collapse to one space and empty lines are dropped.
func SplitPageText(text string) []string {
	lines := make([]string, 0)
	for _, segment := range lineBreaks.Split(text, -1) {
		line := strings.TrimSpace(wideSpace.ReplaceAllString(segment, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractLines scans cleaned statement lines for an embedded date and amount.
// Only the first match of each pattern counts and a line needs both; whatever
// remains once both matched substrings are removed becomes the description.
func ExtractLines(lines []string) []TransactionRecord {
	transactions := make([]TransactionRecord, 0)
	for _, line := range lines {
		record, ok := extractLine(line)
		if !ok {
			continue
		}
		transactions = append(transactions, record)
	}
	return transactions
}

func extractLine(line string) (TransactionRecord, bool) {
	dateMatch := datePattern.FindString(line)
	amountMatch := amountPattern.FindString(line)
	if dateMatch == "" || amountMatch == "" {
		return TransactionRecord{}, false
	}

	date, ok := NormalizeDate(dateMatch)
	if !ok {
		return TransactionRecord{}, false
	}
	amount, ok := NormalizeAmount(amountMatch)
	if !ok {
		return TransactionRecord{}, false
	}

	description := strings.Replace(line, dateMatch, "", 1)
	description = strings.Replace(description, amountMatch, "", 1)
	description = strings.TrimSpace(wideSpace.ReplaceAllString(description, " "))
	if description == "" {
		return TransactionRecord{}, false
	}

	return TransactionRecord{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, true
}
