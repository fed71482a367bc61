package importer

import "strings"

// Header aliases per field, in priority order
var (
	dateHeaders        = []string{"date", "transaction date", "posted date"}
	descriptionHeaders = []string{"description", "memo", "details", "transaction"}
	amountHeaders      = []string{"amount", "transaction amount", "debit", "credit", "value"}
	categoryHeaders    = []string{"category", "type"}
	accountHeaders     = []string{"account", "account number", "card"}
)

// headerMap maps a normalized header to its column index
type headerMap map[string]int

func newHeaderMap(headers []string) headerMap {
	positions := make(headerMap, len(headers))
	for i, header := range headers {
		// later duplicates win
		positions[NormalizeHeader(header)] = i
	}
	return positions
}

// pick returns the cell under the first alias present in the header map.
// A cell past the end of the row, or left blank, is absent.
func (h headerMap) pick(row []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		index, ok := h[alias]
		if !ok {
			continue
		}
		if index >= len(row) || row[index] == "" {
			return "", false
		}
		return row[index], true
	}
	return "", false
}

// ExtractRows converts a header row followed by data rows into transaction
// records. Rows without a valid date, a non-empty description and a parseable
// amount are skipped; an absent amount counts as zero.
func ExtractRows(rows [][]string) []TransactionRecord {
	transactions := make([]TransactionRecord, 0)
	if len(rows) == 0 {
		return transactions
	}

	headers := newHeaderMap(rows[0])
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		record, ok := headers.record(row)
		if !ok {
			continue
		}
		transactions = append(transactions, record)
	}

	return transactions
}

func (h headerMap) record(row []string) (TransactionRecord, bool) {
	rawDate, _ := h.pick(row, dateHeaders)
	rawDescription, _ := h.pick(row, descriptionHeaders)

	var rawAmount any = 0
	if cell, ok := h.pick(row, amountHeaders); ok {
		rawAmount = cell
	}

	date, ok := NormalizeDate(rawDate)
	if !ok {
		return TransactionRecord{}, false
	}
	description := strings.TrimSpace(rawDescription)
	if description == "" {
		return TransactionRecord{}, false
	}
	amount, ok := NormalizeAmount(rawAmount)
	if !ok {
		return TransactionRecord{}, false
	}

	record := TransactionRecord{
		Date:        date,
		Description: description,
		Amount:      amount,
	}
	if category, ok := h.pick(row, categoryHeaders); ok {
		record.Category = category
	}
	if account, ok := h.pick(row, accountHeaders); ok {
		record.Account = account
	}
	return record, true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
