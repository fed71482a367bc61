package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseStatementJSON parses the JSON array returned by a model
func parseStatementJSON(text string) ([]StatementEntry, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	text = text[startIdx : endIdx+1]

	var entries []StatementEntry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	if entries == nil {
		entries = []StatementEntry{}
	}

	return entries, nil
}
