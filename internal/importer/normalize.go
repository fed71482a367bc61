package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimestampLayout is the canonical on-the-wire date representation
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	amountNoise  = regexp.MustCompile(`[^0-9+\-.,]`)
	headerNoise  = regexp.MustCompile(`[^a-z0-9]`)
	extraSpacing = regexp.MustCompile(`\s+`)

	// month-day-year with dashes, the way spreadsheets render date cells
	dashedDate = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2,4})$`)
)

// NormalizeAmount converts a number, or a string carrying currency symbols and
// grouping separators, into a signed float. A comma is dropped as a thousands
// separator only when exactly three digits and then a non-digit or the end follow
// it; any remaining comma is read as a decimal point. Locale is never inferred, so
// "1.234,56" does not parse.
func NormalizeAmount(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		cleaned := dropGroupingCommas(amountNoise.ReplaceAllString(v, ""))
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
		if cleaned == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return finite(parsed)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// dropGroupingCommas removes every comma followed by exactly three digits and
// then a non-digit or the end of the string.
func dropGroupingCommas(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && isGroupingComma(s, i) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isGroupingComma(s string, i int) bool {
	if i+4 > len(s) {
		return false
	}
	for _, c := range []byte(s[i+1 : i+4]) {
		if !isDigit(c) {
			return false
		}
	}
	return i+4 == len(s) || !isDigit(s[i+4])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// NormalizeDate interprets a date-like value and returns it as a canonical UTC
// timestamp. Strings go through a general-purpose parser that assumes month
// before day, so "03/04/05" and "03-04-05" are March 4th 2005 and "15/03/2024"
// is rejected. Values without a zone are read as UTC. Dates without a year,
// such as "12/31", are rejected.
func NormalizeDate(raw any) (string, bool) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.UTC().Format(TimestampLayout), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", false
		}
		s = dashedDate.ReplaceAllString(s, "$1/$2/$3")
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil || t.Year() == 0 {
			return "", false
		}
		return t.UTC().Format(TimestampLayout), true
	default:
		return "", false
	}
}

// NormalizeHeader lowercases a header, turns every non-alphanumeric character
// into a space and collapses the result into single-space separated tokens.
func NormalizeHeader(header string) string {
	normalized := headerNoise.ReplaceAllString(strings.ToLower(header), " ")
	return strings.TrimSpace(extraSpacing.ReplaceAllString(normalized, " "))
}
