// Package normalize holds the primitive parsers the cleaning pipeline is
// built from: free-text normalization, locale-tolerant decimals, measurement
// dates and field-strength readings. Every parser here returns a nil result
// for input it cannot understand; malformed source cells are expected
// traffic, not error conditions.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	decimalRe       = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)
	fieldStrengthRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// Text strips zero-width characters and surrounding whitespace. Empty input
// passes through unchanged.
func Text(s string) string {
	s = strings.ReplaceAll(s, "​", "")
	return strings.TrimSpace(s)
}

// Decimal extracts the first signed decimal substring from free text,
// accepting a comma as decimal separator. Returns nil when the text holds no
// digits.
func Decimal(s string) *float64 {
	m := decimalRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// dateFormats are tried in order after separator normalization. Go's
// non-padded layout verbs accept both "3/4/2021" and "03/04/2021".
var dateFormats = []string{
	"2/1/2006",
	"2/1/06",
	"2006/1/2",
	"2/1/2006 15:04:05",
}

// lenientFormats back the day-first fallback for historical rows that mix
// time components or orderings the fixed templates miss.
var lenientFormats = []string{
	"2/1/2006 15:04",
	"2006/1/2 15:04:05",
	"2/1/2006 15:04:05 PM",
}

// Date parses a measurement date. Separators ".", "," and "-" are rewritten
// to "/" first, then a fixed, ordered template list is tried, then a lenient
// day-first pass. Returns nil when nothing matches: some historical rows
// simply carry no date, and that is not fatal.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	r := strings.NewReplacer(".", "/", ",", "/", "-", "/")
	s = r.Replace(s)

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range lenientFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// belowThresholdMargin is subtracted from "<"-prefixed readings so a value
// below the instrument threshold becomes a slightly reduced point estimate
// instead of a censored one.
const belowThresholdMargin = 0.1

// FieldStrength extracts a dBµV/m reading from free text. A "<" marker in
// the text subtracts a fixed margin from the parsed number, floored at zero.
// Returns nil when the text holds no number.
func FieldStrength(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	m := fieldStrengthRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	if strings.Contains(s, "<") {
		v -= belowThresholdMargin
		if v < 0 {
			v = 0
		}
	}
	return &v
}
