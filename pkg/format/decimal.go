// Package format supplies the locale-aware number, currency, date and
// string formatting behind the template helpers. Parsing tolerates the
// digit-grouping conventions a human-edited data file may mix; formatting
// follows the configured locale via golang.org/x/text.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDecimal parses a numeric string accepting both 1234.56 and 1.234,56
// style conventions, plus space or apostrophe grouping. When both '.' and
// ',' appear, the later one is the decimal separator; a single separator is
// always the decimal separator, so "1.234" parses as 1.234.
func ParseDecimal(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("format: empty numeric input")
	}

	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', '\'', '’':
			return -1
		}
		return r
	}, cleaned)

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56: dots group, comma is the decimal point
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// 1,234.56: commas group
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			return 0, fmt.Errorf("format: ambiguous numeric input %q", raw)
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 {
			return 0, fmt.Errorf("format: ambiguous numeric input %q", raw)
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("format: parse %q: %w", raw, err)
	}
	return value, nil
}
