package helpers

import (
	"fmt"

	"github.com/goliatone/go-docmerge/pkg/format"
)

// RawFuncs exposes the formatters in raw mode: bare formatted strings with
// no marker wrapping, for use inside nested template expressions. Failures
// return the bare style-specific placeholder.
func RawFuncs(state *State) map[string]any {
	return map[string]any{
		"format_number": func(value any, digits ...int) string {
			raw := stringify(value)
			parsed, err := format.ParseDecimal(raw)
			if err != nil {
				return format.InvalidNumber(raw)
			}
			opts := format.NumberOptions{}
			if len(digits) > 0 {
				opts.MinFractionDigits = digits[0]
				opts.MaxFractionDigits = digits[0]
			}
			return state.Formatter.Number(parsed, opts)
		},
		"format_currency": func(value any, code ...string) string {
			raw := stringify(value)
			parsed, err := format.ParseDecimal(raw)
			if err != nil {
				return format.InvalidCurrency(raw)
			}
			currencyCode := state.Currency
			if len(code) > 0 {
				currencyCode = code[0]
			}
			formatted, err := state.Formatter.Currency(parsed, currencyCode)
			if err != nil {
				return format.InvalidCurrency(raw)
			}
			return formatted
		},
		"format_date": func(value any, layout ...string) string {
			raw := stringify(value)
			when, err := format.ParseDate(raw)
			if err != nil {
				return format.InvalidDate(raw)
			}
			chosen := ""
			if len(layout) > 0 {
				chosen = layout[0]
			}
			return state.Formatter.Date(when, chosen)
		},
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
