package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberOptions bounds the fractional digits of a formatted number.
type NumberOptions struct {
	MinFractionDigits int
	MaxFractionDigits int
}

// DefaultCurrencyOptions are the fraction bounds used for amounts.
var defaultCurrencyOptions = NumberOptions{MinFractionDigits: 2, MaxFractionDigits: 2}

// Formatter renders numbers, currency amounts, dates and strings for one
// locale. The zero value is not usable; construct with New.
type Formatter struct {
	tag          language.Tag
	printer      *message.Printer
	decimalComma bool
}

// New creates a Formatter for a BCP 47 locale tag such as "de" or "en-US".
// Unrecognized tags fall back to English rather than failing: formatting is
// a presentation concern and must not abort a pass.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return NewForTag(tag)
}

// NewForTag creates a Formatter for an already-parsed language tag.
func NewForTag(tag language.Tag) *Formatter {
	printer := message.NewPrinter(tag)
	sample := printer.Sprint(number.Decimal(1.1, number.MinFractionDigits(1)))
	return &Formatter{
		tag:          tag,
		printer:      printer,
		decimalComma: strings.Contains(sample, ","),
	}
}

// Tag returns the formatter's language tag.
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Number formats v with the locale's grouping and decimal conventions.
func (f *Formatter) Number(v float64, opts NumberOptions) string {
	options := []number.Option{}
	if opts.MinFractionDigits > 0 {
		options = append(options, number.MinFractionDigits(opts.MinFractionDigits))
	}
	if opts.MaxFractionDigits > 0 || opts.MinFractionDigits > 0 {
		max := opts.MaxFractionDigits
		if max < opts.MinFractionDigits {
			max = opts.MinFractionDigits
		}
		options = append(options, number.MaxFractionDigits(max))
	}
	return f.printer.Sprint(number.Decimal(v, options...))
}

// Currency formats an amount for the given ISO 4217 code, validating the
// code and placing the symbol where the locale expects it (after the amount
// for comma-decimal locales, before it otherwise).
func (f *Formatter) Currency(v float64, code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("format: unsupported currency %q: %w", code, err)
	}

	amount := f.Number(v, defaultCurrencyOptions)
	symbol := currencySymbol(unit.String())
	if f.decimalComma {
		return amount + " " + symbol, nil
	}
	return symbol + amount, nil
}

// currencySymbol maps the common ISO codes to their sign; anything else
// keeps the code itself.
func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	case "CHF":
		return "CHF"
	case "PLN":
		return "zł"
	case "SEK", "NOK", "DKK":
		return "kr"
	default:
		return code
	}
}

// dateLayouts are the input shapes ParseDate tolerates, most specific
// first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"02 Jan 2006",
	"January 2, 2006",
}

// ParseDate parses a date string across the tolerated layouts.
func ParseDate(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("format: unparseable date %q", raw)
}

// Date formats t using the given Go reference layout. An empty layout picks
// the locale default: day-first dotted for comma-decimal locales, month
// name style otherwise.
func (f *Formatter) Date(t time.Time, layout string) string {
	if layout == "" {
		if f.decimalComma {
			layout = "02.01.2006"
		} else {
			layout = "Jan 2, 2006"
		}
	}
	return t.Format(layout)
}

// Transform applies a named string transform: upper, lower, title, or trim.
// Unknown names return the input unchanged.
func (f *Formatter) Transform(raw, transform string) string {
	switch strings.ToLower(strings.TrimSpace(transform)) {
	case "upper":
		return cases.Upper(f.tag).String(raw)
	case "lower":
		return cases.Lower(f.tag).String(raw)
	case "title":
		return cases.Title(f.tag).String(raw)
	case "trim":
		return strings.TrimSpace(raw)
	default:
		return raw
	}
}
