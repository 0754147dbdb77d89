package format

import "fmt"

// Style-specific error placeholders. A formatting failure degrades to one
// of these inside the markup instead of a missing marker, so an unparseable
// value stays visually distinct from a simply-absent field.

// InvalidNumber is the placeholder for unparseable numeric input.
func InvalidNumber(raw string) string {
	return fmt.Sprintf("[invalid number %q]", raw)
}

// InvalidCurrency is the placeholder for unparseable amounts or unsupported
// currency codes.
func InvalidCurrency(raw string) string {
	return fmt.Sprintf("[invalid currency %q]", raw)
}

// InvalidDate is the placeholder for unparseable date input.
func InvalidDate(raw string) string {
	return fmt.Sprintf("[invalid date %q]", raw)
}
