// Package records reads the flat key/value data files that feed a merge
// pass. Each row carries a canonical field path, a value, and an optional
// trailing comment column. Rows starting with '#' and blank rows are
// skipped; values may be quoted to contain the field delimiter.
package records

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-docmerge/pkg/fieldpath"
)

// DefaultDelimiter separates the path, value and comment columns.
const DefaultDelimiter = ';'

// Record is a single (path, raw value) pair in input order.
type Record struct {
	Path  fieldpath.Path
	Value string
}

// Option customises the reader.
type Option func(*Reader)

// WithDelimiter overrides the column delimiter.
func WithDelimiter(delim rune) Option {
	return func(r *Reader) {
		if delim != 0 {
			r.delimiter = delim
		}
	}
}

// WithLogger routes skip warnings to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Reader parses flat record rows. Structurally invalid rows (wrong column
// count) and rows with malformed paths are skipped with a warning; they
// never abort the read.
type Reader struct {
	delimiter rune
	logger    *slog.Logger
}

// NewReader constructs a Reader applying any options.
func NewReader(options ...Option) *Reader {
	r := &Reader{
		delimiter: DefaultDelimiter,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ReadAll consumes the input and returns the records in file order. Later
// duplicates are preserved here; the context builder applies the
// last-write-wins rule.
func (r *Reader) ReadAll(in io.Reader) ([]Record, error) {
	reader := csv.NewReader(in)
	reader.Comma = r.delimiter
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []Record
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.logger.Warn("skipping malformed row",
					slog.Int("line", parseErr.Line),
					slog.String("reason", parseErr.Err.Error()))
				continue
			}
			return out, err
		}

		record, ok := r.parseRow(row, line)
		if !ok {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// ReadString is ReadAll over a string.
func (r *Reader) ReadString(data string) ([]Record, error) {
	return r.ReadAll(strings.NewReader(data))
}

func (r *Reader) parseRow(row []string, line int) (Record, bool) {
	if isBlankRow(row) {
		return Record{}, false
	}
	// path + value, optionally followed by a comment column
	if len(row) < 2 || len(row) > 3 {
		r.logger.Warn("skipping row with unexpected column count",
			slog.Int("line", line),
			slog.Int("columns", len(row)))
		return Record{}, false
	}

	path, err := fieldpath.Parse(strings.TrimSpace(row[0]))
	if err != nil {
		r.logger.Warn("skipping row with malformed path",
			slog.Int("line", line),
			slog.String("path", row[0]),
			slog.String("reason", err.Error()))
		return Record{}, false
	}
	if path.IsRoot() {
		r.logger.Warn("skipping row with empty path", slog.Int("line", line))
		return Record{}, false
	}

	// An empty value column is a present-but-empty scalar, not a skip.
	return Record{Path: path, Value: row[1]}, true
}

func isBlankRow(row []string) bool {
	for _, col := range row {
		if strings.TrimSpace(col) != "" {
			return false
		}
	}
	return true
}
