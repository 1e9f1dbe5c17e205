package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vegasq/csvfilt/internal/logging"
	"github.com/vegasq/csvfilt/schema"
)

var (
	// ErrEmptyInput is returned when a delimited file has no header line.
	ErrEmptyInput = errors.New("empty input: missing header line")

	// ErrHeaderMismatch is returned when a schema override does not name the
	// same columns as the file header.
	ErrHeaderMismatch = errors.New("header does not match schema")

	// ErrUnsupportedColumn is returned for parquet columns that cannot be
	// flattened into a single typed field.
	ErrUnsupportedColumn = errors.New("unsupported column")
)

// Table is a fully loaded dataset: a schema and rows of raw field text in
// schema order.
type Table struct {
	Schema *schema.Schema
	Rows   [][]string
}

// Options controls how files are read.
type Options struct {
	// Delimiter separates fields in delimited files. Zero means ','.
	Delimiter rune

	// Schema overrides the header derived schema. The file header must then
	// list the same column names in the same order, with or without a
	// [type] suffix.
	Schema *schema.Schema

	Logger *slog.Logger
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o Options) logger() *slog.Logger {
	return logging.Default(o.Logger).With("component", "reader")
}

// IsParquet reports whether path names a parquet file.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// ReadFile loads a single delimited or parquet file. Delimited files may be
// compressed, see DetectCompression.
func ReadFile(path string, opts Options) (*Table, error) {
	log := opts.logger()

	var (
		table *Table
		err   error
	)
	if IsParquet(path) {
		table, err = readParquetFile(path, opts)
	} else {
		table, err = readDelimitedFile(path, opts)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("read file", "path", path, "columns", table.Schema.Len(), "rows", len(table.Rows))
	return table, nil
}

// ReadSchema returns the schema of a file without loading its rows.
func ReadSchema(path string, opts Options) (*schema.Schema, error) {
	if IsParquet(path) {
		r, err := NewParquetReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return resolveOverride(r.Schema(), opts.Schema)
	}

	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	s, _, err := readHeader(newCSVReader(rc, opts.delimiter()), opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// resolveOverride checks that an override names the same columns as the
// file's own schema and returns the schema to use.
func resolveOverride(fileSchema, override *schema.Schema) (*schema.Schema, error) {
	if override == nil {
		return fileSchema, nil
	}
	if err := matchNames(fileSchema.Names(), override); err != nil {
		return nil, err
	}
	return override, nil
}

func matchNames(names []string, s *schema.Schema) error {
	if len(names) != s.Len() {
		return fmt.Errorf("%w: file has %d columns, schema has %d", ErrHeaderMismatch, len(names), s.Len())
	}
	for i, name := range names {
		if want := s.Column(i).Name; name != want {
			return fmt.Errorf("%w: column %d is '%s', schema expects '%s'", ErrHeaderMismatch, i+1, name, want)
		}
	}
	return nil
}
