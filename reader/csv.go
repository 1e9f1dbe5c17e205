package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/csvfilt/schema"
)

const utf8BOM = "\uFEFF"

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	return cr
}

func readDelimitedFile(path string, opts Options) (*Table, error) {
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	table, err := ReadDelimited(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadDelimited reads a header line followed by rows. Without a schema
// override every header field must be a name[type] spec. Each row must have
// exactly as many fields as the header.
func ReadDelimited(r io.Reader, opts Options) (*Table, error) {
	cr := newCSVReader(r, opts.delimiter())

	s, width, err := readHeader(cr, opts.Schema)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = width

	rows := make([][]string, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, record)
	}

	return &Table{Schema: s, Rows: rows}, nil
}

// readHeader consumes the header line and returns the schema along with the
// number of fields it holds.
func readHeader(cr *csv.Reader, override *schema.Schema) (*schema.Schema, int, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, ErrEmptyInput
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	if override == nil {
		s, err := schema.FromHeader(header)
		if err != nil {
			return nil, 0, err
		}
		return s, len(header), nil
	}

	names := make([]string, len(header))
	for i, field := range header {
		names[i] = headerName(field)
	}
	if err := matchNames(names, override); err != nil {
		return nil, 0, err
	}
	return override, len(header), nil
}

// headerName strips an optional [type] suffix from a header field.
func headerName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return strings.TrimSpace(field)
}
