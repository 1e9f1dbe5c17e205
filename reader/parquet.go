package reader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/parquet-go"

	"github.com/vegasq/csvfilt/schema"
)

// ParquetReader reads a parquet file as typed text rows.
//
// Only flat files are supported: every top-level field must be a leaf column.
// Physical types map onto column types as BOOLEAN to bool, INT32 and INT64
// to int, FLOAT and DOUBLE to float, everything else to string.
type ParquetReader struct {
	file   *os.File
	pqFile *parquet.File
	schema *schema.Schema
	uuids  []bool
}

// NewParquetReader opens a parquet file and derives its schema.
//
// Example:
//
//	r, err := NewParquetReader("trades.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	s, err := schemaFromParquet(pqFile.Schema())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fields := pqFile.Schema().Fields()
	uuids := make([]bool, len(fields))
	for i, field := range fields {
		lt := field.Type().LogicalType()
		uuids[i] = lt != nil && lt.UUID != nil
	}

	return &ParquetReader{file: file, pqFile: pqFile, schema: s, uuids: uuids}, nil
}

// Schema returns the column schema derived from the parquet file.
func (r *ParquetReader) Schema() *schema.Schema {
	return r.schema
}

// NumRows returns the row count recorded in the file metadata.
func (r *ParquetReader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadAll reads every row into memory, rendering each value as text in
// schema order. Null values become empty fields.
func (r *ParquetReader) ReadAll() ([][]string, error) {
	rows := make([][]string, 0, r.pqFile.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	width := r.schema.Len()
	buf := make([]parquet.Row, 256)
	for {
		n, err := reader.ReadRows(buf)
		for _, values := range buf[:n] {
			row := make([]string, width)
			for _, v := range values {
				if c := v.Column(); c >= 0 && c < width {
					row[c] = r.formatValue(c, v)
				}
			}
			rows = append(rows, row)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
	}

	return rows, nil
}

// Close releases the underlying file handle.
func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

func readParquetFile(path string, opts Options) (*Table, error) {
	r, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	s, err := resolveOverride(r.Schema(), opts.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Table{Schema: s, Rows: rows}, nil
}

func schemaFromParquet(ps *parquet.Schema) (*schema.Schema, error) {
	fields := ps.Fields()
	columns := make([]schema.Column, 0, len(fields))
	for _, field := range fields {
		if !field.Leaf() || field.Repeated() {
			return nil, fmt.Errorf("%w: '%s' is nested or repeated", ErrUnsupportedColumn, field.Name())
		}
		columns = append(columns, schema.Column{Name: field.Name(), Type: columnType(field)})
	}
	return schema.New(columns...)
}

func columnType(field parquet.Field) *schema.ColumnType {
	switch field.Type().Kind() {
	case parquet.Boolean:
		return schema.Bool
	case parquet.Int32, parquet.Int64:
		return schema.Int
	case parquet.Float, parquet.Double:
		return schema.Float
	default:
		return schema.String
	}
}

// physicalType names the parquet physical type of a leaf field.
func physicalType(field parquet.Field) string {
	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// formatValue renders a parquet value so that the matching column type
// parses it back.
func (r *ParquetReader) formatValue(column int, v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Int96:
		return v.Int96().String()
	case parquet.Float:
		return formatFloat(float64(v.Float()), 32)
	case parquet.Double:
		return formatFloat(v.Double(), 64)
	case parquet.FixedLenByteArray:
		if b := v.ByteArray(); r.uuids[column] && len(b) == 16 {
			if id, err := uuid.FromBytes(b); err == nil {
				return id.String()
			}
		}
		return string(v.ByteArray())
	default:
		return string(v.ByteArray())
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
