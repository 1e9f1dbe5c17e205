package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/csvfilt/schema"
)

// JSONFormatter outputs rows as JSON objects with keys in schema order and
// values decoded by column type. By default it writes JSON Lines; in array
// mode it writes a single JSON array.
type JSONFormatter struct {
	writer io.Writer
	array  bool
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// NewJSONArrayFormatter creates a formatter writing one JSON array
func NewJSONArrayFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, array: true}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line), or as an array
// of objects in array mode.
func (j *JSONFormatter) Format(s *schema.Schema, rows [][]string) error {
	bw := bufio.NewWriter(j.writer)

	keys := make([][]byte, s.Len())
	for i, name := range s.Names() {
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	if j.array {
		_ = bw.WriteByte('[')
	}

	var buf []byte
	for n, row := range rows {
		buf = buf[:0]
		if j.array && n > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '{')
		for i, key := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, key...)
			buf = append(buf, ':')

			var text string
			if i < len(row) {
				text = row[i]
			}
			value, err := json.Marshal(jsonValue(s.Column(i).Type, text))
			if err != nil {
				return fmt.Errorf("failed to encode column %s: %w", s.Column(i).Name, err)
			}
			buf = append(buf, value...)
		}
		buf = append(buf, '}')
		if !j.array {
			buf = append(buf, '\n')
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	if j.array {
		_, _ = bw.WriteString("]\n")
	}
	return bw.Flush()
}

// jsonValue decodes a field for encoding. Empty fields become null and fields
// that do not decode as their column type are kept as strings.
func jsonValue(t *schema.ColumnType, text string) interface{} {
	if t.Same(schema.String) {
		return text
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	v, err := t.Value(text)
	if err != nil {
		return text
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return strings.TrimSpace(text)
	}
	return v
}
