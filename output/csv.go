package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/csvfilt/schema"
)

// CSVFormatter outputs rows as CSV with a name[type] header, so its output
// can be filtered again.
type CSVFormatter struct {
	writer io.Writer

	// Sanitize prefixes values that start like a spreadsheet formula.
	Sanitize bool
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the header followed by rows
func (c *CSVFormatter) Format(s *schema.Schema, rows [][]string) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(s.Specs()); err != nil {
		return err
	}

	record := make([]string, s.Len())
	for _, row := range rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = row[i]
			}
			if c.Sanitize {
				record[i] = sanitize(record[i])
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// sanitize guards against CSV injection by prefixing characters that could
// trigger formula execution in spreadsheet applications.
func sanitize(val string) string {
	if len(val) == 0 {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
