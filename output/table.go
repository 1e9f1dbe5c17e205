package output

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/csvfilt/schema"
)

// TableFormatter renders rows as an aligned text table for terminals.
// Numeric columns are right aligned.
type TableFormatter struct {
	writer io.Writer

	// MaxWidth truncates cells wider than this many terminal columns.
	MaxWidth int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the rows under a "name (type)" header
func (t *TableFormatter) Format(s *schema.Schema, rows [][]string) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	header := make([]string, s.Len())
	align := make([]int, s.Len())
	for i, col := range s.Columns() {
		header[i] = t.truncate(col.Name + " (" + col.Type.Name() + ")")
		align[i] = tablewriter.ALIGN_LEFT
		if col.Type.Same(schema.Int) || col.Type.Same(schema.Float) {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	table.SetHeader(header)
	table.SetColumnAlignment(align)

	for _, row := range rows {
		cells := make([]string, s.Len())
		for i := range cells {
			if i < len(row) {
				cells[i] = t.truncate(row[i])
			}
		}
		table.Append(cells)
	}

	table.Render()
	return nil
}

func (t *TableFormatter) truncate(s string) string {
	if t.MaxWidth <= 0 || runewidth.StringWidth(s) <= t.MaxWidth {
		return s
	}
	return runewidth.Truncate(s, t.MaxWidth, "…")
}
