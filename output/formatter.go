package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/vegasq/csvfilt/schema"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write rows in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes rows, each holding raw field text in schema order.
	Format(s *schema.Schema, rows [][]string) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Options configures formatters built by New.
type Options struct {
	// CSVSafe neutralises values that spreadsheets would run as formulas.
	CSVSafe bool

	// MaxWidth truncates table cells to this many terminal columns. Zero
	// means no limit.
	MaxWidth int
}

var constructors = map[string]func(w io.Writer, opts Options) Formatter{
	"csv": func(w io.Writer, opts Options) Formatter {
		f := NewCSVFormatter(w)
		f.Sanitize = opts.CSVSafe
		return f
	},
	"jsonl": func(w io.Writer, _ Options) Formatter { return NewJSONFormatter(w) },
	"json":  func(w io.Writer, _ Options) Formatter { return NewJSONArrayFormatter(w) },
	"table": func(w io.Writer, opts Options) Formatter {
		f := NewTableFormatter(w)
		f.MaxWidth = opts.MaxWidth
		return f
	},
}

// Formats lists the names accepted by New.
func Formats() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the formatter registered under name.
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (expected one of %v)", name, Formats())
	}
	return ctor(w, opts), nil
}
