package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vegasq/csvfilt/schema"
)

// FileColumn is the column appended to rows read through a glob pattern.
const FileColumn = "_file"

// MaxFiles caps how many files one glob pattern may expand to.
const MaxFiles = 1000

// HasGlobMeta reports whether pattern contains glob wildcards.
func HasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

// ExpandPattern returns the files matching a glob pattern in lexical order.
// A pattern without wildcards is returned as is.
func ExpandPattern(pattern string) ([]string, error) {
	if !HasGlobMeta(pattern) {
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > MaxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), MaxFiles)
	}
	sort.Strings(matches)
	return matches, nil
}

// ReadMultipleFiles reads every file matching pattern into one table.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ** matches any number of directories
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//   - {a,b} matches either a or b
//
// All files must share the same schema. Rows are tagged with a trailing
// _file[string] column holding their source path. A pattern without
// wildcards reads that single file and adds no column.
func ReadMultipleFiles(pattern string, opts Options) (*Table, error) {
	if !HasGlobMeta(pattern) {
		return ReadFile(pattern, opts)
	}

	paths, err := ExpandPattern(pattern)
	if err != nil {
		return nil, err
	}

	var (
		first *schema.Schema
		rows  [][]string
	)
	for _, path := range paths {
		table, err := ReadFile(path, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if first == nil {
			first = table.Schema
		} else if !first.Equal(table.Schema) {
			return nil, fmt.Errorf("%w: %s has columns [%s], expected [%s]", ErrHeaderMismatch, path, table.Schema, first)
		}

		for _, row := range table.Rows {
			tagged := make([]string, len(row)+1)
			copy(tagged, row)
			tagged[len(row)] = path
			rows = append(rows, tagged)
		}
	}

	s, err := first.Append(schema.Column{Name: FileColumn, Type: schema.String})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([][]string, 0)
	}

	opts.logger().Debug("read files", "pattern", pattern, "files", len(paths), "rows", len(rows))
	return &Table{Schema: s, Rows: rows}, nil
}
