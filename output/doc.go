// Package output writes filtered rows in various formats.
//
// All formatters receive the schema of the dataset and rows of raw field
// text in schema order, which is what the reader produces and the query
// filter keeps.
//
// # Supported Formats
//
//   - csv: comma-separated values with a name[type] header, so output can be
//     piped back into another filter
//   - jsonl: one JSON object per line, values decoded by column type
//   - json: the same objects collected into one JSON array
//   - table: an aligned text table for terminals
//
// # Basic Usage
//
//	formatter, err := output.New("jsonl", os.Stdout, output.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(table.Schema, rows); err != nil {
//	    log.Fatal(err)
//	}
//
// # Type Handling
//
// The JSON formatters decode int and float columns to JSON numbers and bool
// columns to JSON booleans. Empty non-string fields become null, and fields
// that do not parse as their declared type are emitted as strings.
package output
