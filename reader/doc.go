// Package reader loads typed datasets from delimited and parquet files.
//
// Delimited files carry their schema in the header line, one name[type] spec
// per field:
//
//	stock[string],price[float],size[int],executed[bool]
//	VOD.L,101.5,300,true
//
// Parquet files carry their own schema, which is mapped onto the same four
// column types. Every loader returns a Table whose rows hold raw field text
// in schema order, ready to be passed to a compiled query predicate.
//
// # Basic Usage
//
//	table, err := reader.ReadFile("trades.csv", reader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(table.Schema, len(table.Rows))
//
// # Compression
//
// Delimited files are decompressed transparently based on their extension:
// .gz, .zst, .br and .lz4 are recognised, so "trades.csv.zst" just works.
//
// # Schema Overrides
//
// Files whose header holds plain column names can be read by supplying the
// schema separately:
//
//	s, err := schema.LoadFile("trades.yaml")
//	table, err := reader.ReadFile("plain.csv", reader.Options{Schema: s})
//
// # Multiple Files
//
// ReadMultipleFiles expands a glob pattern (including ** for recursive
// matches) and concatenates the files, which must share one schema. Each row
// gains a trailing _file[string] column naming its source.
//
// The package uses github.com/segmentio/parquet-go for parquet files and
// github.com/klauspost/compress, github.com/andybalholm/brotli and
// github.com/pierrec/lz4/v4 for compressed input.
package reader
