// Package query compiles boolean filter queries into row predicates.
//
// A query compares identifiers with one of = != < <= > >= and combines
// comparisons with && and ||, which share one precedence level and group to
// the right. A negation needs brackets: !(a = 1). Identifiers are runs of
// letters, digits and dots; each one is either a column name or a literal,
// and which one is decided when the query is compiled against a schema.
//
//	price > 100 && !(stock = VOD.L)
//	(size >= 10 || executed = true) && price < 99.5
//
// Compilation resolves every comparison against the column types of a
// schema.Schema and produces a Predicate. Field texts are parsed as the
// column's declared type on every call, so a field that is not a valid
// value of its type is reported as an error rather than a non-match.
//
// Example usage:
//
//	s, err := schema.FromHeader([]string{"stock[string]", "price[float]"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := query.CompileString("price > 100", s)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	matched, err := query.ApplyFilter(rows, pred)
package query
