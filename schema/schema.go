// Package schema describes the typed columns of a delimited dataset.
//
// A Schema is an ordered list of named columns, each bound to one of the four
// registered column types (string, int, float, bool). Column types carry the
// comparison functions used by compiled queries, so the schema is the bridge
// between a parsed query and the rows it filters.
//
// Schemas are usually built from a header line whose fields are written as
// name[type]:
//
//	s, err := schema.FromHeader([]string{"stock[string]", "price[float]"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	idx, col, ok := s.FindColumn("price")
package schema

import (
	"regexp"
	"strings"
)

// Column is a named, typed position in every row.
type Column struct {
	Name string
	Type *ColumnType
}

// Spec renders the column as name[type].
func (c Column) Spec() string {
	return c.Name + "[" + c.Type.Name() + "]"
}

// Schema is an immutable ordered list of columns.
type Schema struct {
	columns []Column
	index   map[string]int
}

var specPattern = regexp.MustCompile(`^\s*([^\[\]]*?)\s*\[\s*([^\[\]]*?)\s*\]\s*$`)

// FromHeader builds a schema from column specs of the form name[type].
func FromHeader(specs []string) (*Schema, error) {
	columns := make([]Column, 0, len(specs))
	for _, spec := range specs {
		col, err := ParseColumnSpec(spec)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return New(columns...)
}

// ParseColumnSpec parses a single name[type] spec.
func ParseColumnSpec(spec string) (Column, error) {
	m := specPattern.FindStringSubmatch(spec)
	if m == nil || m[1] == "" || m[2] == "" {
		return Column{}, newSchemaError(spec, ErrMalformedSpec, "malformed column spec '%s', expected name[type]", spec)
	}
	t, err := Lookup(m[2])
	if err != nil {
		return Column{}, err
	}
	return Column{Name: m[1], Type: t}, nil
}

// New builds a schema from already resolved columns. Names must be unique
// and every column must have a type.
func New(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" || col.Type == nil {
			return nil, newSchemaError(col.Name, ErrMalformedSpec, "column %d needs a name and a type", i)
		}
		if _, dup := s.index[col.Name]; dup {
			return nil, newSchemaError(col.Name, ErrDuplicateName, "duplicate column name '%s'", col.Name)
		}
		s.columns[i] = col
		s.index[col.Name] = i
	}
	return s, nil
}

// FindColumn returns the position and definition of the named column.
func (s *Schema) FindColumn(name string) (int, Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return -1, Column{}, false
	}
	return i, s.columns[i], true
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// Column returns the column at position i.
func (s *Schema) Column(i int) Column { return s.columns[i] }

// Columns returns a copy of the columns in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Specs returns the columns rendered as name[type], suitable as a header line.
func (s *Schema) Specs() []string {
	specs := make([]string, len(s.columns))
	for i, col := range s.columns {
		specs[i] = col.Spec()
	}
	return specs
}

// Equal reports whether both schemas have the same names and types in the
// same order.
func (s *Schema) Equal(other *Schema) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, col := range s.columns {
		o := other.columns[i]
		if col.Name != o.Name || !col.Type.Same(o.Type) {
			return false
		}
	}
	return true
}

// Append returns a new schema with extra columns added at the end.
func (s *Schema) Append(columns ...Column) (*Schema, error) {
	all := make([]Column, 0, len(s.columns)+len(columns))
	all = append(all, s.columns...)
	all = append(all, columns...)
	return New(all...)
}

func (s *Schema) String() string {
	return strings.Join(s.Specs(), ",")
}
