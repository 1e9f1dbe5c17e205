package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the YAML layout of a schema file:
//
//	columns:
//	  - name: stock
//	    type: string
//	  - name: price
//	    type: float
type fileSchema struct {
	Columns []fileColumn `yaml:"columns"`
}

type fileColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Decode reads a YAML schema document.
func Decode(r io.Reader) (*Schema, error) {
	var doc fileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newSchemaError("", ErrMalformedSpec, "schema file is empty")
		}
		return nil, fmt.Errorf("failed to decode schema file: %w", err)
	}

	columns := make([]Column, 0, len(doc.Columns))
	for _, c := range doc.Columns {
		t, err := Lookup(c.Type)
		if err != nil {
			return nil, err
		}
		columns = append(columns, Column{Name: c.Name, Type: t})
	}
	if len(columns) == 0 {
		return nil, newSchemaError("", ErrMalformedSpec, "schema file declares no columns")
	}
	return New(columns...)
}

// LoadFile reads a YAML schema file from disk.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Encode writes s as a YAML schema document that Decode reads back.
func Encode(w io.Writer, s *Schema) error {
	var doc fileSchema
	for _, col := range s.columns {
		doc.Columns = append(doc.Columns, fileColumn{Name: col.Name, Type: col.Type.Name()})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode schema file: %w", err)
	}
	return enc.Close()
}
