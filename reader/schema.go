package reader

import (
	"fmt"
)

// SchemaInfo describes one column of an input file.
type SchemaInfo struct {
	Index        int    `json:"index" yaml:"index"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	PhysicalType string `json:"physical_type,omitempty" yaml:"physical_type,omitempty"`
}

// ExtractSchemaInfo returns the columns of the file at path. For parquet
// files the physical type of each column is included.
func ExtractSchemaInfo(path string, opts Options) ([]SchemaInfo, error) {
	if IsParquet(path) && opts.Schema == nil {
		r, err := NewParquetReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()

		fields := r.pqFile.Schema().Fields()
		infos := make([]SchemaInfo, len(fields))
		for i, field := range fields {
			col := r.Schema().Column(i)
			infos[i] = SchemaInfo{
				Index:        i,
				Name:         col.Name,
				Type:         col.Type.Name(),
				PhysicalType: physicalType(field),
			}
		}
		return infos, nil
	}

	s, err := ReadSchema(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	infos := make([]SchemaInfo, s.Len())
	for i, col := range s.Columns() {
		infos[i] = SchemaInfo{Index: i, Name: col.Name, Type: col.Type.Name()}
	}
	return infos, nil
}
