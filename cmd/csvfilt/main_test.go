package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/csvfilt/query"
	"github.com/vegasq/csvfilt/reader"
	"github.com/vegasq/csvfilt/schema"
)

const tradesCSV = `stock[string],price[float],size[int],executed[bool]
VOD.L,101.5,300,true
BP.L,4.2,1000,false
RR.L,250,20,true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command in-process with an empty home directory so that
// no user config leaks into the test.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestFilter_CSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", tradesCSV)

	stdout, stderr, err := execute(t, "price > 100", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, `stock[string],price[float],size[int],executed[bool]
VOD.L,101.5,300,true
RR.L,250,20,true
`, stdout)
}

func TestFilter_Queries(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", tradesCSV)

	tests := []struct {
		query string
		want  []string
	}{
		{"stock = BP.L", []string{"BP.L"}},
		{"100 < price", []string{"VOD.L", "RR.L"}},
		{"!(executed = true)", []string{"BP.L"}},
		{"size >= 300 && executed = true || stock = RR.L", []string{"VOD.L"}},
		{"(size >= 300 && executed = true) || stock = RR.L", []string{"VOD.L", "RR.L"}},
		{"stock > M", []string{"VOD.L", "RR.L"}},
		{"price < 0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			stdout, _, err := execute(t, "-f", "jsonl", tt.query, path)
			require.NoError(t, err)

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
				if line == "" {
					continue
				}
				var obj map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(line), &obj))
				got = append(got, obj["stock"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_OutputFormats(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", tradesCSV)

	stdout, _, err := execute(t, "-f", "jsonl", "stock = VOD.L", path)
	require.NoError(t, err)
	assert.Equal(t, `{"stock":"VOD.L","price":101.5,"size":300,"executed":true}`+"\n", stdout)

	stdout, _, err = execute(t, "--format", "json", "stock = VOD.L", path)
	require.NoError(t, err)
	assert.Equal(t, `[{"stock":"VOD.L","price":101.5,"size":300,"executed":true}]`+"\n", stdout)

	stdout, _, err = execute(t, "-f", "table", "stock = VOD.L", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "price (float)")
	assert.Contains(t, stdout, "VOD.L")
}

func TestFilter_Limit(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", tradesCSV)

	stdout, _, err := execute(t, "--limit", "1", "size > 0", path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "\n"), "header and one row")

	_, _, err = execute(t, "--limit", "-1", "size > 0", path)
	assert.EqualError(t, err, "--limit must be non-negative, got -1")
}

func TestFilter_CSVSafe(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cells.csv", "cell[string],n[int]\n=1+1,1\n")

	stdout, _, err := execute(t, "--csv-safe", "n = 1", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "'=1+1")
}

func TestFilter_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trades.csv", tradesCSV)
	bad := writeFile(t, dir, "bad.csv", "stock[string],price[float]\nVOD.L,1\nBP.L,n/a\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "syntax",
			args:    []string{"price >", path},
			wantErr: query.ErrSyntax,
			wantMsg: "invalid query: expected ident, got <EOL>",
		},
		{
			name:    "lex",
			args:    []string{"price & 1", path},
			wantErr: query.ErrLex,
		},
		{
			name:    "unknown columns",
			args:    []string{"foo = bar", path},
			wantErr: query.ErrBind,
			wantMsg: "could not find foo or bar as a column",
		},
		{
			name:    "type mismatch",
			args:    []string{"stock = price", path},
			wantErr: query.ErrBind,
			wantMsg: "tried to compare values of stock and price but the types don't match",
		},
		{
			name:    "bad literal",
			args:    []string{"size > big", path},
			wantErr: schema.ErrValue,
		},
		{
			name:    "bad field",
			args:    []string{"price > 0", bad},
			wantErr: schema.ErrValue,
			wantMsg: "row 2: could not make a float from 'n/a'",
		},
		{
			name:    "missing file",
			args:    []string{"price > 0", filepath.Join(dir, "missing.csv")},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
			assert.Empty(t, stdout)
		})
	}

	_, _, err := execute(t, "-f", "xml", "price > 0", path)
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, _, err = execute(t, "price > 0")
	assert.Error(t, err, "query and path are both required")
}

func TestFilter_SchemaFileAndDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plain.csv", "stock;size\nVOD.L;300\nBP.L;1000\n")
	schemaFile := writeFile(t, dir, "trades.yaml", "columns:\n  - {name: stock, type: string}\n  - {name: size, type: int}\n")

	stdout, _, err := execute(t, "--schema-file", schemaFile, "--delimiter", ";", "size > 500", path)
	require.NoError(t, err)
	assert.Equal(t, "stock[string],size[int]\nBP.L,1000\n", stdout)
}

func TestFilter_Glob(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "day1/trades.csv", "stock[string],size[int]\nVOD.L,1\nBP.L,5\n")
	b := writeFile(t, dir, "day2/trades.csv", "stock[string],size[int]\nRR.L,7\n")

	stdout, _, err := execute(t, "size > 2", filepath.Join(dir, "**", "*.csv"))
	require.NoError(t, err)
	assert.Equal(t, "stock[string],size[int],_file[string]\nBP.L,5,"+a+"\nRR.L,7,"+b+"\n", stdout)
}

func TestFilter_Parquet(t *testing.T) {
	type trade struct {
		Stock string  `parquet:"stock"`
		Price float64 `parquet:"price"`
	}

	path := filepath.Join(t.TempDir(), "trades.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[trade](f)
	_, err = w.Write([]trade{{"VOD.L", 101.5}, {"BP.L", 4.2}})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	stdout, _, err := execute(t, "price < 100", path)
	require.NoError(t, err)
	assert.Equal(t, "stock[string],price[float]\nBP.L,4.2\n", stdout)
}

func TestFilter_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trades.csv", tradesCSV)
	cfg := writeFile(t, dir, "csvfilt.yaml", "format: jsonl\nworkers: 2\n")

	stdout, _, err := execute(t, "--config", cfg, "stock = RR.L", path)
	require.NoError(t, err)
	assert.Equal(t, `{"stock":"RR.L","price":250,"size":20,"executed":true}`+"\n", stdout)

	stdout, _, err = execute(t, "--config", cfg, "-f", "csv", "stock = RR.L", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "stock[string]"), "flag must win over config: %s", stdout)

	bad := writeFile(t, dir, "bad.yaml", "colour: blue\n")
	_, _, err = execute(t, "--config", bad, "stock = RR.L", path)
	assert.Error(t, err)
}

func TestFilter_Logging(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", tradesCSV)

	_, stderr, err := execute(t, "--log-level", "info", "--log-format", "json", "price > 100", path)
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stderr)), &record), stderr)
	assert.Equal(t, "filter finished", record["msg"])
	assert.EqualValues(t, 3, record["rows"])
	assert.EqualValues(t, 2, record["matched"])
	assert.NotEmpty(t, record["run"])

	_, _, err = execute(t, "--log-level", "loud", "price > 100", path)
	assert.Error(t, err)
}

func TestSchemaCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trades.csv", tradesCSV)

	stdout, _, err := execute(t, "schema", path)
	require.NoError(t, err)
	for _, want := range []string{"stock", "price", "float", "executed", "bool"} {
		assert.Contains(t, stdout, want)
	}

	stdout, _, err = execute(t, "schema", "-f", "json", path)
	require.NoError(t, err)
	var infos []reader.SchemaInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 4)
	assert.Equal(t, reader.SchemaInfo{Index: 2, Name: "size", Type: "int"}, infos[2])

	stdout, _, err = execute(t, "schema", "-f", "yaml", path)
	require.NoError(t, err)
	s, err := schema.Decode(strings.NewReader(stdout))
	require.NoError(t, err)
	assert.Equal(t, "stock[string],price[float],size[int],executed[bool]", s.String())

	_, _, err = execute(t, "schema", "-f", "xml", path)
	assert.Error(t, err)
}

func TestExplainCmd(t *testing.T) {
	stdout, _, err := execute(t, "explain", "a = 1 && b = 2 || !(c = 3)")
	require.NoError(t, err)
	assert.Equal(t, "(a = 1 && (b = 2 || !(c = 3)))\n", stdout)

	_, _, err = execute(t, "explain", "a = ")
	assert.True(t, errors.Is(err, query.ErrSyntax))
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", stdout)
}

func TestFilter_SampleData(t *testing.T) {
	stdout, _, err := execute(t, "--schema-file", "../../testdata/trades.yaml",
		"venue = LSE && price > 100", "../../testdata/trades.csv")
	require.NoError(t, err)
	assert.Equal(t, `stock[string],price[float],size[int],executed[bool],venue[string]
VOD.L,101.5,300,true,LSE
AZN.L,11250,3,false,LSE
`, stdout)
}
