package reader

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadMultipleFiles_SingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trades.csv", []byte(tradesCSV))

	table, err := ReadMultipleFiles(path, Options{})
	if err != nil {
		t.Fatalf("ReadMultipleFiles() error = %v", err)
	}

	// A plain path reads one file and keeps its shape.
	if _, _, ok := table.Schema.FindColumn(FileColumn); ok {
		t.Errorf("single file read should not add %s column", FileColumn)
	}
	if len(table.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(table.Rows))
	}
}

func TestReadMultipleFiles_Glob(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "2024-01.csv", []byte("stock[string],size[int]\nVOD.L,1\n"))
	b := writeFile(t, dir, "2024-02.csv", []byte("stock[string],size[int]\nBP.L,2\nRR.L,3\n"))
	writeFile(t, dir, "notes.txt", []byte("ignored"))

	table, err := ReadMultipleFiles(filepath.Join(dir, "2024-*.csv"), Options{})
	if err != nil {
		t.Fatalf("ReadMultipleFiles() error = %v", err)
	}

	if got, want := table.Schema.String(), "stock[string],size[int],_file[string]"; got != want {
		t.Errorf("schema = %s, want %s", got, want)
	}
	want := [][]string{
		{"VOD.L", "1", a},
		{"BP.L", "2", b},
		{"RR.L", "3", b},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %v, want %v", table.Rows, want)
	}
}

func TestReadMultipleFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.csv", []byte("n[int]\n1\n"))
	writeFile(t, dir, "x/y/deep.csv", []byte("n[int]\n2\n"))

	table, err := ReadMultipleFiles(filepath.Join(dir, "**", "*.csv"), Options{})
	if err != nil {
		t.Fatalf("ReadMultipleFiles() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(table.Rows))
	}
}

func TestReadMultipleFiles_MixedFormats(t *testing.T) {
	dir := t.TempDir()
	writeTradesParquet(t, filepath.Join(dir, "a.parquet"))
	writeFile(t, dir, "b.csv", []byte(
		"stock[string],price[float],size[int],lots[int],executed[bool]\nRR.L,1.5,5,1,true\n"))

	table, err := ReadMultipleFiles(filepath.Join(dir, "*.{csv,parquet}"), Options{})
	if err != nil {
		t.Fatalf("ReadMultipleFiles() error = %v", err)
	}
	if len(table.Rows) != 3 {
		t.Errorf("got %d rows, want 3", len(table.Rows))
	}
}

func TestReadMultipleFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", []byte("n[int]\n1\n"))
	writeFile(t, dir, "b.csv", []byte("n[float]\n1\n"))

	_, err := ReadMultipleFiles(filepath.Join(dir, "*.csv"), Options{})
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Errorf("schema mismatch error = %v", err)
	}

	_, err = ReadMultipleFiles(filepath.Join(dir, "*.parquet"), Options{})
	if err == nil || !strings.Contains(err.Error(), "no files match pattern") {
		t.Errorf("no match error = %v", err)
	}

	writeFile(t, dir, "c.csv", []byte("broken"))
	_, err = ReadMultipleFiles(filepath.Join(dir, "c*.csv"), Options{})
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("bad file error = %v", err)
	}
}

func TestExpandPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", nil)
	writeFile(t, dir, "a.csv", nil)

	got, err := ExpandPattern(filepath.Join(dir, "*.csv"))
	if err != nil {
		t.Fatalf("ExpandPattern() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandPattern() = %v, want %v", got, want)
	}

	got, err = ExpandPattern("plain.csv")
	if err != nil || !reflect.DeepEqual(got, []string{"plain.csv"}) {
		t.Errorf("ExpandPattern(plain) = %v, %v", got, err)
	}
}
