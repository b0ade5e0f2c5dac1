package csvio

import (
	"fmt"
	"io"
)

// Table is a small in-memory frame for the bounded reference files
// (climate profiles, country tables). Large files go through ChunkReader.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	t.reindex()
	return t
}

func LoadTable(path string) (*Table, error) {
	r, err := NewChunkReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return drainTable(r)
}

// LoadLegacyTable loads a table that is not UTF-8, reporting the encoding
// that NewLegacyChunkReader settled on.
func LoadLegacyTable(path string) (*Table, string, error) {
	r, enc, err := NewLegacyChunkReader(path)
	if err != nil {
		return nil, "", err
	}
	defer r.Close()

	t, err := drainTable(r)
	if err != nil {
		return nil, enc, err
	}
	return t, enc, nil
}

func drainTable(r *ChunkReader) (*Table, error) {
	var rows [][]string
	for {
		batch, err := r.Next(8192)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return NewTable(r.Header(), rows), nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.index[name] = i
	}
}

// Col returns the position of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column returns every value of the named column, in row order.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q (have %v)", name, t.Header)
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, field(row, i))
	}
	return values, nil
}

// Project reduces the table to the named columns, in the given order.
func (t *Table) Project(names []string) (*Table, error) {
	cols := make([]int, len(names))
	for i, name := range names {
		c, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("no column %q (have %v)", name, t.Header)
		}
		cols[i] = c
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = field(row, c)
		}
		rows[r] = out
	}
	return NewTable(append([]string(nil), names...), rows), nil
}

// Rename replaces column names in place. Unknown names are an error.
func (t *Table) Rename(mapping map[string]string) error {
	for from, to := range mapping {
		i, ok := t.index[from]
		if !ok {
			return fmt.Errorf("no column %q (have %v)", from, t.Header)
		}
		t.Header[i] = to
	}
	t.reindex()
	return nil
}

// field tolerates ragged rows: a missing trailing cell reads as empty.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Field is the exported form of field for stage code iterating raw records.
func Field(row []string, i int) string {
	return field(row, i)
}
