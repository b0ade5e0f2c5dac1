package mlprep

import (
	"fmt"
	"strconv"
)

// Column is one feature column headed for Parquet: encoded categoricals
// carry Ints, scaled numerics carry Floats. Exactly one side is set.
type Column struct {
	Name   string
	Ints   []int64
	Floats []float64
}

func IntColumn(name string, codes []int) Column {
	values := make([]int64, len(codes))
	for i, c := range codes {
		values[i] = int64(c)
	}
	return Column{Name: name, Ints: values}
}

func FloatColumn(name string, values []float64) Column {
	return Column{Name: name, Floats: values}
}

func (c Column) len() int {
	if c.Ints != nil {
		return len(c.Ints)
	}
	return len(c.Floats)
}

// Frame is a column-ordered feature matrix.
type Frame struct {
	Cols []Column
}

func NewFrame(cols []Column) (*Frame, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("frame needs at least one column")
	}
	rows := cols[0].len()
	for _, c := range cols[1:] {
		if c.len() != rows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", c.Name, c.len(), rows)
		}
	}
	return &Frame{Cols: cols}, nil
}

func (f *Frame) Rows() int {
	return f.Cols[0].len()
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.Cols))
	for i, c := range f.Cols {
		names[i] = c.Name
	}
	return names
}

// Select returns a new frame holding only the given row indices, in order.
func (f *Frame) Select(indices []int) *Frame {
	cols := make([]Column, len(f.Cols))
	for i, c := range f.Cols {
		out := Column{Name: c.Name}
		if c.Ints != nil {
			out.Ints = make([]int64, len(indices))
			for j, idx := range indices {
				out.Ints[j] = c.Ints[idx]
			}
		} else {
			out.Floats = make([]float64, len(indices))
			for j, idx := range indices {
				out.Floats[j] = c.Floats[idx]
			}
		}
		cols[i] = out
	}
	return &Frame{Cols: cols}
}

// FloatData returns the float columns named, as references into the frame,
// so a scaler transform reaches the frame's own storage.
func (f *Frame) FloatData(names []string) ([][]float64, error) {
	byName := make(map[string]*Column, len(f.Cols))
	for i := range f.Cols {
		byName[f.Cols[i].Name] = &f.Cols[i]
	}

	data := make([][]float64, len(names))
	for i, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no column %s in frame", name)
		}
		if c.Floats == nil {
			return nil, fmt.Errorf("column %s is not numeric", name)
		}
		data[i] = c.Floats
	}
	return data, nil
}

// ParseFloats converts one CSV column to float64. Empty cells are malformed
// here: every numeric feature must be present once the training-set filter
// has run.
func ParseFloats(name string, raw []string) ([]float64, error) {
	values := make([]float64, len(raw))
	for i, r := range raw {
		if r == "" {
			return nil, fmt.Errorf("column %s: row %d is empty", name, i+1)
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: parsing %q: %w", name, r, err)
		}
		values[i] = v
	}
	return values, nil
}
