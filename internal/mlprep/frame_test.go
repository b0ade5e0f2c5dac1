package mlprep

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
)

func TestNewFrame(t *testing.T) {
	if _, err := NewFrame(nil); err == nil {
		t.Errorf("expected error for empty frame")
	}

	_, err := NewFrame([]Column{
		FloatColumn("a", []float64{1, 2}),
		IntColumn("b", []int{1}),
	})
	if err == nil {
		t.Errorf("expected error for ragged columns")
	}

	f, err := NewFrame([]Column{
		FloatColumn("a", []float64{1, 2}),
		IntColumn("b", []int{3, 4}),
	})
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}
	if f.Rows() != 2 {
		t.Errorf("expected 2 rows, got %d", f.Rows())
	}
	if !reflect.DeepEqual(f.Names(), []string{"a", "b"}) {
		t.Errorf("Names = %v", f.Names())
	}
}

func TestFrameSelect(t *testing.T) {
	f, err := NewFrame([]Column{
		FloatColumn("x", []float64{10, 20, 30}),
		IntColumn("region", []int{0, 1, 2}),
	})
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}

	sub := f.Select([]int{2, 0})
	if sub.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", sub.Rows())
	}
	if !reflect.DeepEqual(sub.Cols[0].Floats, []float64{30, 10}) {
		t.Errorf("floats = %v, want [30 10]", sub.Cols[0].Floats)
	}
	if !reflect.DeepEqual(sub.Cols[1].Ints, []int64{2, 0}) {
		t.Errorf("ints = %v, want [2 0]", sub.Cols[1].Ints)
	}

	// The selection owns its storage.
	sub.Cols[0].Floats[0] = 99
	if f.Cols[0].Floats[2] != 30 {
		t.Errorf("selection aliased the source frame")
	}
}

func TestFrameFloatData(t *testing.T) {
	f, err := NewFrame([]Column{
		FloatColumn("x", []float64{1, 2}),
		IntColumn("region", []int{0, 1}),
	})
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}

	data, err := f.FloatData([]string{"x"})
	if err != nil {
		t.Fatalf("FloatData error: %v", err)
	}
	// FloatData hands out the frame's own storage so a scaler transform
	// lands in the frame.
	data[0][0] = 42
	if f.Cols[0].Floats[0] != 42 {
		t.Errorf("expected write-through, frame has %v", f.Cols[0].Floats)
	}

	if _, err := f.FloatData([]string{"region"}); err == nil {
		t.Errorf("expected error for non-numeric column")
	}
	if _, err := f.FloatData([]string{"missing"}); err == nil {
		t.Errorf("expected error for unknown column")
	}
}

func TestParseFloats(t *testing.T) {
	values, err := ParseFloats("x", []string{"1.5", "2", "-3"})
	if err != nil {
		t.Fatalf("ParseFloats error: %v", err)
	}
	if !reflect.DeepEqual(values, []float64{1.5, 2, -3}) {
		t.Errorf("values = %v", values)
	}

	_, err = ParseFloats("x", []string{"1", ""})
	if err == nil {
		t.Fatalf("expected error for empty cell")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("expected error to locate the row, got %v", err)
	}

	if _, err := ParseFloats("x", []string{"abc"}); err == nil {
		t.Errorf("expected error for malformed number")
	}
}

func TestFrameSchema(t *testing.T) {
	f, err := NewFrame([]Column{
		IntColumn("region", []int{0}),
		FloatColumn("tempo", []float64{120}),
	})
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}

	schema := f.Schema()
	if schema.Field(0).Type != arrow.PrimitiveTypes.Int64 {
		t.Errorf("expected int64 field, got %v", schema.Field(0).Type)
	}
	if schema.Field(1).Type != arrow.PrimitiveTypes.Float64 {
		t.Errorf("expected float64 field, got %v", schema.Field(1).Type)
	}
}

func TestWriteParquet(t *testing.T) {
	f, err := NewFrame([]Column{
		IntColumn("region", []int{0, 1, 0}),
		FloatColumn("tempo", []float64{120, 98.5, 140}),
	})
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "X_train.parquet")
	if err := f.WriteParquet(path); err != nil {
		t.Fatalf("WriteParquet error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(raw) < 8 || string(raw[:4]) != "PAR1" || string(raw[len(raw)-4:]) != "PAR1" {
		t.Errorf("output does not carry the parquet magic bytes")
	}
}
