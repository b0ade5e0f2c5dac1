package cmd

import (
	"reflect"
	"testing"

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
)

func TestInferDtype(t *testing.T) {
	cases := []struct {
		values  []string
		dtype   string
		nonNull int
	}{
		{[]string{"1", "2", "-3"}, "int64", 3},
		{[]string{"1", "2.5"}, "float64", 2},
		{[]string{"1e5", "2"}, "float64", 2},
		// An integer column with gaps reads as float, like a dataframe
		// promoting NaN.
		{[]string{"1", "", "3"}, "float64", 2},
		{[]string{"", ""}, "float64", 0},
		{[]string{"1", "x"}, "object", 2},
		{[]string{"br", "us"}, "object", 2},
	}
	for _, c := range cases {
		dtype, nonNull := inferDtype(c.values)
		if dtype != c.dtype || nonNull != c.nonNull {
			t.Errorf("inferDtype(%v) = (%s, %d), want (%s, %d)",
				c.values, dtype, nonNull, c.dtype, c.nonNull)
		}
	}
}

func TestTopValues(t *testing.T) {
	table := csvio.NewTable(
		[]string{"region"},
		[][]string{{"br"}, {"br"}, {"us"}, {""}},
	)

	top, err := topValues(table, "region", 20)
	if err != nil {
		t.Fatalf("topValues error: %v", err)
	}
	// Missing values are not a region.
	want := []dataset.LabelCount{{Label: "br", Count: 2}, {Label: "us", Count: 1}}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("topValues = %v, want %v", top, want)
	}

	top, err = topValues(table, "region", 1)
	if err != nil {
		t.Fatalf("topValues error: %v", err)
	}
	if len(top) != 1 || top[0].Label != "br" {
		t.Errorf("expected the cap applied, got %v", top)
	}

	if _, err := topValues(table, "genre", 1); err == nil {
		t.Errorf("expected error for unknown column")
	}
}
