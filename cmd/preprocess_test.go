package cmd

import (
	"reflect"
	"testing"

	"github.com/weatherchart/dataset-tools/internal/dataset"
)

func TestPreviewLabels(t *testing.T) {
	counts := []dataset.LabelCount{{Label: "a", Count: 3}, {Label: "b", Count: 2}, {Label: "c", Count: 1}}

	if got := previewLabels(counts, 2); got != "[a b]..." {
		t.Errorf("previewLabels = %q, want truncation marker", got)
	}
	if got := previewLabels(counts, 10); got != "[a b c]" {
		t.Errorf("previewLabels = %q, want all labels", got)
	}
	if got := previewLabels(nil, 10); got != "[]" {
		t.Errorf("previewLabels = %q, want []", got)
	}
}

func TestPreviewMapping(t *testing.T) {
	classes := []string{"jazz", "pop", "rock"}

	if got := previewMapping(classes, 2); got != "{jazz: 0, pop: 1}" {
		t.Errorf("previewMapping = %q", got)
	}
	if got := previewMapping(classes, 10); got != "{jazz: 0, pop: 1, rock: 2}" {
		t.Errorf("previewMapping = %q", got)
	}
}

func TestSelectInts(t *testing.T) {
	got := selectInts([]int{10, 20, 30}, []int{2, 0})
	if !reflect.DeepEqual(got, []int{30, 10}) {
		t.Errorf("selectInts = %v, want [30 10]", got)
	}
}

func TestUniqueInts(t *testing.T) {
	if got := uniqueInts([]int{1, 1, 2, 1}); got != 2 {
		t.Errorf("uniqueInts = %d, want 2", got)
	}
	if got := uniqueInts(nil); got != 0 {
		t.Errorf("uniqueInts = %d, want 0", got)
	}
}

func TestTopClasses(t *testing.T) {
	// Counts: 1 appears three times, 2 twice, 0 once.
	got := topClasses([]int{2, 2, 0, 1, 1, 1}, 2)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("topClasses = %v, want [1 2]", got)
	}

	// Ties break on the smaller code.
	got = topClasses([]int{5, 5, 3, 3, 9}, 3)
	if !reflect.DeepEqual(got, []int{3, 5, 9}) {
		t.Errorf("topClasses = %v, want [3 5 9]", got)
	}
}

func TestClassShare(t *testing.T) {
	if got := classShare([]int{0, 1, 1, 1}, 1); got != 0.75 {
		t.Errorf("classShare = %v, want 0.75", got)
	}
	if got := classShare([]int{0, 1}, 9); got != 0 {
		t.Errorf("classShare = %v, want 0", got)
	}
	if got := classShare(nil, 0); got != 0 {
		t.Errorf("classShare = %v, want 0 for empty input", got)
	}
}
