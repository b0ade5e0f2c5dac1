package mlprep

import (
	"reflect"
	"sort"
	"testing"
)

func TestStratifiedSplit(t *testing.T) {
	// Ten rows each of two classes, interleaved.
	labels := make([]int, 20)
	for i := range labels {
		labels[i] = i % 2
	}

	train, test := StratifiedSplit(labels, 0.2, 42)

	if len(train) != 16 || len(test) != 4 {
		t.Fatalf("expected a 16/4 split, got %d/%d", len(train), len(test))
	}

	countClass := func(indices []int, class int) int {
		n := 0
		for _, idx := range indices {
			if labels[idx] == class {
				n++
			}
		}
		return n
	}
	for class := 0; class <= 1; class++ {
		if got := countClass(train, class); got != 8 {
			t.Errorf("class %d: expected 8 training rows, got %d", class, got)
		}
		if got := countClass(test, class); got != 2 {
			t.Errorf("class %d: expected 2 test rows, got %d", class, got)
		}
	}

	if !sort.IntsAreSorted(train) || !sort.IntsAreSorted(test) {
		t.Errorf("expected sorted index output")
	}

	// Together the partitions cover every row exactly once.
	seen := make(map[int]bool)
	for _, idx := range train {
		seen[idx] = true
	}
	for _, idx := range test {
		if seen[idx] {
			t.Errorf("index %d is in both partitions", idx)
		}
		seen[idx] = true
	}
	if len(seen) != len(labels) {
		t.Errorf("expected %d distinct indices, got %d", len(labels), len(seen))
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	labels := make([]int, 100)
	for i := range labels {
		labels[i] = i % 4
	}

	train1, test1 := StratifiedSplit(labels, 0.25, 7)
	train2, test2 := StratifiedSplit(labels, 0.25, 7)

	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Errorf("same seed produced different partitions")
	}
}

func TestStratifiedSplitSmallClasses(t *testing.T) {
	// Class 0 has two rows: each partition gets one even though
	// round(2 * 0.2) is zero. Class 1 has one row, which cannot be
	// split and stays in train.
	labels := []int{0, 0, 1}
	train, test := StratifiedSplit(labels, 0.2, 1)

	if len(test) != 1 || labels[test[0]] != 0 {
		t.Fatalf("expected one class-0 test row, got %v", test)
	}
	if len(train) != 2 {
		t.Fatalf("expected 2 training rows, got %v", train)
	}
	foundSingleton := false
	for _, idx := range train {
		if labels[idx] == 1 {
			foundSingleton = true
		}
	}
	if !foundSingleton {
		t.Errorf("expected the singleton class in train, got %v", train)
	}
}

func TestStratifiedSplitKeepsTrainNonEmpty(t *testing.T) {
	// A huge test share still leaves one training row per class.
	labels := []int{0, 0, 0}
	train, test := StratifiedSplit(labels, 0.9, 3)

	if len(train) != 1 {
		t.Errorf("expected 1 training row, got %v", train)
	}
	if len(test) != 2 {
		t.Errorf("expected 2 test rows, got %v", test)
	}
}
