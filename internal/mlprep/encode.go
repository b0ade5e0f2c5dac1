// Package mlprep implements the preprocessing step: label encoding,
// the seeded stratified split, feature standardization, and the Parquet
// and artifact outputs.
package mlprep

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category strings to integers. Classes are fitted on the
// full dataset (the mapping is a bijection, not a leakage risk) and kept
// sorted so the same data always yields the same codes.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

func FitLabelEncoder(values []string) *LabelEncoder {
	seen := make(map[string]bool)
	var classes []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	return &LabelEncoder{Classes: classes, index: index}
}

func (e *LabelEncoder) Transform(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("unseen label %q", value)
	}
	return code, nil
}

func (e *LabelEncoder) TransformAll(values []string) ([]int, error) {
	codes := make([]int, len(values))
	for i, v := range values {
		code, err := e.Transform(v)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}
