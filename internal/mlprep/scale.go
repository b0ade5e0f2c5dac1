package mlprep

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes columns to zero mean and unit variance using
// the population standard deviation. Statistics are fitted on the training
// partition only and applied unchanged to the test partition.
type StandardScaler struct {
	Columns []string
	Means   []float64
	Stds    []float64
}

// FitScaler computes per-column statistics. A column with no variance keeps
// a scale of 1 so transforming it subtracts the mean without dividing by
// zero.
func FitScaler(columns []string, data [][]float64) (*StandardScaler, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(columns), len(data))
	}

	s := &StandardScaler{
		Columns: columns,
		Means:   make([]float64, len(data)),
		Stds:    make([]float64, len(data)),
	}
	for i, col := range data {
		n := len(col)
		if n == 0 {
			return nil, fmt.Errorf("column %s is empty", columns[i])
		}
		mean := stat.Mean(col, nil)
		std := 0.0
		if n > 1 {
			// stat.Variance divides by n-1; rescale to the population form.
			variance := stat.Variance(col, nil) * float64(n-1) / float64(n)
			std = math.Sqrt(variance)
		}
		if std == 0 {
			std = 1
		}
		s.Means[i] = mean
		s.Stds[i] = std
	}
	return s, nil
}

// Transform standardizes the columns in place.
func (s *StandardScaler) Transform(data [][]float64) error {
	if len(data) != len(s.Means) {
		return fmt.Errorf("got %d columns, scaler fitted on %d", len(data), len(s.Means))
	}
	for i, col := range data {
		for j := range col {
			col[j] = (col[j] - s.Means[i]) / s.Stds[i]
		}
	}
	return nil
}
