package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumericSummary holds describe-style statistics for one numeric column,
// computed over its non-missing values.
type NumericSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes count, mean, sample standard deviation, and the
// five-number summary for a column. Values must be the column's
// non-missing entries.
func Describe(column string, values []float64) NumericSummary {
	s := NumericSummary{Column: column, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	s.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	s.Q75 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return s
}

// Row renders the summary as a table row.
func (s NumericSummary) Row() []string {
	return []string{
		s.Column,
		fmt.Sprintf("%d", s.Count),
		formatStat(s.Mean),
		formatStat(s.Std),
		formatStat(s.Min),
		formatStat(s.Q25),
		formatStat(s.Median),
		formatStat(s.Q75),
		formatStat(s.Max),
	}
}

// NumericHeader is the header row matching NumericSummary.Row.
func NumericHeader() []string {
	return []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
}

// CategoricalSummary holds describe-style statistics for one string
// column: non-missing count, distinct values, and the modal value with
// its frequency.
type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// DescribeCategorical computes categorical statistics for a column.
// Empty strings count as missing. Ties for the modal value break on the
// lexically smaller label so output is stable.
func DescribeCategorical(column string, values []string) CategoricalSummary {
	s := CategoricalSummary{Column: column}
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		s.Count++
		counts[v]++
	}
	s.Unique = len(counts)
	for v, n := range counts {
		if n > s.Freq || (n == s.Freq && v < s.Top) {
			s.Top = v
			s.Freq = n
		}
	}
	return s
}

// Row renders the summary as a table row.
func (s CategoricalSummary) Row() []string {
	return []string{
		s.Column,
		fmt.Sprintf("%d", s.Count),
		fmt.Sprintf("%d", s.Unique),
		s.Top,
		fmt.Sprintf("%d", s.Freq),
	}
}

// CategoricalHeader is the header row matching CategoricalSummary.Row.
func CategoricalHeader() []string {
	return []string{"column", "count", "unique", "top", "freq"}
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
