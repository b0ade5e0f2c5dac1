package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// MonthFromDate extracts the month (1-12) from an ISO date string.
func MonthFromDate(date string) (int, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return int(t.Month()), true
}

type climateKey struct {
	country string
	month   int
}

// ClimateAggregator computes the mean temperature per (country, month) over
// readings at or after MinYear. Readings with an empty temperature are
// dropped; a non-empty temperature that does not parse aborts the stage.
type ClimateAggregator struct {
	MinYear int

	sums   map[climateKey]float64
	counts map[climateKey]int64
}

func NewClimateAggregator(minYear int) *ClimateAggregator {
	return &ClimateAggregator{
		MinYear: minYear,
		sums:    make(map[climateKey]float64),
		counts:  make(map[climateKey]int64),
	}
}

func (c *ClimateAggregator) Add(dt, country, temp string) error {
	t, err := time.Parse("2006-01-02", dt)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", dt, err)
	}
	if t.Year() < c.MinYear {
		return nil
	}
	if temp == "" {
		return nil
	}
	v, err := strconv.ParseFloat(temp, 64)
	if err != nil {
		return fmt.Errorf("parsing temperature %q: %w", temp, err)
	}

	key := climateKey{country: country, month: int(t.Month())}
	c.sums[key] += v
	c.counts[key]++
	return nil
}

// Len returns the number of (country, month) profiles accumulated.
func (c *ClimateAggregator) Len() int {
	return len(c.sums)
}

func (c *ClimateAggregator) Header() []string {
	return []string{"country", "month", "avg_temp"}
}

// Rows emits country,month,avg_temp sorted by country then month.
func (c *ClimateAggregator) Rows() [][]string {
	keys := make([]climateKey, 0, len(c.sums))
	for k := range c.sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].country != keys[j].country {
			return keys[i].country < keys[j].country
		}
		return keys[i].month < keys[j].month
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		mean := c.sums[k] / float64(c.counts[k])
		rows = append(rows, []string{
			k.country,
			strconv.Itoa(k.month),
			strconv.FormatFloat(mean, 'g', -1, 64),
		})
	}
	return rows
}

// CompleteProfiles counts how many countries carry all 12 months, alongside
// the total number of countries seen. Deviations are reported, not repaired.
func (c *ClimateAggregator) CompleteProfiles() (complete, total int) {
	months := make(map[string]int)
	for k := range c.sums {
		months[k.country]++
	}
	for _, n := range months {
		if n == 12 {
			complete++
		}
	}
	return complete, len(months)
}
