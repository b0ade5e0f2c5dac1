package dataset

import (
	"fmt"
	"reflect"
	"testing"
)

func TestMonthFromDate(t *testing.T) {
	cases := []struct {
		date  string
		month int
		ok    bool
	}{
		{"2017-03-15", 3, true},
		{"1970-12-01", 12, true},
		{"2017-13-01", 0, false},
		{"15/03/2017", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		month, ok := MonthFromDate(c.date)
		if month != c.month || ok != c.ok {
			t.Errorf("MonthFromDate(%q) = (%d, %v), want (%d, %v)", c.date, month, ok, c.month, c.ok)
		}
	}
}

func TestClimateAggregator(t *testing.T) {
	agg := NewClimateAggregator(1970)

	add := func(dt, country, temp string) {
		t.Helper()
		if err := agg.Add(dt, country, temp); err != nil {
			t.Fatalf("Add(%q, %q, %q) error: %v", dt, country, temp, err)
		}
	}

	// Older readings and missing temperatures are dropped.
	add("1969-12-01", "Brazil", "25.0")
	add("1970-01-01", "Brazil", "")

	add("1970-01-01", "Brazil", "25.0")
	add("1971-01-01", "Brazil", "27.0")
	add("1970-02-01", "Brazil", "24.0")
	add("1970-01-01", "Albania", "2.0")

	if agg.Len() != 3 {
		t.Fatalf("expected 3 profiles, got %d", agg.Len())
	}

	want := [][]string{
		{"Albania", "1", "2"},
		{"Brazil", "1", "26"},
		{"Brazil", "2", "24"},
	}
	if got := agg.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows = %v, want %v", got, want)
	}
}

func TestClimateAggregatorErrors(t *testing.T) {
	agg := NewClimateAggregator(1970)

	if err := agg.Add("not-a-date", "Brazil", "25.0"); err == nil {
		t.Errorf("expected error for malformed date")
	}
	if err := agg.Add("1980-01-01", "Brazil", "warm"); err == nil {
		t.Errorf("expected error for malformed temperature")
	}
}

func TestCompleteProfiles(t *testing.T) {
	agg := NewClimateAggregator(1970)

	for month := 1; month <= 12; month++ {
		date := fmt.Sprintf("1980-%02d-01", month)
		if err := agg.Add(date, "Brazil", "25.0"); err != nil {
			t.Fatalf("Add(%q) error: %v", date, err)
		}
	}
	if err := agg.Add("1980-06-01", "Albania", "18.0"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	complete, total := agg.CompleteProfiles()
	if complete != 1 {
		t.Errorf("expected 1 complete profile, got %d", complete)
	}
	if total != 2 {
		t.Errorf("expected 2 countries, got %d", total)
	}
}
