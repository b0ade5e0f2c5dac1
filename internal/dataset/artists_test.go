package dataset

import (
	"reflect"
	"strings"
	"testing"
)

func TestArtistAggregator(t *testing.T) {
	agg := NewArtistAggregator([]string{"energy", "tempo"})

	add := func(artists, genre string, numerics ...string) {
		t.Helper()
		if err := agg.Add(artists, genre, numerics); err != nil {
			t.Fatalf("Add(%q) error: %v", artists, err)
		}
	}

	add("Drake;Rihanna", "pop", "0.5", "120")
	add("Drake", "rap", "0.7", "")
	add(" Rihanna ; ", "pop", "0.5", "100")
	add("", "rock", "0.9", "90") // empty artists field is dropped

	if agg.Len() != 2 {
		t.Fatalf("expected 2 artists, got %d", agg.Len())
	}

	wantHeader := []string{"artist", "track_genre", "energy", "tempo"}
	if !reflect.DeepEqual(agg.Header(), wantHeader) {
		t.Errorf("Header = %v, want %v", agg.Header(), wantHeader)
	}

	rows := agg.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Sorted by artist name. Drake: energy mean of 0.5 and 0.7, tempo has
	// one missing value so only 120 counts.
	drake := rows[0]
	if drake[0] != "Drake" {
		t.Fatalf("expected Drake first, got %q", drake[0])
	}
	if drake[1] != "['pop', 'rap']" {
		t.Errorf("expected genres in first-seen order, got %q", drake[1])
	}
	if drake[2] != "0.6" {
		t.Errorf("expected energy mean 0.6, got %q", drake[2])
	}
	if drake[3] != "120" {
		t.Errorf("expected tempo 120, got %q", drake[3])
	}

	rihanna := rows[1]
	if rihanna[0] != "Rihanna" {
		t.Fatalf("expected Rihanna second, got %q", rihanna[0])
	}
	if rihanna[1] != "['pop']" {
		t.Errorf("expected pop only once, got %q", rihanna[1])
	}
	if rihanna[3] != "110" {
		t.Errorf("expected tempo mean 110, got %q", rihanna[3])
	}
}

func TestArtistAggregatorAllMissing(t *testing.T) {
	agg := NewArtistAggregator([]string{"energy"})
	if err := agg.Add("Unplugged", "folk", []string{""}); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	rows := agg.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][2] != "" {
		t.Errorf("expected empty mean for all-missing feature, got %q", rows[0][2])
	}
}

func TestArtistAggregatorErrors(t *testing.T) {
	agg := NewArtistAggregator([]string{"energy", "tempo"})

	if err := agg.Add("Drake", "rap", []string{"0.5"}); err == nil {
		t.Errorf("expected error for wrong numeric count")
	}

	err := agg.Add("Drake", "rap", []string{"0.5", "not-a-number"})
	if err == nil {
		t.Fatalf("expected error for malformed number")
	}
	if !strings.Contains(err.Error(), "tempo") {
		t.Errorf("expected error to name the column, got %v", err)
	}
}

func TestArtistAggregatorEmptyGenre(t *testing.T) {
	agg := NewArtistAggregator(nil)
	if err := agg.Add("Drake", "", nil); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	rows := agg.Rows()
	if len(rows) != 1 || rows[0][1] != "[]" {
		t.Errorf("expected empty genre list, got %v", rows)
	}
}
