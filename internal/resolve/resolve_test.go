package resolve

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"United States", "united states"},
		{"  UK ", "uk"},
		{"VIETNAM", "vietnam"},
		{"already normal", "already normal"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewIndexKeepsFirstSpelling(t *testing.T) {
	ix := NewIndex([]string{"Turkey", "turkey", "France", "Turkey"})

	if ix.Len() != 2 {
		t.Errorf("expected 2 index entries, got %d", ix.Len())
	}
	if name, ok := ix.Lookup("turkey"); !ok || name != "Turkey" {
		t.Errorf("expected first spelling to win, got %q (ok=%v)", name, ok)
	}

	// Only the differently-spelled collision is recorded; the exact
	// repeat of "Turkey" is not.
	if len(ix.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d: %v", len(ix.Duplicates), ix.Duplicates)
	}
	d := ix.Duplicates[0]
	if d.Key != "turkey" || d.Kept != "Turkey" || d.Dropped != "turkey" {
		t.Errorf("unexpected duplicate record: %+v", d)
	}
}

func TestResolve(t *testing.T) {
	index := NewIndex([]string{"United States", "United Kingdom", "Drake", "Coldplay"})
	r := &Resolver{
		Index: index,
		Overrides: map[string]string{
			"usa":   "United States",
			"uk":    "United Kingdom",
			"korea": "South Korea", // override target absent from the reference
		},
		SplitComposites: true,
	}

	cases := []struct {
		raw      string
		want     string
		strategy Strategy
	}{
		{"United States", "United States", Direct},
		{"  united kingdom ", "United Kingdom", Direct},
		{"USA", "United States", Override},
		{"UK", "United Kingdom", Override},
		{"Korea", "", None},
		{"Drake, Rihanna", "Drake", Split},
		{"Coldplay feat. Rihanna", "Coldplay", Split},
		{"Drake & Future", "Drake", Split},
		{"Drake ft. Lil Wayne", "Drake", Split},
		{"drake vs. somebody", "Drake", Split},
		{"Nowhere", "", None},
		{"", "", None},
	}
	for _, c := range cases {
		got, strategy := r.Resolve(c.raw)
		if got != c.want || strategy != c.strategy {
			t.Errorf("Resolve(%q) = (%q, %s), want (%q, %s)", c.raw, got, strategy, c.want, c.strategy)
		}
	}
}

func TestResolveWithoutSplit(t *testing.T) {
	index := NewIndex([]string{"Drake"})
	r := &Resolver{Index: index}

	if name, strategy := r.Resolve("Drake, Rihanna"); strategy != None || name != "" {
		t.Errorf("expected no match without composite splitting, got (%q, %s)", name, strategy)
	}
	if name, strategy := r.Resolve("Drake"); strategy != Direct || name != "Drake" {
		t.Errorf("expected direct match, got (%q, %s)", name, strategy)
	}
}

func TestResolveAll(t *testing.T) {
	index := NewIndex([]string{"United States", "Germany"})
	r := &Resolver{Index: index, Overrides: map[string]string{"usa": "United States"}}

	raws := []string{"Germany", "USA", "Atlantis", "Germany", "Mordor", "Atlantis"}
	mapping, stats := r.ResolveAll(raws)

	want := map[string]string{
		"Germany":  "Germany",
		"USA":      "United States",
		"Atlantis": "",
		"Mordor":   "",
	}
	if !reflect.DeepEqual(mapping, want) {
		t.Errorf("mapping = %v, want %v", mapping, want)
	}

	// Repeated raws count once.
	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.Matched != 2 {
		t.Errorf("expected 2 matched, got %d", stats.Matched)
	}
	if !reflect.DeepEqual(stats.Unmatched, []string{"Atlantis", "Mordor"}) {
		t.Errorf("expected unmatched in first-seen order, got %v", stats.Unmatched)
	}
	if stats.MatchRate() != 0.5 {
		t.Errorf("expected match rate 0.5, got %f", stats.MatchRate())
	}
}

func TestMatchRateEmpty(t *testing.T) {
	var s Stats
	if got := s.MatchRate(); got != 0 {
		t.Errorf("expected 0 for empty stats, got %f", got)
	}
}

func TestStrategyString(t *testing.T) {
	cases := []struct {
		s    Strategy
		want string
	}{
		{None, "none"},
		{Direct, "direct"},
		{Override, "override"},
		{Split, "split"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", c.s, got, c.want)
		}
	}
}
