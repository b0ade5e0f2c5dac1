// Package dataset implements the row transforms the pipeline stages apply:
// artist explosion and aggregation, genre list handling, the rare-label
// filter, and the climate profile aggregation.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ArtistAggregator explodes ;-separated artist lists and accumulates, per
// artist, the distinct genres in first-seen order and the running mean of
// each numeric audio feature.
type ArtistAggregator struct {
	numericCols []string
	artists     map[string]*artistAcc
}

type artistAcc struct {
	genres     []string
	genreSeen  map[string]bool
	sums       []float64
	counts     []int64
}

func NewArtistAggregator(numericCols []string) *ArtistAggregator {
	return &ArtistAggregator{
		numericCols: numericCols,
		artists:     make(map[string]*artistAcc),
	}
}

// Add processes one input row. Rows with an empty artists field are dropped;
// a non-empty numeric cell that does not parse is an error (the source column
// is malformed). Empty numeric cells are skipped, matching missing-value
// means.
func (a *ArtistAggregator) Add(artists, genre string, numerics []string) error {
	if strings.TrimSpace(artists) == "" {
		return nil
	}
	if len(numerics) != len(a.numericCols) {
		return fmt.Errorf("got %d numeric values, want %d", len(numerics), len(a.numericCols))
	}

	for _, name := range strings.Split(artists, ";") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		acc, ok := a.artists[name]
		if !ok {
			acc = &artistAcc{
				genreSeen: make(map[string]bool),
				sums:      make([]float64, len(a.numericCols)),
				counts:    make([]int64, len(a.numericCols)),
			}
			a.artists[name] = acc
		}

		if genre != "" && !acc.genreSeen[genre] {
			acc.genreSeen[genre] = true
			acc.genres = append(acc.genres, genre)
		}

		for i, raw := range numerics {
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("parsing %s value %q: %w", a.numericCols[i], raw, err)
			}
			acc.sums[i] += v
			acc.counts[i]++
		}
	}
	return nil
}

func (a *ArtistAggregator) Len() int {
	return len(a.artists)
}

// Header returns the output columns: artist, the genre list, then the means.
func (a *ArtistAggregator) Header() []string {
	header := []string{"artist", "track_genre"}
	return append(header, a.numericCols...)
}

// Rows emits one row per artist, sorted by artist name.
func (a *ArtistAggregator) Rows() [][]string {
	names := make([]string, 0, len(a.artists))
	for name := range a.artists {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		acc := a.artists[name]
		row := make([]string, 0, 2+len(a.numericCols))
		row = append(row, name, FormatGenreList(acc.genres))
		for i := range a.numericCols {
			if acc.counts[i] == 0 {
				row = append(row, "")
				continue
			}
			mean := acc.sums[i] / float64(acc.counts[i])
			row = append(row, strconv.FormatFloat(mean, 'g', -1, 64))
		}
		rows = append(rows, row)
	}
	return rows
}
