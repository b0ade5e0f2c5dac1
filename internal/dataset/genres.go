package dataset

import (
	"sort"
	"strings"
)

// FormatGenreList renders genres the way the genre table stores them:
// bracketed, single-quoted, comma separated. An empty list renders as [].
func FormatGenreList(genres []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, g := range genres {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(g, "'", `\'`))
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// PrimaryGenre extracts the first element of a bracketed, quoted list
// string. Anything that does not parse as such a list, including a bare
// scalar label, comes back as the whole field, trimmed.
//
//	"['pop', 'rock']" -> "pop"
//	"rock"            -> "rock"
func PrimaryGenre(field string) string {
	trimmed := strings.TrimSpace(field)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return trimmed
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		// A literal empty list has no first element; keep the field as-is.
		return trimmed
	}

	quote := inner[0]
	if quote != '\'' && quote != '"' {
		return trimmed
	}

	var b strings.Builder
	for i := 1; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			b.WriteByte(inner[i+1])
			i++
			continue
		}
		if c == quote {
			return b.String()
		}
		b.WriteByte(c)
	}
	// Unterminated quote: not a well-formed list.
	return trimmed
}

// LabelCount pairs a label with its frequency.
type LabelCount struct {
	Label string
	Count int
}

// CountLabels tallies label frequencies.
func CountLabels(labels []string) map[string]int {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// SortedByCount returns the tally ordered by descending count, ties by label.
func SortedByCount(counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for l, c := range counts {
		out = append(out, LabelCount{Label: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// FilterRareLabels marks which rows survive the frequency threshold. Every
// retained label has at least min occurrences; kept is the number of true
// entries, which equals the summed frequency of the retained labels.
func FilterRareLabels(labels []string, min int) (keep []bool, removed []LabelCount, kept int) {
	counts := CountLabels(labels)

	keep = make([]bool, len(labels))
	for i, l := range labels {
		if counts[l] >= min {
			keep[i] = true
			kept++
		}
	}

	for _, lc := range SortedByCount(counts) {
		if lc.Count < min {
			removed = append(removed, lc)
		}
	}
	return keep, removed, kept
}
