// Package resolve matches free-text entity names (regions, artists) against
// a reference table's canonical names. One engine serves every join stage:
// the strategy chain is exact match, then override aliases, then an optional
// composite-string split, first success wins.
package resolve

import (
	"regexp"
	"strings"
)

// Normalize is the shared key form: lowercased, surrounding whitespace removed.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Duplicate records a reference name that collided with an earlier one under
// normalization. The earlier spelling stays in the index.
type Duplicate struct {
	Key     string
	Kept    string
	Dropped string
}

// Index maps normalized reference names back to their canonical spelling.
type Index struct {
	byNorm     map[string]string
	Duplicates []Duplicate
}

// NewIndex builds the lookup from a reference table's name column. When two
// names normalize to the same key, the first one wins and the collision is
// recorded for the stage report.
func NewIndex(canonical []string) *Index {
	ix := &Index{byNorm: make(map[string]string, len(canonical))}
	for _, name := range canonical {
		key := Normalize(name)
		if kept, ok := ix.byNorm[key]; ok {
			if kept != name {
				ix.Duplicates = append(ix.Duplicates, Duplicate{Key: key, Kept: kept, Dropped: name})
			}
			continue
		}
		ix.byNorm[key] = name
	}
	return ix
}

func (ix *Index) Lookup(normalized string) (string, bool) {
	name, ok := ix.byNorm[normalized]
	return name, ok
}

func (ix *Index) Len() int {
	return len(ix.byNorm)
}

// Strategy identifies which step of the chain produced a match.
type Strategy int

const (
	None Strategy = iota
	Direct
	Override
	Split
)

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Override:
		return "override"
	case Split:
		return "split"
	}
	return "none"
}

// Composite artist strings separate the primary name with one of these.
var splitPattern = regexp.MustCompile(`(?i)\s*(?:,|;| vs\.? | feat\.? | ft\.? |&| with )\s*`)

// Resolver applies the strategy chain against one reference index.
// Overrides may be nil. SplitComposites enables the final fallback, used
// only for artist names.
type Resolver struct {
	Index           *Index
	Overrides       map[string]string
	SplitComposites bool
}

// Resolve maps a raw name to its canonical spelling. The returned Strategy
// is None when nothing matched; the canonical name is then empty.
func (r *Resolver) Resolve(raw string) (string, Strategy) {
	norm := Normalize(raw)

	if name, ok := r.Index.Lookup(norm); ok {
		return name, Direct
	}

	if target, ok := r.Overrides[norm]; ok {
		if name, ok := r.Index.Lookup(Normalize(target)); ok {
			return name, Override
		}
	}

	if r.SplitComposites {
		parts := splitPattern.Split(norm, -1)
		if len(parts) > 0 {
			primary := strings.TrimSpace(parts[0])
			if name, ok := r.Index.Lookup(primary); ok {
				return name, Split
			}
		}
	}

	return "", None
}

// Stats summarizes a ResolveAll pass for the stage report and the ledger.
type Stats struct {
	Total     int
	Matched   int
	Unmatched []string
}

func (s Stats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// ResolveAll maps every raw key; unmatched keys map to the empty string and
// are listed in first-seen order.
func (r *Resolver) ResolveAll(raws []string) (map[string]string, Stats) {
	mapping := make(map[string]string, len(raws))
	stats := Stats{Total: len(raws)}
	for _, raw := range raws {
		if _, seen := mapping[raw]; seen {
			stats.Total--
			continue
		}
		name, strategy := r.Resolve(raw)
		mapping[raw] = name
		if strategy == None {
			stats.Unmatched = append(stats.Unmatched, raw)
		} else {
			stats.Matched++
		}
	}
	return mapping, stats
}
