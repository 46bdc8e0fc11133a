// internal/core/usecases/rrf_fusion.go
package usecases

import (
	"cmp"
	"slices"

	"horizon/internal/core/domain"
)

// DefaultRRFConstant is the standard k used by Cormack et al. (2009).
const DefaultRRFConstant = 60

// RRFFusion merges per-source ranked lists into one ordered list using
// Reciprocal Rank Fusion: score(url) = Σ 1/(k+rank) across the sources that
// returned it, rank starting at 1.
type RRFFusion struct {
	k int
}

// NewRRFFusion builds a fusion engine with constant k (0 selects the default).
func NewRRFFusion(k int) *RRFFusion {
	return &RRFFusion{k: cmp.Or(k, DefaultRRFConstant)}
}

type fusedEntry struct {
	result domain.SearchResult
	score  float64
	seenAt int // first-seen sequence, used as the stable tie-break
}

// Fuse merges results grouped by source name, in sourceOrder (the
// deterministic source-registration order). Within each source's slice,
// rank order must already reflect that source's own relevance ordering.
func (f *RRFFusion) Fuse(bySource map[string]domain.RankedList, sourceOrder []string) []domain.SearchResult {
	scores := make(map[string]*fusedEntry, 64)
	seq := 0

	for _, sourceName := range sourceOrder {
		list := bySource[sourceName]
		for rank, r := range list {
			if r.URL == "" {
				continue
			}
			contribution := 1.0 / float64(f.k+rank+1)
			if entry, ok := scores[r.URL]; ok {
				entry.score += contribution
				continue
			}
			scores[r.URL] = &fusedEntry{result: r, score: contribution, seenAt: seq}
			seq++
		}
	}

	entries := make([]*fusedEntry, 0, len(scores))
	for _, e := range scores {
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b *fusedEntry) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.seenAt, b.seenAt)
	})

	out := make([]domain.SearchResult, len(entries))
	for i, e := range entries {
		r := e.result
		r.RRFScore = e.score
		out[i] = r
	}
	return out
}
