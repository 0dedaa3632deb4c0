// Package recommend ranks a catalog against a child profile.
//
// Ranking is a pure function of its inputs: no state is carried between
// calls, and ties are broken deterministically so the same inputs always
// produce the same ordering.
package recommend

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/scoring"
)

// DiversityTolerance is how far below the lowest selected score a
// different-type candidate may sit and still be swapped in to break up
// a single-type batch.
const DiversityTolerance = 0.05

// Recommendation pairs a catalog entry with the score that ranked it.
type Recommendation struct {
	Activity  catalog.Activity
	Breakdown scoring.Breakdown
}

// Recommend scores every catalog entry for the child and returns the top
// n in descending score order, ties broken by activity id ascending.
//
// An empty catalog or n <= 0 returns an empty slice, not an error.
// Activities that fail validation are skipped with a log line; the rest
// of the catalog still ranks. An invalid profile fails the whole call.
func Recommend(activities []catalog.Activity, p *profile.Profile, history []scoring.Attempt, n int, at time.Time) ([]Recommendation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(activities) == 0 || n <= 0 {
		return []Recommendation{}, nil
	}

	scored := make([]Recommendation, 0, len(activities))
	for i := range activities {
		a := activities[i]
		b, err := scoring.Score(&a, p, history, at)
		if err != nil {
			if errors.Is(err, catalog.ErrInvalidActivity) {
				slog.Warn("skipping invalid activity", "activity", a.ID, "err", err)
				continue
			}
			return nil, err
		}
		scored = append(scored, Recommendation{Activity: a, Breakdown: b})
	}

	sortRanked(scored)

	if n > len(scored) {
		n = len(scored)
	}
	selected := scored[:n:n]

	if swapped := diversify(selected, scored[n:]); swapped {
		sortRanked(selected)
	}
	return selected, nil
}

// sortRanked orders by total descending, then activity id ascending.
func sortRanked(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Breakdown.Total != recs[j].Breakdown.Total {
			return recs[i].Breakdown.Total > recs[j].Breakdown.Total
		}
		return recs[i].Activity.ID < recs[j].Activity.ID
	})
}

// diversify swaps the lowest-ranked pick for the best remaining
// different-type candidate when the selection has collapsed to a single
// activity type and a near-equal alternative exists. Prevents monotonous
// sessions without sacrificing meaningful score.
func diversify(selected, rest []Recommendation) bool {
	if len(selected) < 2 || len(rest) == 0 {
		return false
	}

	types := make(map[catalog.Type]bool, len(selected))
	for _, r := range selected {
		types[r.Activity.Type] = true
	}
	if len(types) > 1 {
		return false
	}

	lowest := selected[len(selected)-1]
	for _, cand := range rest {
		if types[cand.Activity.Type] {
			continue
		}
		if lowest.Breakdown.Total-cand.Breakdown.Total <= DiversityTolerance {
			selected[len(selected)-1] = cand
			return true
		}
		// rest is sorted descending; nothing further qualifies.
		return false
	}
	return false
}
