package session

import (
	"sort"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/evaluate"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/progress"
	"github.com/abhisek/buddy/internal/scoring"
	"github.com/abhisek/buddy/internal/store"
)

// ActivityResult is the outcome of one presented activity.
type ActivityResult struct {
	Activity  catalog.Activity
	Breakdown scoring.Breakdown
	Answer    string
	Score     float64
	Correct   bool
	Reason    string
	Outcome   evaluate.Outcome
	Deltas    []store.SkillDelta

	// Sequence is the history sequence assigned on commit; zero while
	// the result is still uncommitted.
	Sequence int64

	committed bool
}

// Committed reports whether the result has been durably saved.
func (r *ActivityResult) Committed() bool {
	return r.committed
}

// Summary reports a session's results. It retains enough in-memory state
// for RetrySave after a persistence failure.
type Summary struct {
	SessionID string
	ChildID   string
	Started   time.Time
	Finished  time.Time
	Phase     Phase

	Successes int
	Partials  int
	Struggles int
	Skips     int

	Results []*ActivityResult

	// Profile is the end-of-session profile state; set once the session
	// completes. Until PhaseComplete the working state lives in tracker.
	Profile *profile.Profile

	tracker *progress.Tracker
}

func (s *Summary) record(o evaluate.Outcome) {
	switch o {
	case evaluate.OutcomeSuccess:
		s.Successes++
	case evaluate.OutcomePartial:
		s.Partials++
	case evaluate.OutcomeSkipped:
		s.Skips++
	default:
		s.Struggles++
	}
}

// Served returns the number of activities presented.
func (s *Summary) Served() int {
	return len(s.Results)
}

// Pending returns the number of results not yet durably saved.
func (s *Summary) Pending() int {
	n := 0
	for _, r := range s.Results {
		if !r.committed {
			n++
		}
	}
	return n
}

// SkillsTouched returns the sorted set of skills updated this session.
func (s *Summary) SkillsTouched() []string {
	seen := make(map[string]bool)
	for _, r := range s.Results {
		for _, d := range r.Deltas {
			seen[d.Skill] = true
		}
	}
	skills := make([]string, 0, len(seen))
	for skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}
