// Package progress applies skill-proficiency updates and rebuilds
// profile snapshots from the attempt log.
//
// The attempt log is the source of truth: a child's snapshot is a cached
// fold of their attempts over a base profile, and Rebuild reproduces it
// exactly. Everything here is deterministic for that reason.
package progress

import (
	"sort"

	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/store"
)

// DefaultLearningRate is the EMA step toward the latest correctness
// signal. Repeated successes saturate smoothly toward 1.0; a single
// failure pulls proficiency down without collapsing it.
const DefaultLearningRate = 0.30

// Tracker owns a working copy of a child's profile and applies bounded
// proficiency updates to it during a session.
type Tracker struct {
	prof *profile.Profile
	rate float64
}

// NewTracker clones the profile so updates stay private until committed.
// A rate <= 0 falls back to DefaultLearningRate.
func NewTracker(p *profile.Profile, rate float64) *Tracker {
	if rate <= 0 {
		rate = DefaultLearningRate
	}
	return &Tracker{prof: p.Clone(), rate: rate}
}

// Profile returns the tracker's working profile.
func (t *Tracker) Profile() *profile.Profile {
	return t.prof
}

// Apply moves each skill's proficiency toward the correctness score:
//
//	p' = clamp(p + rate x (score - p), 0, 1)
//
// and returns the deltas applied, in skill order, for the history record.
func (t *Tracker) Apply(skills []string, score float64) []store.SkillDelta {
	deltas := make([]store.SkillDelta, 0, len(skills))
	for _, skill := range skills {
		from := t.prof.Skill(skill)
		to := from + t.rate*(score-from)
		t.prof.SetSkill(skill, to)
		deltas = append(deltas, store.SkillDelta{
			Skill: skill,
			From:  from,
			To:    t.prof.Skill(skill),
		})
	}
	return deltas
}

// Rebuild folds a child's attempt log, in order, over a base profile.
// Each attempt recorded the exact post-update proficiency per skill, so
// the fold applies those values directly. The result matches the live
// snapshot bit for bit no matter what learning rate is configured now,
// even if the rate changed between the sessions that wrote the log.
// Attempts with no recorded skill deltas (skips) change nothing.
func Rebuild(base *profile.Profile, attempts []store.Attempt) *profile.Profile {
	prof := base.Clone()
	for _, a := range attempts {
		for _, d := range a.SkillDeltas {
			prof.SetSkill(d.Skill, d.To)
		}
	}
	return prof
}

// Diff compares two profiles' skill maps and returns the sorted names of
// skills whose values differ, including skills present on only one side.
// Empty means the profiles agree.
func Diff(a, b *profile.Profile) []string {
	var mismatched []string
	seen := make(map[string]bool, len(a.Skills))
	for skill, av := range a.Skills {
		seen[skill] = true
		if bv, ok := b.Skills[skill]; !ok || av != bv {
			mismatched = append(mismatched, skill)
		}
	}
	for skill := range b.Skills {
		if !seen[skill] {
			mismatched = append(mismatched, skill)
		}
	}
	sort.Strings(mismatched)
	return mismatched
}
