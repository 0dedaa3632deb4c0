// Package scoring computes the multi-component fitness score between one
// activity and one child profile.
//
// Scoring is a pure function of its inputs: identical inputs produce
// bit-identical output, which reports and tests rely on. The only
// time-dependent component, the recency penalty, takes its reference
// time as an explicit argument.
package scoring

import (
	"strings"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
)

// Component weights. They must sum to 1.0; the recency weight is
// subtracted rather than added.
const (
	WeightSkill    = 0.35
	WeightInterest = 0.20
	WeightStyle    = 0.15
	WeightLevel    = 0.15
	WeightTime     = 0.10
	WeightRecency  = 0.05
)

// RecencyWindow is how long a prior attempt of the same activity (or the
// same skill set) keeps penalizing a repeat. The penalty decays linearly
// from 1.0 at age zero to 0.0 at the window edge.
const RecencyWindow = 48 * time.Hour

// Floors for components that never reach zero. Most activities remain
// usable across learning styles, and every activity stays minimally
// viable regardless of difficulty distance.
const (
	styleFloor = 0.5
	levelNear  = 0.7
	levelFar   = 0.4
)

// Attempt is the minimal view of a history record the scorer needs.
type Attempt struct {
	ActivityID string
	SkillKey   string
	Timestamp  time.Time
}

// Breakdown holds the six component scores, each in [0,1], and the
// weighted total. It is transient: produced per Score call and consumed
// by the recommender or surfaced in reports, never persisted as state.
type Breakdown struct {
	SkillFit       float64 `json:"skill_fit"`
	InterestFit    float64 `json:"interest_fit"`
	StyleFit       float64 `json:"style_fit"`
	LevelFit       float64 `json:"level_fit"`
	TimeFit        float64 `json:"time_fit"`
	RecencyPenalty float64 `json:"recency_penalty"`
	Total          float64 `json:"total"`
}

// Components returns the breakdown as a flat map for event persistence.
func (b Breakdown) Components() map[string]float64 {
	return map[string]float64{
		"skill_fit":       b.SkillFit,
		"interest_fit":    b.InterestFit,
		"style_fit":       b.StyleFit,
		"level_fit":       b.LevelFit,
		"time_fit":        b.TimeFit,
		"recency_penalty": b.RecencyPenalty,
		"total":           b.Total,
	}
}

// Score computes the fitness of one activity for one child. history is
// the child's recent attempt log (any order); at is the reference time
// for the recency penalty. Inputs are never mutated.
//
// An activity or profile that fails validation aborts scoring for that
// record with a data-validation error; it is never silently scored.
func Score(a *catalog.Activity, p *profile.Profile, history []Attempt, at time.Time) (Breakdown, error) {
	if err := a.Validate(); err != nil {
		return Breakdown{}, err
	}
	if err := p.Validate(); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		SkillFit:       skillFit(a, p),
		InterestFit:    interestFit(a, p),
		StyleFit:       styleFit(a, p),
		LevelFit:       levelFit(a, p),
		TimeFit:        timeFit(a, p),
		RecencyPenalty: recencyPenalty(a, history, at),
	}

	total := WeightSkill*b.SkillFit +
		WeightInterest*b.InterestFit +
		WeightStyle*b.StyleFit +
		WeightLevel*b.LevelFit +
		WeightTime*b.TimeFit -
		WeightRecency*b.RecencyPenalty

	b.Total = clamp01(total)
	return b, nil
}

// skillFit is the mean proficiency over the activity's target skills.
// Skills the child has never been assessed on count as the neutral 0.5.
func skillFit(a *catalog.Activity, p *profile.Profile) float64 {
	return meanSkill(a, p)
}

// interestFit is a binary match: 1.0 when the activity's type or any tag
// intersects the child's interests (case-insensitive, substring-fuzzy),
// else 0.
func interestFit(a *catalog.Activity, p *profile.Profile) float64 {
	if len(p.Interests) == 0 {
		return 0
	}
	interests := make([]string, len(p.Interests))
	for i, in := range p.Interests {
		interests[i] = normalize(in)
	}

	typ := normalize(string(a.Type))
	for _, in := range interests {
		if typ == in {
			return 1
		}
	}
	for _, tag := range a.Tags {
		t := normalize(tag)
		if t == "" {
			continue
		}
		for _, in := range interests {
			if in == "" {
				continue
			}
			if strings.Contains(t, in) || strings.Contains(in, t) {
				return 1
			}
		}
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// styleFit is 1.0 on an exact style match, else a partial-credit floor.
func styleFit(a *catalog.Activity, p *profile.Profile) float64 {
	if a.SupportsStyle(p.LearningStyle) {
		return 1
	}
	return styleFloor
}

// levelFit peaks at 1.0 when the activity's difficulty matches the
// child's derived level and steps down with band distance: one step away
// scores 0.7, two steps 0.4. Never zero.
func levelFit(a *catalog.Activity, p *profile.Profile) float64 {
	derived := derivedLevel(a, p)
	dist := derived.Index() - a.Level.Index()
	if dist < 0 {
		dist = -dist
	}
	switch dist {
	case 0:
		return 1
	case 1:
		return levelNear
	default:
		return levelFar
	}
}

// derivedLevel maps the child's mean proficiency over the activity's
// skills into a difficulty band: <0.6 easy, 0.6-0.8 medium, >0.8 hard.
func derivedLevel(a *catalog.Activity, p *profile.Profile) catalog.Level {
	mean := meanSkill(a, p)
	switch {
	case mean < 0.6:
		return catalog.LevelEasy
	case mean <= 0.8:
		return catalog.LevelMedium
	default:
		return catalog.LevelHard
	}
}

// timeFit is 1.0 when the activity fits the child's attention span and
// falls off linearly in the span/duration ratio beyond it. The ratio
// approaches zero for grossly oversized activities but never reaches it.
func timeFit(a *catalog.Activity, p *profile.Profile) float64 {
	if a.EstimatedMin <= p.AttentionSpan {
		return 1
	}
	return float64(p.AttentionSpan) / float64(a.EstimatedMin)
}

// recencyPenalty finds the most recent attempt of the same activity id or
// the exact same skill set and decays linearly over RecencyWindow. Zero
// when never attempted, or last attempted outside the window.
func recencyPenalty(a *catalog.Activity, history []Attempt, at time.Time) float64 {
	skillKey := a.SkillKey()
	var last time.Time
	for _, att := range history {
		if att.ActivityID != a.ID && att.SkillKey != skillKey {
			continue
		}
		if att.Timestamp.After(last) {
			last = att.Timestamp
		}
	}
	if last.IsZero() {
		return 0
	}

	age := at.Sub(last)
	if age < 0 {
		age = 0
	}
	if age >= RecencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(RecencyWindow)
}

func meanSkill(a *catalog.Activity, p *profile.Profile) float64 {
	sum := 0.0
	for _, skill := range a.Skills {
		sum += p.Skill(skill)
	}
	return sum / float64(len(a.Skills))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
