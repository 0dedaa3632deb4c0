package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
)

// Simulated produces pseudo-random answers whose quality tracks the
// child's proficiency on the activity's skills. The generator is seeded
// from the child and activity ids, so a simulated session is fully
// repeatable.
type Simulated struct {
	child *profile.Profile
}

// NewSimulated creates a simulated supplier for the child.
func NewSimulated(child *profile.Profile) *Simulated {
	return &Simulated{child: child}
}

// Success odds by skill band: practiced children mostly answer
// correctly, others mostly struggle.
const (
	simHighSkill  = 0.7
	simHighChance = 0.8
	simLowChance  = 0.4
)

func (s *Simulated) Answer(ctx context.Context, a *catalog.Activity) (string, error) {
	rng := rand.New(rand.NewSource(simSeed(s.child.ID, a.ID)))

	mean := 0.0
	for _, skill := range a.Skills {
		mean += s.child.Skill(skill)
	}
	mean /= float64(len(a.Skills))

	chance := simLowChance
	if mean > simHighSkill {
		chance = simHighChance
	}
	correct := rng.Float64() < chance

	if a.Rubric.Matcher == catalog.MatchKeyword {
		return s.freeformAnswer(rng, a, mean, correct), nil
	}
	return s.directAnswer(a, correct), nil
}

func (s *Simulated) directAnswer(a *catalog.Activity, correct bool) string {
	if correct && len(a.Rubric.Answers) > 0 {
		return a.Rubric.Answers[0]
	}
	if a.Rubric.Matcher == catalog.MatchNumeric {
		return "-9999"
	}
	return "wrong answer"
}

// freeformAnswer writes sentence count from attention span plus a skill
// bonus, and mentions keywords only on a good attempt, mirroring how a
// stronger writer naturally hits more of the rubric.
func (s *Simulated) freeformAnswer(rng *rand.Rand, a *catalog.Activity, mean float64, correct bool) string {
	base := s.child.AttentionSpan / 10
	if base < 2 {
		base = 2
	}
	total := base + int(mean*3)

	if correct && total < a.Rubric.MinSentences {
		total = a.Rubric.MinSentences
	}
	if !correct {
		// A struggling attempt falls short of the length gate.
		total = 1
	}

	var b strings.Builder
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&b, "This is sentence %d of my answer. ", i)
	}
	if correct {
		for _, kw := range a.Rubric.Keywords {
			fmt.Fprintf(&b, "I am thinking about %s. ", kw)
		}
	} else if len(a.Rubric.Keywords) > 0 && rng.Float64() < 0.3 {
		fmt.Fprintf(&b, "I am thinking about %s. ", a.Rubric.Keywords[0])
	}
	return strings.TrimSpace(b.String())
}

func simSeed(childID, activityID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(childID))
	h.Write([]byte("/"))
	h.Write([]byte(activityID))
	return int64(h.Sum64())
}
