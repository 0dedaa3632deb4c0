package progress

import (
	"math"
	"testing"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/store"
)

func base() *profile.Profile {
	return &profile.Profile{
		ID:            "child-1",
		Name:          "Test Child",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Skills:        map[string]float64{"addition": 0.5},
	}
}

func TestApplyMovesTowardScore(t *testing.T) {
	tests := []struct {
		name  string
		from  float64
		score float64
		want  float64
	}{
		{"success pulls up", 0.5, 1.0, 0.65},
		{"failure pulls down", 0.5, 0.0, 0.35},
		{"partial credit", 0.5, 0.6, 0.53},
		{"already at target", 1.0, 1.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			p.Skills["addition"] = tt.from
			tr := NewTracker(p, DefaultLearningRate)

			deltas := tr.Apply([]string{"addition"}, tt.score)
			if len(deltas) != 1 {
				t.Fatalf("got %d deltas, want 1", len(deltas))
			}
			if math.Abs(deltas[0].To-tt.want) > 1e-9 {
				t.Errorf("To = %v, want %v", deltas[0].To, tt.want)
			}
			if deltas[0].From != tt.from {
				t.Errorf("From = %v, want %v", deltas[0].From, tt.from)
			}
			if got := tr.Profile().Skill("addition"); got != deltas[0].To {
				t.Errorf("profile skill %v disagrees with delta %v", got, deltas[0].To)
			}
		})
	}
}

func TestApplyStaysBounded(t *testing.T) {
	p := base()
	tr := NewTracker(p, 1.0)
	// Full rate straight to the extremes; must clamp, not overshoot.
	tr.Apply([]string{"addition"}, 1.0)
	if got := tr.Profile().Skill("addition"); got != 1.0 {
		t.Errorf("after max success: %v, want 1.0", got)
	}
	tr.Apply([]string{"addition"}, 0.0)
	if got := tr.Profile().Skill("addition"); got != 0.0 {
		t.Errorf("after max failure: %v, want 0.0", got)
	}
}

func TestApplyUnknownSkillStartsNeutral(t *testing.T) {
	tr := NewTracker(base(), DefaultLearningRate)
	deltas := tr.Apply([]string{"subtraction"}, 1.0)
	if deltas[0].From != profile.DefaultProficiency {
		t.Errorf("From = %v, want the neutral default %v", deltas[0].From, profile.DefaultProficiency)
	}
}

func TestTrackerDoesNotMutateSource(t *testing.T) {
	p := base()
	tr := NewTracker(p, DefaultLearningRate)
	tr.Apply([]string{"addition"}, 1.0)
	if p.Skills["addition"] != 0.5 {
		t.Errorf("source profile mutated: %v", p.Skills["addition"])
	}
}

// The core recovery contract: folding the attempt log over the base
// profile reproduces the live result exactly.
func TestRebuildMatchesLiveUpdates(t *testing.T) {
	live := NewTracker(base(), DefaultLearningRate)

	var attempts []store.Attempt
	steps := []struct {
		skills []string
		score  float64
	}{
		{[]string{"addition"}, 1.0},
		{[]string{"addition", "subtraction"}, 0.6},
		{[]string{"subtraction"}, 0.0},
		{[]string{"addition"}, 0.8},
	}
	for _, st := range steps {
		deltas := live.Apply(st.skills, st.score)
		attempts = append(attempts, store.Attempt{Score: st.score, SkillDeltas: deltas})
	}

	rebuilt := Rebuild(base(), attempts)

	if d := Diff(live.Profile(), rebuilt); len(d) != 0 {
		t.Fatalf("replay diverged on skills %v", d)
	}
	// Bit-exact, not merely close.
	for skill, want := range live.Profile().Skills {
		if got := rebuilt.Skills[skill]; got != want {
			t.Errorf("skill %s = %v, want exactly %v", skill, got, want)
		}
	}
}

// A log written under one learning rate must replay exactly even after
// the configured rate changes: the fold uses the recorded endpoints,
// not a re-run of the update rule.
func TestRebuildIndependentOfLearningRate(t *testing.T) {
	live := NewTracker(base(), 0.5)

	var attempts []store.Attempt
	for _, score := range []float64{1.0, 0.6, 0.0} {
		deltas := live.Apply([]string{"addition"}, score)
		attempts = append(attempts, store.Attempt{Score: score, SkillDeltas: deltas})
	}

	rebuilt := Rebuild(base(), attempts)
	if d := Diff(live.Profile(), rebuilt); len(d) != 0 {
		t.Fatalf("replay diverged on skills %v", d)
	}
	if got, want := rebuilt.Skill("addition"), live.Profile().Skill("addition"); got != want {
		t.Errorf("addition = %v, want exactly %v", got, want)
	}
}

func TestRebuildIgnoresSkippedAttempts(t *testing.T) {
	attempts := []store.Attempt{
		{Score: 0, SkillDeltas: nil}, // skipped
	}
	rebuilt := Rebuild(base(), attempts)
	if rebuilt.Skills["addition"] != 0.5 {
		t.Errorf("skipped attempt changed skill to %v", rebuilt.Skills["addition"])
	}
}

func TestDiff(t *testing.T) {
	a := base()
	b := base()
	if d := Diff(a, b); len(d) != 0 {
		t.Errorf("identical profiles diff = %v, want empty", d)
	}

	b.Skills["addition"] = 0.7
	b.Skills["logic"] = 0.4
	a.Skills["zebra"] = 0.1

	d := Diff(a, b)
	want := []string{"addition", "logic", "zebra"}
	if len(d) != len(want) {
		t.Fatalf("diff = %v, want %v", d, want)
	}
	for i := range want {
		if d[i] != want[i] {
			t.Errorf("diff[%d] = %s, want %s (sorted)", i, d[i], want[i])
		}
	}
}
