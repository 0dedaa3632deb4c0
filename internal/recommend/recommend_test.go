package recommend

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/scoring"
)

var recTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func child() *profile.Profile {
	return &profile.Profile{
		ID:            "child-1",
		Name:          "Test Child",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Interests:     []string{"math"},
		Skills:        map[string]float64{},
	}
}

// activity builds a valid math activity; interests and styles align with
// the test child so score differences come from the knobs each test turns.
func activity(id string, typ catalog.Type, minutes int) catalog.Activity {
	return catalog.Activity{
		ID:           id,
		Type:         typ,
		Title:        "Activity " + id,
		Level:        catalog.LevelEasy,
		Skills:       []string{"skill-" + id},
		EstimatedMin: minutes,
		Styles:       []catalog.Style{catalog.StyleVisual},
		Prompt:       "Do the thing.",
		Rubric:       catalog.Rubric{Matcher: catalog.MatchExact, Answers: []string{"yes"}},
	}
}

func TestRecommendRanksByScore(t *testing.T) {
	// act-b exceeds the attention span, dragging its time fit down.
	activities := []catalog.Activity{
		activity("act-b", catalog.TypeMath, 60),
		activity("act-a", catalog.TypeMath, 10),
	}

	recs, err := Recommend(activities, child(), nil, 2, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Activity.ID != "act-a" {
		t.Errorf("top pick = %s, want act-a", recs[0].Activity.ID)
	}
	if recs[0].Breakdown.Total < recs[1].Breakdown.Total {
		t.Errorf("ranking not descending: %v < %v", recs[0].Breakdown.Total, recs[1].Breakdown.Total)
	}
}

func TestRecommendBreaksTiesById(t *testing.T) {
	activities := []catalog.Activity{
		activity("act-c", catalog.TypeMath, 10),
		activity("act-a", catalog.TypeMath, 10),
		activity("act-b", catalog.TypeMath, 10),
	}

	recs, err := Recommend(activities, child(), nil, 3, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i, want := range []string{"act-a", "act-b", "act-c"} {
		if recs[i].Activity.ID != want {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].Activity.ID, want)
		}
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	activities := []catalog.Activity{
		activity("act-a", catalog.TypeMath, 10),
		activity("act-b", catalog.TypeLogic, 15),
		activity("act-c", catalog.TypeReading, 25),
	}

	first, err := Recommend(activities, child(), nil, 3, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Recommend(activities, child(), nil, 3, recTime)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		for j := range first {
			if again[j].Activity.ID != first[j].Activity.ID {
				t.Fatalf("run %d position %d = %s, want %s", i, j, again[j].Activity.ID, first[j].Activity.ID)
			}
		}
	}
}

func TestRecommendTruncates(t *testing.T) {
	activities := []catalog.Activity{
		activity("act-a", catalog.TypeMath, 10),
		activity("act-b", catalog.TypeMath, 10),
		activity("act-c", catalog.TypeMath, 10),
	}
	recs, err := Recommend(activities, child(), nil, 2, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d recommendations, want 2", len(recs))
	}

	recs, err = Recommend(activities, child(), nil, 10, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("n beyond catalog: got %d, want 3", len(recs))
	}
}

func TestRecommendEmptyInputs(t *testing.T) {
	recs, err := Recommend(nil, child(), nil, 3, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("empty catalog: got %d, want 0", len(recs))
	}

	recs, err = Recommend([]catalog.Activity{activity("act-a", catalog.TypeMath, 10)}, child(), nil, 0, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("n=0: got %d, want 0", len(recs))
	}
}

func TestRecommendSkipsInvalidActivity(t *testing.T) {
	bad := activity("act-bad", catalog.TypeMath, 10)
	bad.Skills = nil
	activities := []catalog.Activity{bad, activity("act-good", catalog.TypeMath, 10)}

	recs, err := Recommend(activities, child(), nil, 2, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 1 || recs[0].Activity.ID != "act-good" {
		t.Errorf("recs = %v, want only act-good", ids(recs))
	}
}

func TestRecommendRejectsInvalidProfile(t *testing.T) {
	p := child()
	p.ID = ""
	_, err := Recommend([]catalog.Activity{activity("act-a", catalog.TypeMath, 10)}, p, nil, 1, recTime)
	if !errors.Is(err, profile.ErrInvalidProfile) {
		t.Fatalf("error = %v, want wrapped profile.ErrInvalidProfile", err)
	}
}

func TestDiversifySwapsNearEqualOtherType(t *testing.T) {
	// Three math picks crowd out a near-equal logic activity; the logic
	// one is slightly slower so it ranks just below the selection.
	p := child()
	p.Interests = []string{"math", "logic"}
	activities := []catalog.Activity{
		activity("act-m1", catalog.TypeMath, 10),
		activity("act-m2", catalog.TypeMath, 10),
		activity("act-m3", catalog.TypeMath, 10),
		activity("act-l1", catalog.TypeLogic, 21),
	}

	recs, err := Recommend(activities, p, nil, 3, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	types := make(map[catalog.Type]bool)
	for _, r := range recs {
		types[r.Activity.Type] = true
	}
	if len(types) < 2 {
		t.Errorf("selection stayed single-type: %v", ids(recs))
	}
}

func TestDiversifyKeepsClearlyBetterPicks(t *testing.T) {
	// The other-type candidate scores far below the tolerance; the
	// selection should stay all-math.
	activities := []catalog.Activity{
		activity("act-m1", catalog.TypeMath, 10),
		activity("act-m2", catalog.TypeMath, 10),
		activity("act-m3", catalog.TypeMath, 10),
		activity("act-r1", catalog.TypeReading, 200),
	}

	recs, err := Recommend(activities, child(), nil, 3, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range recs {
		if r.Activity.Type != catalog.TypeMath {
			t.Errorf("unexpected swap to %s (%s)", r.Activity.ID, r.Activity.Type)
		}
	}
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Activity.ID
	}
	return out
}

// history integration: a just-attempted activity drops below an
// otherwise identical fresh one.
func TestRecommendAppliesRecency(t *testing.T) {
	activities := []catalog.Activity{
		activity("act-a", catalog.TypeMath, 10),
		activity("act-b", catalog.TypeMath, 10),
	}
	history := []scoring.Attempt{{ActivityID: "act-a", Timestamp: recTime.Add(-time.Hour)}}

	recs, err := Recommend(activities, child(), history, 2, recTime)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if recs[0].Activity.ID != "act-b" {
		t.Errorf("top pick = %s, want the fresh act-b", recs[0].Activity.ID)
	}
}
