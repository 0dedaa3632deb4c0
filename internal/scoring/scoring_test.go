package scoring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
)

var scoreTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func storyActivity() *catalog.Activity {
	return &catalog.Activity{
		ID:           "act-story-comprehension",
		Type:         catalog.TypeReading,
		Title:        "Story questions",
		Level:        catalog.LevelMedium,
		Skills:       []string{"reading_comprehension", "vocabulary"},
		Tags:         []string{"stories"},
		EstimatedMin: 20,
		Styles:       []catalog.Style{catalog.StyleVisual, catalog.StyleAuditory},
		Prompt:       "Read the story and answer.",
		Rubric:       catalog.Rubric{Matcher: catalog.MatchKeyword, Keywords: []string{"character"}},
	}
}

func mia() *profile.Profile {
	return &profile.Profile{
		ID:            "child-mia",
		Name:          "Mia",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Interests:     []string{"reading", "art", "science"},
		Skills: map[string]float64{
			"reading_comprehension": 0.5,
			"vocabulary":            0.5,
			"addition":              0.7,
			"pattern_recognition":   0.6,
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// The worked reference case: a reading activity for a child who likes
// reading, matches its style, fits its time box, and sits one level
// below it, never attempted before.
func TestScoreReferenceScenario(t *testing.T) {
	b, err := Score(storyActivity(), mia(), nil, scoreTime)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if !almostEqual(b.SkillFit, 0.5) {
		t.Errorf("SkillFit = %v, want 0.5", b.SkillFit)
	}
	if b.InterestFit != 1.0 {
		t.Errorf("InterestFit = %v, want 1.0", b.InterestFit)
	}
	if b.StyleFit != 1.0 {
		t.Errorf("StyleFit = %v, want 1.0", b.StyleFit)
	}
	if b.LevelFit != 0.7 {
		t.Errorf("LevelFit = %v, want 0.7", b.LevelFit)
	}
	if b.TimeFit != 1.0 {
		t.Errorf("TimeFit = %v, want 1.0", b.TimeFit)
	}
	if b.RecencyPenalty != 0 {
		t.Errorf("RecencyPenalty = %v, want 0", b.RecencyPenalty)
	}
	if !almostEqual(b.Total, 0.73) {
		t.Errorf("Total = %v, want 0.73", b.Total)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightSkill + WeightInterest + WeightStyle + WeightLevel + WeightTime + WeightRecency
	if !almostEqual(sum, 1.0) {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestInterestFit(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		want      float64
	}{
		{"type match", []string{"reading"}, 1.0},
		{"tag match", []string{"stories"}, 1.0},
		{"fuzzy tag match", []string{"story"}, 1.0},
		{"case insensitive", []string{"READING"}, 1.0},
		{"no overlap", []string{"dinosaurs"}, 0.0},
		{"no interests", nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mia()
			p.Interests = tt.interests
			b, err := Score(storyActivity(), p, nil, scoreTime)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if b.InterestFit != tt.want {
				t.Errorf("InterestFit = %v, want %v", b.InterestFit, tt.want)
			}
		})
	}
}

func TestStyleFitFloor(t *testing.T) {
	p := mia()
	p.LearningStyle = catalog.StyleKinesthetic
	b, err := Score(storyActivity(), p, nil, scoreTime)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if b.StyleFit != 0.5 {
		t.Errorf("StyleFit = %v, want floor 0.5", b.StyleFit)
	}
}

func TestLevelFit(t *testing.T) {
	tests := []struct {
		name  string
		skill float64
		level catalog.Level
		want  float64
	}{
		{"matched band", 0.7, catalog.LevelMedium, 1.0},
		{"one band away", 0.5, catalog.LevelMedium, 0.7},
		{"two bands away", 0.9, catalog.LevelEasy, 0.4},
		{"hard for strong child", 0.9, catalog.LevelHard, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := storyActivity()
			a.Level = tt.level
			p := mia()
			p.Skills["reading_comprehension"] = tt.skill
			p.Skills["vocabulary"] = tt.skill
			b, err := Score(a, p, nil, scoreTime)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if b.LevelFit != tt.want {
				t.Errorf("LevelFit = %v, want %v", b.LevelFit, tt.want)
			}
		})
	}
}

func TestUnknownSkillsUseNeutralDefault(t *testing.T) {
	p := mia()
	delete(p.Skills, "reading_comprehension")
	delete(p.Skills, "vocabulary")
	b, err := Score(storyActivity(), p, nil, scoreTime)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !almostEqual(b.SkillFit, 0.5) {
		t.Errorf("SkillFit = %v, want neutral 0.5", b.SkillFit)
	}
}

func TestTimeFit(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		span     int
		want     float64
	}{
		{"fits exactly", 20, 20, 1.0},
		{"fits easily", 5, 20, 1.0},
		{"double the span", 40, 20, 0.5},
		{"grossly oversized", 200, 10, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := storyActivity()
			a.EstimatedMin = tt.duration
			p := mia()
			p.AttentionSpan = tt.span
			b, err := Score(a, p, nil, scoreTime)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if !almostEqual(b.TimeFit, tt.want) {
				t.Errorf("TimeFit = %v, want %v", b.TimeFit, tt.want)
			}
		})
	}
}

func TestRecencyPenaltyDecay(t *testing.T) {
	a := storyActivity()
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"just attempted", 0, 1.0},
		{"half the window", 24 * time.Hour, 0.5},
		{"window edge", 48 * time.Hour, 0.0},
		{"well past", 72 * time.Hour, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []Attempt{{ActivityID: a.ID, Timestamp: scoreTime.Add(-tt.age)}}
			b, err := Score(a, mia(), history, scoreTime)
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if !almostEqual(b.RecencyPenalty, tt.want) {
				t.Errorf("RecencyPenalty = %v, want %v", b.RecencyPenalty, tt.want)
			}
		})
	}
}

func TestRecencyPenaltyIsMonotonic(t *testing.T) {
	a := storyActivity()
	prev := math.Inf(1)
	for age := time.Duration(0); age <= 50*time.Hour; age += time.Hour {
		history := []Attempt{{ActivityID: a.ID, Timestamp: scoreTime.Add(-age)}}
		b, err := Score(a, mia(), history, scoreTime)
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if b.RecencyPenalty > prev {
			t.Fatalf("penalty rose from %v to %v at age %v", prev, b.RecencyPenalty, age)
		}
		prev = b.RecencyPenalty
	}
}

func TestRecencyMatchesSkillKey(t *testing.T) {
	a := storyActivity()
	// Different activity id, identical skill set.
	history := []Attempt{{
		ActivityID: "act-other",
		SkillKey:   "reading_comprehension|vocabulary",
		Timestamp:  scoreTime.Add(-1 * time.Hour),
	}}
	b, err := Score(a, mia(), history, scoreTime)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if b.RecencyPenalty == 0 {
		t.Error("RecencyPenalty = 0, want a penalty for a same-skill-set repeat")
	}
}

func TestScoreRejectsInvalidInputs(t *testing.T) {
	badActivity := storyActivity()
	badActivity.Skills = nil
	if _, err := Score(badActivity, mia(), nil, scoreTime); !errors.Is(err, catalog.ErrInvalidActivity) {
		t.Errorf("invalid activity: error = %v, want ErrInvalidActivity", err)
	}

	badChild := mia()
	badChild.AttentionSpan = 0
	if _, err := Score(storyActivity(), badChild, nil, scoreTime); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Errorf("invalid profile: error = %v, want ErrInvalidProfile", err)
	}
}

func TestTotalStaysInRange(t *testing.T) {
	// Worst case on every component with a fresh repeat: the raw total
	// would dip below zero without clamping.
	a := storyActivity()
	a.EstimatedMin = 300
	a.Level = catalog.LevelHard
	p := mia()
	p.LearningStyle = catalog.StyleKinesthetic
	p.Interests = nil
	p.AttentionSpan = 5
	p.Skills["reading_comprehension"] = 0
	p.Skills["vocabulary"] = 0

	history := []Attempt{{ActivityID: a.ID, Timestamp: scoreTime}}
	b, err := Score(a, p, history, scoreTime)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if b.Total < 0 || b.Total > 1 {
		t.Errorf("Total = %v, want within [0,1]", b.Total)
	}
}
