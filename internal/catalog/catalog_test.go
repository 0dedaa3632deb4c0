package catalog

import (
	"errors"
	"strings"
	"testing"
)

func validActivity() Activity {
	return Activity{
		ID:           "act-1",
		Type:         TypeMath,
		Title:        "Quick sums",
		Level:        LevelEasy,
		Skills:       []string{"addition"},
		EstimatedMin: 5,
		Styles:       []Style{StyleVisual},
		Prompt:       "What is 2+2?",
		Rubric:       Rubric{Matcher: MatchExact, Answers: []string{"4"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Activity)
		msg    string
	}{
		{"missing id", func(a *Activity) { a.ID = "" }, "missing id"},
		{"missing title", func(a *Activity) { a.Title = "" }, "missing title"},
		{"unknown type", func(a *Activity) { a.Type = "sports" }, "unknown type"},
		{"unknown level", func(a *Activity) { a.Level = "extreme" }, "unknown level"},
		{"no skills", func(a *Activity) { a.Skills = nil }, "target skill"},
		{"zero duration", func(a *Activity) { a.EstimatedMin = 0 }, "estimated_min"},
		{"unknown matcher", func(a *Activity) { a.Rubric.Matcher = "regex" }, "unknown matcher"},
		{"exact without answers", func(a *Activity) { a.Rubric.Answers = nil }, "requires answers"},
		{"negative tolerance", func(a *Activity) { a.Rubric.Tolerance = -1 }, "tolerance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validActivity()
			tt.mutate(&a)
			err := a.Validate()
			if !errors.Is(err, ErrInvalidActivity) {
				t.Fatalf("error = %v, want wrapped ErrInvalidActivity", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}

	a := validActivity()
	if err := a.Validate(); err != nil {
		t.Errorf("valid activity rejected: %v", err)
	}

	// Keyword matcher needs no fixed answers.
	kw := validActivity()
	kw.Rubric = Rubric{Matcher: MatchKeyword, Keywords: []string{"sum"}}
	if err := kw.Validate(); err != nil {
		t.Errorf("keyword activity rejected: %v", err)
	}
}

func TestSkillKey(t *testing.T) {
	a := validActivity()
	a.Skills = []string{"Vocabulary", " reading_comprehension "}
	b := validActivity()
	b.Skills = []string{"reading_comprehension", "vocabulary"}

	if a.SkillKey() != b.SkillKey() {
		t.Errorf("SkillKey order/case sensitive: %q vs %q", a.SkillKey(), b.SkillKey())
	}
	if got := b.SkillKey(); got != "reading_comprehension|vocabulary" {
		t.Errorf("SkillKey = %q", got)
	}
}

func TestSupportsStyle(t *testing.T) {
	a := validActivity()
	if !a.SupportsStyle(StyleVisual) {
		t.Error("SupportsStyle(visual) = false")
	}
	if a.SupportsStyle(StyleLogical) {
		t.Error("SupportsStyle(logical) = true")
	}
}

func TestSamples(t *testing.T) {
	activities, err := Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(activities) == 0 {
		t.Fatal("embedded catalog is empty")
	}
	idx := Index(activities)
	if len(idx) != len(activities) {
		t.Errorf("duplicate ids: %d unique of %d", len(idx), len(activities))
	}
	if _, ok := idx["act-story-comprehension"]; !ok {
		t.Error("embedded catalog missing act-story-comprehension")
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"not an": "array"`},
		{"wrong shape", `{"id": "act-1"}`},
		{"missing required field", `[{"id": "act-1"}]`},
		{"bad level enum", `[{"id":"a","type":"math","title":"T","level":"impossible","skills":["s"],"estimated_min":5,"styles":["visual"],"prompt":"p","rubric":{"matcher":"exact","answers":["1"]}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}
