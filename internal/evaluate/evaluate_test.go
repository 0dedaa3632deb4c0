package evaluate

import (
	"math"
	"testing"

	"github.com/abhisek/buddy/internal/catalog"
)

func exactActivity(answers ...string) *catalog.Activity {
	return &catalog.Activity{
		ID:           "act-exact",
		Type:         catalog.TypeSpelling,
		Title:        "Spell it",
		Level:        catalog.LevelEasy,
		Skills:       []string{"spelling"},
		EstimatedMin: 5,
		Prompt:       "Spell the word.",
		Rubric:       catalog.Rubric{Matcher: catalog.MatchExact, Answers: answers},
	}
}

func numericActivity(tolerance float64, answers ...string) *catalog.Activity {
	a := exactActivity(answers...)
	a.ID = "act-numeric"
	a.Rubric.Matcher = catalog.MatchNumeric
	a.Rubric.Tolerance = tolerance
	return a
}

func keywordActivity(minSentences int, keywords ...string) *catalog.Activity {
	a := exactActivity()
	a.ID = "act-keyword"
	a.Rubric = catalog.Rubric{
		Matcher:      catalog.MatchKeyword,
		Keywords:     keywords,
		MinSentences: minSentences,
	}
	return a
}

func TestEvaluateExact(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		answer  string
		correct bool
	}{
		{"exact match", []string{"cat"}, "cat", true},
		{"case insensitive", []string{"Cat"}, "cAT", true},
		{"surrounding space", []string{"cat"}, "  cat  ", true},
		{"any accepted answer", []string{"cat", "kitten"}, "kitten", true},
		{"wrong", []string{"cat"}, "dog", false},
		{"empty", []string{"cat"}, "", false},
		{"whitespace only", []string{"cat"}, "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(exactActivity(tt.answers...), tt.answer)
			if res.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", res.Correct, tt.correct)
			}
			wantScore := 0.0
			if tt.correct {
				wantScore = 1.0
			}
			if res.Score != wantScore {
				t.Errorf("Score = %v, want %v", res.Score, wantScore)
			}
			if res.Reason == "" {
				t.Error("Reason is empty")
			}
		})
	}
}

func TestEvaluateNumeric(t *testing.T) {
	tests := []struct {
		name      string
		tolerance float64
		answers   []string
		answer    string
		correct   bool
	}{
		{"exact value", 0, []string{"12"}, "12", true},
		{"within tolerance", 0.5, []string{"12"}, "12.4", true},
		{"at tolerance edge", 0.5, []string{"12"}, "12.5", true},
		{"outside tolerance", 0.5, []string{"12"}, "13", false},
		{"float formats agree", 0, []string{"12.0"}, "12", true},
		{"not a number", 0, []string{"12"}, "twelve", false},
		{"empty", 0, []string{"12"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(numericActivity(tt.tolerance, tt.answers...), tt.answer)
			if res.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v (reason: %s)", res.Correct, tt.correct, res.Reason)
			}
		})
	}
}

func TestEvaluateKeyword(t *testing.T) {
	tests := []struct {
		name   string
		minLen int
		kws    []string
		answer string
		score  float64
	}{
		{
			"long answer all keywords",
			2, []string{"dragon", "castle"},
			"The dragon flew. It landed on the castle.",
			0.8,
		},
		{
			"long answer no keywords",
			2, []string{"dragon", "castle"},
			"Something happened. Then it ended.",
			0.6,
		},
		{
			"short answer with keyword",
			3, []string{"dragon"},
			"A dragon.",
			0.4,
		},
		{
			"short answer no keywords",
			3, []string{"dragon"},
			"Nope.",
			0.3,
		},
		{
			"bonus capped at four keywords",
			1, []string{"a1", "b2", "c3", "d4", "e5", "f6"},
			"a1 b2 c3 d4 e5 f6.",
			1.0,
		},
		{
			"keyword match is case insensitive",
			1, []string{"Dragon"},
			"the DRAGON roared.",
			0.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(keywordActivity(tt.minLen, tt.kws...), tt.answer)
			if math.Abs(res.Score-tt.score) > 1e-9 {
				t.Errorf("Score = %v, want %v (reason: %s)", res.Score, tt.score, res.Reason)
			}
		})
	}
}

func TestEvaluateKeywordEmptyAnswer(t *testing.T) {
	res := Evaluate(keywordActivity(1, "dragon"), "   ")
	if res.Score != 0 || res.Correct {
		t.Errorf("blank answer: Score/Correct = %v/%v, want 0/false", res.Score, res.Correct)
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"One. Two. Three.", 3},
		{"One! Two?", 2},
		{"No terminator", 1},
		{"Trailing fragment. And more", 2},
		{"...", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := countSentences(tt.text); got != tt.want {
			t.Errorf("countSentences(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		kind catalog.MatcherKind
		res  Result
		want Outcome
	}{
		{"exact correct", catalog.MatchExact, Result{Score: 1, Correct: true}, OutcomeSuccess},
		{"exact wrong", catalog.MatchExact, Result{}, OutcomeStruggle},
		{"keyword high", catalog.MatchKeyword, Result{Score: 0.9}, OutcomeSuccess},
		{"keyword at success threshold", catalog.MatchKeyword, Result{Score: 0.8}, OutcomeSuccess},
		{"keyword partial", catalog.MatchKeyword, Result{Score: 0.6}, OutcomePartial},
		{"keyword at partial threshold", catalog.MatchKeyword, Result{Score: 0.5}, OutcomePartial},
		{"keyword low", catalog.MatchKeyword, Result{Score: 0.3}, OutcomeStruggle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.kind, tt.res); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
