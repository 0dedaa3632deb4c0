// Package evaluate judges raw answers against an activity's rubric.
//
// Judging is deterministic and total: a malformed or empty answer is
// evaluated as incorrect rather than returning an error, so a session
// can always progress.
package evaluate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/buddy/internal/catalog"
)

// Result is the judgment for a single answer.
type Result struct {
	// Score is the partial-credit score in [0,1]. Exact and numeric
	// matchers produce 0 or 1; the keyword matcher grades in between.
	Score float64

	// Correct reports full credit.
	Correct bool

	// Reason is a short human-readable explanation for feedback and
	// history records.
	Reason string
}

// Evaluate applies the activity's declared matcher to the answer.
func Evaluate(a *catalog.Activity, answer string) Result {
	switch a.Rubric.Matcher {
	case catalog.MatchNumeric:
		return evalNumeric(a, answer)
	case catalog.MatchKeyword:
		return evalKeyword(a, answer)
	default:
		return evalExact(a, answer)
	}
}

// normalize lowercases and trims an answer for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func evalExact(a *catalog.Activity, answer string) Result {
	got := normalize(answer)
	if got == "" {
		return Result{Reason: "no answer given"}
	}
	for _, want := range a.Rubric.Answers {
		if got == normalize(want) {
			return Result{Score: 1, Correct: true, Reason: fmt.Sprintf("matched %q", want)}
		}
	}
	return Result{Reason: "did not match any accepted answer"}
}

func evalNumeric(a *catalog.Activity, answer string) Result {
	got, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return Result{Reason: "not a number"}
	}
	for _, want := range a.Rubric.Answers {
		target, err := strconv.ParseFloat(strings.TrimSpace(want), 64)
		if err != nil {
			continue
		}
		if math.Abs(got-target) <= a.Rubric.Tolerance {
			return Result{Score: 1, Correct: true, Reason: fmt.Sprintf("%v within tolerance of %v", got, target)}
		}
	}
	return Result{Reason: "outside tolerance of all accepted answers"}
}

// Keyword grading: a minimum-length gate sets the base score, each
// keyword hit adds 0.1 up to +0.4, and the result is clamped to 1.
const (
	keywordBaseMet    = 0.6
	keywordBaseShort  = 0.3
	keywordBonus      = 0.1
	keywordBonusCap   = 0.4
	defaultMinClauses = 1
)

func evalKeyword(a *catalog.Activity, answer string) Result {
	text := strings.TrimSpace(answer)
	if text == "" {
		return Result{Reason: "no answer given"}
	}

	minSentences := a.Rubric.MinSentences
	if minSentences <= 0 {
		minSentences = defaultMinClauses
	}

	sentences := countSentences(text)
	meetsLength := sentences >= minSentences

	base := keywordBaseShort
	if meetsLength {
		base = keywordBaseMet
	}

	normalized := normalize(text)
	hits := 0
	for _, kw := range a.Rubric.Keywords {
		if strings.Contains(normalized, normalize(kw)) {
			hits++
		}
	}

	bonus := math.Min(float64(hits)*keywordBonus, keywordBonusCap)
	score := math.Min(base+bonus, 1)

	reason := fmt.Sprintf("%d sentences (need %d), %d/%d keywords", sentences, minSentences, hits, len(a.Rubric.Keywords))
	return Result{Score: score, Correct: score >= 1, Reason: reason}
}

// countSentences counts non-empty segments terminated by ., ! or ?.
// A trailing unterminated segment still counts.
func countSentences(text string) int {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	n := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
