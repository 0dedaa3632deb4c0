package evaluate

import "github.com/abhisek/buddy/internal/catalog"

// Outcome classifies an attempt for history records and reporting.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeStruggle Outcome = "struggle"
	OutcomeSkipped  Outcome = "skipped"
)

// Graded matchers classify on score bands; pass/fail matchers only ever
// produce success or struggle.
const (
	successThreshold = 0.8
	partialThreshold = 0.5
)

// Classify maps a result to an outcome for the given matcher kind.
func Classify(kind catalog.MatcherKind, r Result) Outcome {
	if kind == catalog.MatchKeyword {
		switch {
		case r.Score >= successThreshold:
			return OutcomeSuccess
		case r.Score >= partialThreshold:
			return OutcomePartial
		default:
			return OutcomeStruggle
		}
	}
	if r.Correct {
		return OutcomeSuccess
	}
	return OutcomeStruggle
}
