package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidActivity tags data-validation failures on catalog entries.
// Callers decide whether to skip the record or abort.
var ErrInvalidActivity = errors.New("invalid activity")

// Type classifies an activity by subject area.
type Type string

const (
	TypeMath         Type = "math"
	TypeReading      Type = "reading"
	TypeVocab        Type = "vocab"
	TypeSpelling     Type = "spelling"
	TypeLogic        Type = "logic"
	TypeCreativity   Type = "creativity"
	TypeStorytelling Type = "storytelling"
)

// Level is an activity's difficulty band.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Index returns the ordinal position of the level (easy=0, medium=1, hard=2).
func (l Level) Index() int {
	switch l {
	case LevelEasy:
		return 0
	case LevelMedium:
		return 1
	case LevelHard:
		return 2
	}
	return -1
}

// Style is a learning style an activity supports.
type Style string

const (
	StyleVisual      Style = "visual"
	StyleAuditory    Style = "auditory"
	StyleKinesthetic Style = "kinesthetic"
	StyleLogical     Style = "logical"
)

// MatcherKind selects the answer-matching strategy for an activity.
// The set is closed: the session engine dispatches on it rather than
// inspecting answer content.
type MatcherKind string

const (
	MatchExact   MatcherKind = "exact"
	MatchNumeric MatcherKind = "numeric"
	MatchKeyword MatcherKind = "keyword"
)

// Rubric declares how an activity's answers are judged.
type Rubric struct {
	Matcher MatcherKind `json:"matcher"`

	// Answers are the acceptable answers for exact and numeric matchers.
	Answers []string `json:"answers,omitempty"`

	// Tolerance is the absolute numeric tolerance for the numeric matcher.
	Tolerance float64 `json:"tolerance,omitempty"`

	// Keywords score partial credit for the keyword matcher.
	Keywords []string `json:"keywords,omitempty"`

	// MinSentences is the length gate for the keyword matcher.
	MinSentences int `json:"min_sentences,omitempty"`
}

// Activity is an immutable catalog entry. Loaded at startup, never mutated.
type Activity struct {
	ID           string   `json:"id"`
	Type         Type     `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Level        Level    `json:"level"`
	Skills       []string `json:"skills"`
	Tags         []string `json:"tags,omitempty"`
	EstimatedMin int      `json:"estimated_min"`
	Styles       []Style  `json:"styles"`
	Prompt       string   `json:"prompt"`
	Rubric       Rubric   `json:"rubric"`
}

var validTypes = map[Type]bool{
	TypeMath: true, TypeReading: true, TypeVocab: true, TypeSpelling: true,
	TypeLogic: true, TypeCreativity: true, TypeStorytelling: true,
}

var validMatchers = map[MatcherKind]bool{
	MatchExact: true, MatchNumeric: true, MatchKeyword: true,
}

// Validate checks that every field the scorer and engine depend on is
// present and well-formed. All failures wrap ErrInvalidActivity.
func (a *Activity) Validate() error {
	switch {
	case a.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidActivity)
	case a.Title == "":
		return fmt.Errorf("%w: %s: missing title", ErrInvalidActivity, a.ID)
	case !validTypes[a.Type]:
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidActivity, a.ID, a.Type)
	case a.Level.Index() < 0:
		return fmt.Errorf("%w: %s: unknown level %q", ErrInvalidActivity, a.ID, a.Level)
	case len(a.Skills) == 0:
		return fmt.Errorf("%w: %s: at least one target skill required", ErrInvalidActivity, a.ID)
	case a.EstimatedMin <= 0:
		return fmt.Errorf("%w: %s: estimated_min must be positive", ErrInvalidActivity, a.ID)
	case !validMatchers[a.Rubric.Matcher]:
		return fmt.Errorf("%w: %s: unknown matcher %q", ErrInvalidActivity, a.ID, a.Rubric.Matcher)
	}

	switch a.Rubric.Matcher {
	case MatchExact, MatchNumeric:
		if len(a.Rubric.Answers) == 0 {
			return fmt.Errorf("%w: %s: %s matcher requires answers", ErrInvalidActivity, a.ID, a.Rubric.Matcher)
		}
	}
	if a.Rubric.Tolerance < 0 {
		return fmt.Errorf("%w: %s: tolerance must not be negative", ErrInvalidActivity, a.ID)
	}
	return nil
}

// SupportsStyle reports whether the activity supports the given style.
func (a *Activity) SupportsStyle(s Style) bool {
	for _, st := range a.Styles {
		if st == s {
			return true
		}
	}
	return false
}

// SkillKey returns a canonical key for the activity's target skill set,
// used to detect repeats of the same skills under a different activity id.
func (a *Activity) SkillKey() string {
	skills := make([]string, len(a.Skills))
	for i, s := range a.Skills {
		skills[i] = strings.ToLower(strings.TrimSpace(s))
	}
	sort.Strings(skills)
	return strings.Join(skills, "|")
}

// Index builds an id-keyed lookup for a catalog slice.
func Index(activities []Activity) map[string]Activity {
	idx := make(map[string]Activity, len(activities))
	for _, a := range activities {
		idx[a.ID] = a
	}
	return idx
}
