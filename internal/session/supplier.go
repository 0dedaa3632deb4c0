package session

import (
	"context"
	"errors"

	"github.com/abhisek/buddy/internal/catalog"
)

// ErrSkip is returned by a supplier when the child passes on the current
// activity. The attempt is recorded as skipped and applies no skill
// updates.
var ErrSkip = errors.New("activity skipped")

// AnswerSupplier produces one raw answer for the activity currently
// being presented. The engine is agnostic to the source: scripted
// answers in tests, a deterministic simulation, or interactive input.
type AnswerSupplier interface {
	Answer(ctx context.Context, a *catalog.Activity) (string, error)
}

// Scripted replays a fixed list of answers in order. Once the script is
// exhausted every further activity is skipped.
type Scripted struct {
	answers []string
	next    int
}

// NewScripted creates a supplier that replays the given answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Answer(ctx context.Context, a *catalog.Activity) (string, error) {
	if s.next >= len(s.answers) {
		return "", ErrSkip
	}
	ans := s.answers[s.next]
	s.next++
	return ans, nil
}
