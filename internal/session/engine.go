// Package session drives an activity-by-activity loop over a
// recommended batch, evaluating answers, updating skill state, and
// appending history records.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/buddy/internal/evaluate"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/progress"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/store"
)

// Phase is the engine's position in the session state machine:
// Idle -> Presenting -> Evaluating -> Updating -> Presenting | Complete.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePresenting
	PhaseEvaluating
	PhaseUpdating
	PhaseComplete
)

// keepSnapshots is how many snapshot rows are retained per child after a
// session; older rows only exist for post-mortem inspection.
const keepSnapshots = 10

// Engine runs sessions. A single Engine must not run concurrent sessions
// for the same child; exclusivity is the caller's responsibility.
type Engine struct {
	attempts  store.AttemptRepo
	snapshots store.SnapshotRepo
	sessions  store.SessionRepo
	supplier  AnswerSupplier
	rate      float64
	now       func() time.Time
}

// Config wires an Engine.
type Config struct {
	Attempts  store.AttemptRepo
	Snapshots store.SnapshotRepo
	Sessions  store.SessionRepo
	Supplier  AnswerSupplier

	// LearningRate overrides progress.DefaultLearningRate when > 0.
	LearningRate float64

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a session engine.
func New(cfg Config) *Engine {
	e := &Engine{
		attempts:  cfg.Attempts,
		snapshots: cfg.Snapshots,
		sessions:  cfg.Sessions,
		supplier:  cfg.Supplier,
		rate:      cfg.LearningRate,
		now:       cfg.Now,
	}
	if e.rate <= 0 {
		e.rate = progress.DefaultLearningRate
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Run presents the recommended batch in ranked order, one activity at a
// time: obtain an answer, evaluate it, update skill state, then commit
// (history append first, snapshot second) before moving on.
//
// Malformed answers evaluate as incorrect; the session always progresses.
// A persistence failure ends the session early with an error wrapping
// store.ErrPersistence: the returned summary retains the uncommitted
// result so the caller may RetrySave, and prior committed records are
// untouched. Context cancellation aborts between activities.
func (e *Engine) Run(ctx context.Context, child *profile.Profile, batch []recommend.Recommendation) (*Summary, error) {
	if err := child.Validate(); err != nil {
		return nil, err
	}

	tracker := progress.NewTracker(child, e.rate)
	sum := &Summary{
		SessionID: uuid.NewString(),
		ChildID:   child.ID,
		Started:   e.now(),
		Phase:     PhaseIdle,
		tracker:   tracker,
	}

	if err := e.sessions.AppendStart(ctx, store.SessionStartData{
		SessionID: sum.SessionID,
		ChildID:   child.ID,
		Plan:      planEntries(batch),
	}); err != nil {
		return sum, fmt.Errorf("start session: %w", err)
	}

	for i := range batch {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec := &batch[i]

		sum.Phase = PhasePresenting
		answer, err := e.supplier.Answer(ctx, &rec.Activity)
		skipped := false
		switch {
		case errors.Is(err, ErrSkip):
			skipped = true
			answer = ""
		case err != nil && ctx.Err() != nil:
			return sum, ctx.Err()
		case err != nil:
			// Input failure is not the child's fault, but the session
			// must progress: treat it as a blank answer.
			slog.Warn("answer supplier failed", "activity", rec.Activity.ID, "err", err)
			answer = ""
		}

		sum.Phase = PhaseEvaluating
		var res evaluate.Result
		var outcome evaluate.Outcome
		if skipped {
			outcome = evaluate.OutcomeSkipped
		} else {
			res = evaluate.Evaluate(&rec.Activity, answer)
			outcome = evaluate.Classify(rec.Activity.Rubric.Matcher, res)
		}

		sum.Phase = PhaseUpdating
		var deltas []store.SkillDelta
		if !skipped {
			deltas = tracker.Apply(rec.Activity.Skills, res.Score)
		}

		result := &ActivityResult{
			Activity:  rec.Activity,
			Breakdown: rec.Breakdown,
			Answer:    answer,
			Score:     res.Score,
			Correct:   res.Correct,
			Reason:    res.Reason,
			Outcome:   outcome,
			Deltas:    deltas,
		}
		sum.Results = append(sum.Results, result)
		sum.record(outcome)

		if err := e.commit(ctx, tracker.Profile(), result, sum.SessionID); err != nil {
			return sum, err
		}
	}

	sum.Phase = PhaseComplete
	sum.Finished = e.now()
	sum.Profile = tracker.Profile()

	if err := e.sessions.AppendEnd(ctx, store.SessionEndData{
		SessionID:        sum.SessionID,
		ChildID:          child.ID,
		ActivitiesServed: len(sum.Results),
		Correct:          sum.Successes,
		DurationSecs:     int(sum.Finished.Sub(sum.Started).Seconds()),
	}); err != nil {
		return sum, fmt.Errorf("end session: %w", err)
	}

	if err := e.snapshots.Prune(ctx, child.ID, keepSnapshots); err != nil {
		slog.Warn("prune snapshots", "child", child.ID, "err", err)
	}
	return sum, nil
}

// commit makes one activity's update durable: history append first, then
// snapshot. A crash between the two is recoverable by replaying attempts
// past the snapshot's sequence; a crash before the append loses nothing.
// The append and the snapshot write are separately durable: a result
// whose attempt already landed keeps its sequence, and a retry only
// redoes the snapshot, so the log never records an attempt twice.
func (e *Engine) commit(ctx context.Context, prof *profile.Profile, result *ActivityResult, sessionID string) error {
	if result.Sequence == 0 {
		attempt := &store.Attempt{
			Timestamp:   e.now(),
			ChildID:     prof.ID,
			ActivityID:  result.Activity.ID,
			SessionID:   sessionID,
			Answer:      result.Answer,
			Score:       result.Score,
			Outcome:     string(result.Outcome),
			SkillDeltas: result.Deltas,
			Breakdown:   result.Breakdown.Components(),
		}
		seq, err := e.attempts.Append(ctx, attempt)
		if err != nil {
			return fmt.Errorf("append attempt for %s: %w", result.Activity.ID, err)
		}
		result.Sequence = seq
	}

	err := e.snapshots.Save(ctx, &store.Snapshot{
		ChildID:   prof.ID,
		Sequence:  result.Sequence,
		Timestamp: e.now(),
		Profile:   *prof,
	})
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", prof.ID, err)
	}
	result.committed = true
	return nil
}

// RetrySave re-commits any results a failed Run left uncommitted. The
// summary keeps everything needed, so the caller can retry after fixing
// the store without losing session results.
func (e *Engine) RetrySave(ctx context.Context, sum *Summary) error {
	if sum.tracker == nil {
		return fmt.Errorf("summary has no retained session state")
	}
	for _, result := range sum.Results {
		if result.committed {
			continue
		}
		if err := e.commit(ctx, sum.tracker.Profile(), result, sum.SessionID); err != nil {
			return err
		}
	}
	return nil
}

func planEntries(batch []recommend.Recommendation) []store.PlanEntryData {
	entries := make([]store.PlanEntryData, len(batch))
	for i, rec := range batch {
		entries[i] = store.PlanEntryData{
			ActivityID: rec.Activity.ID,
			Total:      rec.Breakdown.Total,
		}
	}
	return entries
}
