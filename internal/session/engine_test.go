package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/evaluate"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/progress"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/store"
)

// fakeAttempts is an in-memory attempt log with an injectable failure.
type fakeAttempts struct {
	attempts []store.Attempt
	seq      int64
	failOn   int // fail the nth append (1-based), 0 = never
	appends  int
}

func (f *fakeAttempts) Append(ctx context.Context, a *store.Attempt) (int64, error) {
	f.appends++
	if f.failOn > 0 && f.appends == f.failOn {
		return 0, fmt.Errorf("append: %w", store.ErrPersistence)
	}
	f.seq++
	a.Sequence = f.seq
	f.attempts = append(f.attempts, *a)
	return f.seq, nil
}

func (f *fakeAttempts) ByChild(ctx context.Context, childID string, opts store.QueryOpts) ([]store.Attempt, error) {
	var out []store.Attempt
	for _, a := range f.attempts {
		if a.ChildID == childID && a.Sequence > opts.After {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttempts) RecentByChild(ctx context.Context, childID string, limit int) ([]store.Attempt, error) {
	var out []store.Attempt
	for i := len(f.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if f.attempts[i].ChildID == childID {
			out = append(out, f.attempts[i])
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	saved  []store.Snapshot
	pruned int
	failOn int // fail the nth save (1-based), 0 = never
	saves  int
}

func (f *fakeSnapshots) Save(ctx context.Context, snap *store.Snapshot) error {
	f.saves++
	if f.failOn > 0 && f.saves == f.failOn {
		return fmt.Errorf("save: %w", store.ErrPersistence)
	}
	f.saved = append(f.saved, *snap)
	return nil
}

func (f *fakeSnapshots) Latest(ctx context.Context, childID string) (*store.Snapshot, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].ChildID == childID {
			snap := f.saved[i]
			return &snap, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshots) Prune(ctx context.Context, childID string, keep int) error {
	f.pruned++
	return nil
}

type fakeSessions struct {
	starts []store.SessionStartData
	ends   []store.SessionEndData
}

func (f *fakeSessions) AppendStart(ctx context.Context, data store.SessionStartData) error {
	f.starts = append(f.starts, data)
	return nil
}

func (f *fakeSessions) AppendEnd(ctx context.Context, data store.SessionEndData) error {
	f.ends = append(f.ends, data)
	return nil
}

func testChild() *profile.Profile {
	return &profile.Profile{
		ID:            "child-1",
		Name:          "Test Child",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Skills:        map[string]float64{"addition": 0.5},
	}
}

func mathActivity(id, answer string) catalog.Activity {
	return catalog.Activity{
		ID:           id,
		Type:         catalog.TypeMath,
		Title:        "Quick sums",
		Level:        catalog.LevelEasy,
		Skills:       []string{"addition"},
		EstimatedMin: 5,
		Styles:       []catalog.Style{catalog.StyleVisual},
		Prompt:       "What is 2+2?",
		Rubric:       catalog.Rubric{Matcher: catalog.MatchExact, Answers: []string{answer}},
	}
}

func batchOf(activities ...catalog.Activity) []recommend.Recommendation {
	batch := make([]recommend.Recommendation, len(activities))
	for i, a := range activities {
		batch[i] = recommend.Recommendation{Activity: a}
	}
	return batch
}

func newTestEngine(supplier AnswerSupplier) (*Engine, *fakeAttempts, *fakeSnapshots, *fakeSessions) {
	attempts := &fakeAttempts{}
	snapshots := &fakeSnapshots{}
	sessions := &fakeSessions{}
	eng := New(Config{
		Attempts:  attempts,
		Snapshots: snapshots,
		Sessions:  sessions,
		Supplier:  supplier,
		Now:       func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	return eng, attempts, snapshots, sessions
}

func TestRunCompletesBatch(t *testing.T) {
	eng, attempts, snapshots, sessions := newTestEngine(NewScripted("4", "wrong"))
	batch := batchOf(mathActivity("act-a", "4"), mathActivity("act-b", "7"))

	sum, err := eng.Run(context.Background(), testChild(), batch)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.Phase != PhaseComplete {
		t.Errorf("Phase = %v, want PhaseComplete", sum.Phase)
	}
	if sum.Served() != 2 {
		t.Errorf("Served() = %d, want 2", sum.Served())
	}
	if sum.Successes != 1 || sum.Struggles != 1 {
		t.Errorf("Successes/Struggles = %d/%d, want 1/1", sum.Successes, sum.Struggles)
	}
	if len(attempts.attempts) != 2 {
		t.Fatalf("attempt log has %d records, want 2", len(attempts.attempts))
	}
	if len(snapshots.saved) != 2 {
		t.Fatalf("saved %d snapshots, want 2", len(snapshots.saved))
	}
	if len(sessions.starts) != 1 || len(sessions.ends) != 1 {
		t.Errorf("session events start/end = %d/%d, want 1/1", len(sessions.starts), len(sessions.ends))
	}
	if snapshots.pruned != 1 {
		t.Errorf("pruned %d times, want 1", snapshots.pruned)
	}
}

func TestRunOrderAndSequences(t *testing.T) {
	eng, attempts, snapshots, _ := newTestEngine(NewScripted("4", "4", "4"))
	batch := batchOf(mathActivity("act-a", "4"), mathActivity("act-b", "4"), mathActivity("act-c", "4"))

	sum, err := eng.Run(context.Background(), testChild(), batch)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Activities are presented in ranked order and each attempt commits
	// before the next activity is presented.
	for i, want := range []string{"act-a", "act-b", "act-c"} {
		if got := attempts.attempts[i].ActivityID; got != want {
			t.Errorf("attempt[%d].ActivityID = %q, want %q", i, got, want)
		}
		if got := sum.Results[i].Sequence; got != int64(i+1) {
			t.Errorf("result[%d].Sequence = %d, want %d", i, got, i+1)
		}
		if got := snapshots.saved[i].Sequence; got != int64(i+1) {
			t.Errorf("snapshot[%d].Sequence = %d, want %d", i, got, i+1)
		}
	}
}

func TestRunSkipAppliesNoUpdates(t *testing.T) {
	eng, attempts, _, _ := newTestEngine(NewScripted("4"))
	// Script covers one activity; the second is skipped.
	batch := batchOf(mathActivity("act-a", "4"), mathActivity("act-b", "4"))

	sum, err := eng.Run(context.Background(), testChild(), batch)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sum.Skips != 1 {
		t.Errorf("Skips = %d, want 1", sum.Skips)
	}
	skippedAttempt := attempts.attempts[1]
	if skippedAttempt.Outcome != string(evaluate.OutcomeSkipped) {
		t.Errorf("skipped attempt outcome = %q, want %q", skippedAttempt.Outcome, evaluate.OutcomeSkipped)
	}
	if len(skippedAttempt.SkillDeltas) != 0 {
		t.Errorf("skipped attempt has %d skill deltas, want 0", len(skippedAttempt.SkillDeltas))
	}
	// Skill only moved from the first, answered activity.
	if got := sum.Profile.Skill("addition"); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("addition after session = %v, want 0.65", got)
	}
}

func TestRunMalformedAnswerIsIncorrect(t *testing.T) {
	numeric := mathActivity("act-num", "12")
	numeric.Rubric.Matcher = catalog.MatchNumeric

	eng, _, _, _ := newTestEngine(NewScripted("banana"))
	sum, err := eng.Run(context.Background(), testChild(), batchOf(numeric))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Struggles != 1 {
		t.Errorf("Struggles = %d, want 1", sum.Struggles)
	}
	if sum.Results[0].Score != 0 {
		t.Errorf("Score = %v, want 0", sum.Results[0].Score)
	}
}

func TestRunPersistenceFailureIsRecoverable(t *testing.T) {
	eng, attempts, _, _ := newTestEngine(NewScripted("4", "4"))
	attempts.failOn = 2
	batch := batchOf(mathActivity("act-a", "4"), mathActivity("act-b", "4"))

	sum, err := eng.Run(context.Background(), testChild(), batch)
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("Run() error = %v, want wrapped store.ErrPersistence", err)
	}

	// The first result committed, the second is retained for retry.
	if sum.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sum.Pending())
	}
	if !sum.Results[0].Committed() || sum.Results[1].Committed() {
		t.Errorf("committed flags = %v/%v, want true/false",
			sum.Results[0].Committed(), sum.Results[1].Committed())
	}
	if len(attempts.attempts) != 1 {
		t.Errorf("attempt log has %d records, want 1", len(attempts.attempts))
	}

	// After the store recovers, RetrySave commits what is left.
	if err := eng.RetrySave(context.Background(), sum); err != nil {
		t.Fatalf("RetrySave() error = %v", err)
	}
	if sum.Pending() != 0 {
		t.Errorf("Pending() after retry = %d, want 0", sum.Pending())
	}
	if len(attempts.attempts) != 2 {
		t.Errorf("attempt log has %d records after retry, want 2", len(attempts.attempts))
	}
}

func TestRetrySaveAfterSnapshotFailureDoesNotDuplicateAttempt(t *testing.T) {
	eng, attempts, snapshots, _ := newTestEngine(NewScripted("4"))
	snapshots.failOn = 1
	batch := batchOf(mathActivity("act-a", "4"))

	sum, err := eng.Run(context.Background(), testChild(), batch)
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("Run() error = %v, want wrapped store.ErrPersistence", err)
	}

	// The attempt landed before the snapshot write failed.
	if len(attempts.attempts) != 1 {
		t.Fatalf("attempt log has %d records, want 1", len(attempts.attempts))
	}
	if sum.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", sum.Pending())
	}

	if err := eng.RetrySave(context.Background(), sum); err != nil {
		t.Fatalf("RetrySave() error = %v", err)
	}
	if sum.Pending() != 0 {
		t.Errorf("Pending() after retry = %d, want 0", sum.Pending())
	}

	// The retry only redoes the snapshot; the log stays append-once.
	if len(attempts.attempts) != 1 {
		t.Fatalf("attempt log has %d records after retry, want 1", len(attempts.attempts))
	}
	if len(snapshots.saved) != 1 {
		t.Fatalf("saved %d snapshots after retry, want 1", len(snapshots.saved))
	}
	if got := snapshots.saved[0].Sequence; got != 1 {
		t.Errorf("snapshot sequence = %d, want 1", got)
	}

	// Replaying the untainted log still reproduces the live state.
	rebuilt := progress.Rebuild(testChild(), attempts.attempts)
	if got := rebuilt.Skill("addition"); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("addition after replay = %v, want 0.65", got)
	}
}

func TestRunContextCancelled(t *testing.T) {
	eng, attempts, _, _ := newTestEngine(NewScripted("4", "4"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx, testChild(), batchOf(mathActivity("act-a", "4")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(attempts.attempts) != 0 {
		t.Errorf("attempt log has %d records, want 0", len(attempts.attempts))
	}
}

func TestRunInvalidChild(t *testing.T) {
	eng, _, _, _ := newTestEngine(NewScripted())
	child := testChild()
	child.AttentionSpan = 0

	if _, err := eng.Run(context.Background(), child, nil); !errors.Is(err, profile.ErrInvalidProfile) {
		t.Fatalf("Run() error = %v, want wrapped profile.ErrInvalidProfile", err)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	eng, _, _, sessions := newTestEngine(NewScripted())
	sum, err := eng.Run(context.Background(), testChild(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Phase != PhaseComplete || sum.Served() != 0 {
		t.Errorf("Phase/Served = %v/%d, want PhaseComplete/0", sum.Phase, sum.Served())
	}
	if len(sessions.ends) != 1 {
		t.Errorf("session end events = %d, want 1", len(sessions.ends))
	}
}
