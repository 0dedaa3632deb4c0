package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/buddy/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testProfile(id string) profile.Profile {
	return profile.Profile{
		ID:            id,
		Name:          "Test Child",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: "visual",
		AttentionSpan: 20,
		Skills:        map[string]float64{"addition": 0.65},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only meaningful with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAttemptAppendAssignsSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	a := &Attempt{
		ChildID:    "child-1",
		ActivityID: "act-1",
		SessionID:  "sess-1",
		Answer:     "4",
		Score:      1,
		Outcome:    "success",
		Breakdown:  map[string]float64{"total": 0.73},
		SkillDeltas: []SkillDelta{
			{Skill: "addition", From: 0.5, To: 0.65},
		},
	}
	seq, err := repo.Append(ctx, a)
	require.NoError(t, err, "append")
	if seq <= 0 {
		t.Errorf("sequence = %d, want positive", seq)
	}
	if a.Sequence != seq {
		t.Errorf("record sequence %d not backfilled to %d", a.Sequence, seq)
	}
	if a.Timestamp.IsZero() {
		t.Error("zero timestamp not backfilled")
	}

	attempts, err := repo.ByChild(ctx, "child-1", QueryOpts{})
	if err != nil {
		t.Fatalf("by child: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	got := attempts[0]
	if got.Answer != "4" || got.Outcome != "success" || got.Score != 1 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.SkillDeltas) != 1 || got.SkillDeltas[0].Skill != "addition" {
		t.Errorf("skill deltas round-trip mismatch: %+v", got.SkillDeltas)
	}
	if got.Breakdown["total"] != 0.73 {
		t.Errorf("breakdown round-trip mismatch: %+v", got.Breakdown)
	}
}

// Sequences are global across event types: attempts and session events
// interleave on one strictly increasing counter.
func TestSequenceIsGlobalAndMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	attempts := s.AttemptRepo()
	sessions := s.SessionRepo()

	if err := sessions.AppendStart(ctx, SessionStartData{SessionID: "sess-1", ChildID: "child-1"}); err != nil {
		t.Fatalf("append start: %v", err)
	}

	var seqs []int64
	for i := 0; i < 3; i++ {
		seq, err := attempts.Append(ctx, &Attempt{
			ChildID: "child-1", ActivityID: "act-1", SessionID: "sess-1", Outcome: "success",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	if err := sessions.AppendEnd(ctx, SessionEndData{SessionID: "sess-1", ChildID: "child-1"}); err != nil {
		t.Fatalf("append end: %v", err)
	}

	// Session start took sequence 1, so attempts begin at 2.
	for i, seq := range seqs {
		if want := int64(i + 2); seq != want {
			t.Errorf("attempt %d sequence = %d, want %d", i, seq, want)
		}
	}
}

func TestAttemptQueries(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, &Attempt{
			Timestamp:  base.AddDate(0, 0, i),
			ChildID:    "child-1",
			ActivityID: "act-1",
			SessionID:  "sess-1",
			Outcome:    "success",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if _, err := repo.Append(ctx, &Attempt{
		ChildID: "child-2", ActivityID: "act-1", SessionID: "sess-2", Outcome: "success",
	}); err != nil {
		t.Fatalf("append other child: %v", err)
	}

	all, err := repo.ByChild(ctx, "child-1", QueryOpts{})
	if err != nil {
		t.Fatalf("by child: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d attempts, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Fatal("ByChild not in ascending sequence order")
		}
	}

	after, err := repo.ByChild(ctx, "child-1", QueryOpts{After: all[2].Sequence})
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("After filter: got %d, want 2", len(after))
	}

	window, err := repo.ByChild(ctx, "child-1", QueryOpts{
		From: base.AddDate(0, 0, 1),
		To:   base.AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 3 {
		t.Errorf("time window: got %d, want 3", len(window))
	}

	recent, err := repo.RecentByChild(ctx, "child-1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent: got %d, want 2", len(recent))
	}
	if recent[0].Sequence < recent[1].Sequence {
		t.Error("RecentByChild not newest first")
	}
	if recent[0].Sequence != all[4].Sequence {
		t.Errorf("recent[0] = seq %d, want the newest %d", recent[0].Sequence, all[4].Sequence)
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Latest(ctx, "child-1")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	err = repo.Save(ctx, &Snapshot{
		ChildID:   "child-1",
		Sequence:  42,
		Timestamp: now,
		Profile:   testProfile("child-1"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx, "child-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected non-nil snapshot")
	}
	if snap.Sequence != 42 {
		t.Errorf("sequence = %d, want 42", snap.Sequence)
	}
	if snap.Profile.ID != "child-1" {
		t.Errorf("profile id = %q, want child-1", snap.Profile.ID)
	}
	if snap.Profile.Skills["addition"] != 0.65 {
		t.Errorf("profile skill = %v, want 0.65", snap.Profile.Skills["addition"])
	}

	// Other children see nothing.
	other, err := repo.Latest(ctx, "child-2")
	if err != nil {
		t.Fatalf("latest other: %v", err)
	}
	if other != nil {
		t.Error("expected nil snapshot for another child")
	}
}

func TestSnapshotLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := repo.Save(ctx, &Snapshot{
			ChildID:  "child-1",
			Sequence: int64(i * 10),
			Profile:  testProfile("child-1"),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err := repo.Latest(ctx, "child-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap.Sequence != 30 {
		t.Errorf("sequence = %d, want 30", snap.Sequence)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := repo.Save(ctx, &Snapshot{
			ChildID:  "child-1",
			Sequence: int64(i),
			Profile:  testProfile("child-1"),
		}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Save(ctx, &Snapshot{
		ChildID:  "child-2",
		Sequence: 1,
		Profile:  testProfile("child-2"),
	}); err != nil {
		t.Fatalf("save other child: %v", err)
	}

	if err := repo.Prune(ctx, "child-1", 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	count, err := s.Client().Snapshot.Query().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	// child-1 keeps 2, child-2 keeps its 1.
	if count != 3 {
		t.Errorf("snapshots remaining = %d, want 3", count)
	}

	snap, err := repo.Latest(ctx, "child-1")
	if err != nil {
		t.Fatalf("latest after prune: %v", err)
	}
	if snap.Sequence != 5 {
		t.Errorf("latest after prune = %d, want 5", snap.Sequence)
	}

	// Pruning with fewer rows than keep is a no-op.
	if err := repo.Prune(ctx, "child-2", 10); err != nil {
		t.Fatalf("prune small: %v", err)
	}
	other, err := repo.Latest(ctx, "child-2")
	if err != nil || other == nil {
		t.Fatalf("child-2 snapshot lost: %v", err)
	}
}
