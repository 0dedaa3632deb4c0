package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/buddy/internal/profile"
)

// ErrPersistence tags append and snapshot-write failures. The session
// engine surfaces it as recoverable: in-memory results are retained so
// the caller may retry the save.
var ErrPersistence = errors.New("persistence failure")

// QueryOpts configures attempt queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// SkillDelta records one proficiency update applied by an attempt.
type SkillDelta struct {
	Skill string  `json:"skill"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Attempt is an immutable history record of one completed activity.
// The attempt log is the single source of truth: any child's snapshot
// must be reproducible by folding their attempts from genesis.
type Attempt struct {
	Sequence    int64
	Timestamp   time.Time
	ChildID     string
	ActivityID  string
	SessionID   string
	Answer      string
	Score       float64
	Outcome     string
	Breakdown   map[string]float64
	SkillDeltas []SkillDelta
}

// AttemptRepo provides append and query access to the attempt log.
type AttemptRepo interface {
	// Append stores a new attempt, assigning it the next global
	// sequence number, and returns that sequence. A zero Timestamp is
	// filled with the current time.
	Append(ctx context.Context, a *Attempt) (int64, error)

	// ByChild returns a child's attempts in ascending sequence order.
	ByChild(ctx context.Context, childID string, opts QueryOpts) ([]Attempt, error)

	// RecentByChild returns a child's most recent attempts, newest
	// first, capped at limit.
	RecentByChild(ctx context.Context, childID string, limit int) ([]Attempt, error)
}

// PlanEntryData is one ranked activity recorded on session start.
type PlanEntryData struct {
	ActivityID string
	Total      float64
}

// SessionStartData captures a session-start event.
type SessionStartData struct {
	SessionID string
	ChildID   string
	Plan      []PlanEntryData
}

// SessionEndData captures a session-end event.
type SessionEndData struct {
	SessionID        string
	ChildID          string
	ActivitiesServed int
	Correct          int
	DurationSecs     int
}

// SessionRepo provides append access to session lifecycle events.
type SessionRepo interface {
	AppendStart(ctx context.Context, data SessionStartData) error
	AppendEnd(ctx context.Context, data SessionEndData) error
}

// Snapshot is the latest materialized profile state for one child,
// together with the event sequence it reflects. Overwritten (not
// versioned) from the caller's perspective; recovery replays attempts
// with sequence > Sequence on top of Profile.
type Snapshot struct {
	ID        int
	ChildID   string
	Sequence  int64
	Timestamp time.Time
	Profile   profile.Profile
}

// SnapshotRepo manages per-child profile snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot for the child.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the child's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, childID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots for the child.
	Prune(ctx context.Context, childID string, keep int) error
}
