package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/buddy/ent"
	"github.com/abhisek/buddy/ent/snapshot"
	"github.com/abhisek/buddy/internal/profile"
)

// snapshotRepo implements SnapshotRepo using the ent client.
type snapshotRepo struct {
	client *ent.Client
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	dataMap, err := profileToMap(&snap.Profile)
	if err != nil {
		return fmt.Errorf("%w: marshal snapshot data: %v", ErrPersistence, err)
	}

	builder := r.client.Snapshot.Create().
		SetChildID(snap.ChildID).
		SetSequence(snap.Sequence).
		SetData(dataMap)
	if !snap.Timestamp.IsZero() {
		builder = builder.SetTimestamp(snap.Timestamp)
	}

	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("%w: save snapshot: %v", ErrPersistence, err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, childID string) (*Snapshot, error) {
	s, err := r.client.Snapshot.Query().
		Where(snapshot.ChildID(childID)).
		Order(ent.Desc(snapshot.FieldSequence), ent.Desc(snapshot.FieldID)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return entSnapshotToSnapshot(s)
}

func (r *snapshotRepo) Prune(ctx context.Context, childID string, keep int) error {
	// Find the sequence threshold: the Nth most recent snapshot.
	snapshots, err := r.client.Snapshot.Query().
		Where(snapshot.ChildID(childID)).
		Order(ent.Desc(snapshot.FieldSequence)).
		Offset(keep).
		Limit(1).
		All(ctx)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(snapshots) == 0 {
		return nil // fewer than keep snapshots exist
	}

	threshold := snapshots[0].Sequence
	_, err = r.client.Snapshot.Delete().
		Where(snapshot.ChildID(childID), snapshot.SequenceLTE(threshold)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// profileToMap converts a profile to map[string]any for ent JSON storage.
func profileToMap(p *profile.Profile) (map[string]any, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// entSnapshotToSnapshot converts an ent Snapshot to a store Snapshot.
func entSnapshotToSnapshot(s *ent.Snapshot) (*Snapshot, error) {
	b, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal ent data: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot profile: %w", err)
	}
	return &Snapshot{
		ID:        s.ID,
		ChildID:   s.ChildID,
		Sequence:  s.Sequence,
		Timestamp: s.Timestamp,
		Profile:   p,
	}, nil
}
