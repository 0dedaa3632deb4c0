package store

import (
	"context"
	"fmt"

	"github.com/abhisek/buddy/ent"
	entschema "github.com/abhisek/buddy/ent/schema"
)

// sessionRepo implements SessionRepo using the ent client.
type sessionRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *sessionRepo) AppendStart(ctx context.Context, data SessionStartData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("%w: next sequence: %v", ErrPersistence, err)
	}

	var plan []entschema.PlanEntry
	for _, e := range data.Plan {
		plan = append(plan, entschema.PlanEntry{
			ActivityID: e.ActivityID,
			Total:      e.Total,
		})
	}

	builder := r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetChildID(data.ChildID).
		SetAction("start")

	if len(plan) > 0 {
		builder = builder.SetPlan(plan)
	}

	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("%w: save session start: %v", ErrPersistence, err)
	}
	return nil
}

func (r *sessionRepo) AppendEnd(ctx context.Context, data SessionEndData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("%w: next sequence: %v", ErrPersistence, err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetChildID(data.ChildID).
		SetAction("end").
		SetActivitiesServed(data.ActivitiesServed).
		SetCorrect(data.Correct).
		SetDurationSecs(data.DurationSecs).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("%w: save session end: %v", ErrPersistence, err)
	}
	return nil
}
