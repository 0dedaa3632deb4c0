package store

import (
	"context"
	"fmt"

	"github.com/abhisek/buddy/ent"
	"github.com/abhisek/buddy/ent/attemptevent"
	entschema "github.com/abhisek/buddy/ent/schema"
)

// attemptRepo implements AttemptRepo using the ent client.
type attemptRepo struct {
	client *ent.Client
	seq    *sequenceCounter
}

func (r *attemptRepo) Append(ctx context.Context, a *Attempt) (int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: next sequence: %v", ErrPersistence, err)
	}

	builder := r.client.AttemptEvent.Create().
		SetSequence(seqNum).
		SetChildID(a.ChildID).
		SetActivityID(a.ActivityID).
		SetSessionID(a.SessionID).
		SetAnswer(a.Answer).
		SetScore(a.Score).
		SetOutcome(a.Outcome)

	if !a.Timestamp.IsZero() {
		builder = builder.SetTimestamp(a.Timestamp)
	}
	if len(a.Breakdown) > 0 {
		builder = builder.SetBreakdown(a.Breakdown)
	}
	if len(a.SkillDeltas) > 0 {
		builder = builder.SetSkillDeltas(deltasToSchema(a.SkillDeltas))
	}

	saved, err := builder.Save(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: save attempt: %v", ErrPersistence, err)
	}

	a.Sequence = saved.Sequence
	a.Timestamp = saved.Timestamp
	return saved.Sequence, nil
}

func (r *attemptRepo) ByChild(ctx context.Context, childID string, opts QueryOpts) ([]Attempt, error) {
	q := r.client.AttemptEvent.Query().
		Where(attemptevent.ChildID(childID)).
		Order(ent.Asc(attemptevent.FieldSequence))

	if opts.After > 0 {
		q = q.Where(attemptevent.SequenceGT(opts.After))
	}
	if !opts.From.IsZero() {
		q = q.Where(attemptevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		q = q.Where(attemptevent.TimestampLTE(opts.To))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	events, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return entAttempts(events), nil
}

func (r *attemptRepo) RecentByChild(ctx context.Context, childID string, limit int) ([]Attempt, error) {
	q := r.client.AttemptEvent.Query().
		Where(attemptevent.ChildID(childID)).
		Order(ent.Desc(attemptevent.FieldSequence))
	if limit > 0 {
		q = q.Limit(limit)
	}

	events, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	return entAttempts(events), nil
}

func entAttempts(events []*ent.AttemptEvent) []Attempt {
	attempts := make([]Attempt, len(events))
	for i, e := range events {
		attempts[i] = Attempt{
			Sequence:    e.Sequence,
			Timestamp:   e.Timestamp,
			ChildID:     e.ChildID,
			ActivityID:  e.ActivityID,
			SessionID:   e.SessionID,
			Answer:      e.Answer,
			Score:       e.Score,
			Outcome:     e.Outcome,
			Breakdown:   e.Breakdown,
			SkillDeltas: deltasFromSchema(e.SkillDeltas),
		}
	}
	return attempts
}

func deltasToSchema(deltas []SkillDelta) []entschema.SkillDelta {
	out := make([]entschema.SkillDelta, len(deltas))
	for i, d := range deltas {
		out[i] = entschema.SkillDelta{Skill: d.Skill, From: d.From, To: d.To}
	}
	return out
}

func deltasFromSchema(deltas []entschema.SkillDelta) []SkillDelta {
	if len(deltas) == 0 {
		return nil
	}
	out := make([]SkillDelta, len(deltas))
	for i, d := range deltas {
		out[i] = SkillDelta{Skill: d.Skill, From: d.From, To: d.To}
	}
	return out
}
