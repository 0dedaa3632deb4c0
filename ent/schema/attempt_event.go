package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records a single completed activity attempt by a child.
// Attempts are the source of truth for progress: a child's snapshot must
// always be reproducible by folding their attempt log from genesis.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

// SkillDelta is the serialized form of one proficiency update applied
// by an attempt.
type SkillDelta struct {
	Skill string  `json:"skill"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("child_id").
			NotEmpty().
			Comment("Child who made the attempt"),
		field.String("activity_id").
			NotEmpty().
			Comment("Activity that was attempted"),
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping attempts in a session"),
		field.String("answer").
			Comment("Raw answer as supplied (may be empty for skips)"),
		field.Float("score").
			Comment("Evaluation score in [0,1]; 1.0 means fully correct"),
		field.String("outcome").
			NotEmpty().
			Comment("success, partial, struggle, or skipped"),
		field.JSON("breakdown", map[string]float64{}).
			Optional().
			Comment("Score components at recommendation time"),
		field.JSON("skill_deltas", []SkillDelta{}).
			Optional().
			Comment("Proficiency updates applied by this attempt"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("child_id"),
		index.Fields("activity_id"),
		index.Fields("child_id", "sequence"),
	}
}
