package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events (start/end).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

// PlanEntry is the serialized form of one recommended activity in a
// session plan.
type PlanEntry struct {
	ActivityID string  `json:"activity_id"`
	Total      float64 `json:"total"`
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("child_id").
			NotEmpty().
			Comment("Child the session belongs to"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.Int("activities_served").
			Default(0).
			Comment("Total activities presented (on end only)"),
		field.Int("correct").
			Default(0).
			Comment("Successful attempts (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Actual duration in seconds (on end only)"),
		field.JSON("plan", []PlanEntry{}).
			Optional().
			Comment("Recommended batch in ranked order (on start only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("child_id"),
		index.Fields("action"),
	}
}
