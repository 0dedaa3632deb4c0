package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Snapshot captures a child's full profile state at a point in time,
// enabling fast restore without replaying the entire attempt log.
// One row per save; the latest row per child is the live snapshot.
type Snapshot struct {
	ent.Schema
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("child_id").
			NotEmpty().
			Comment("Child this snapshot belongs to"),
		field.Int64("sequence").
			Comment("Event sequence number the snapshot reflects"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the snapshot was taken"),
		field.JSON("data", map[string]any{}).
			Comment("Full child profile as JSON"),
	}
}

func (Snapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("child_id", "timestamp"),
		index.Fields("sequence"),
	}
}
