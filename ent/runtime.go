// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/abhisek/buddy/ent/attemptevent"
	"github.com/abhisek/buddy/ent/schema"
	"github.com/abhisek/buddy/ent/sessionevent"
	"github.com/abhisek/buddy/ent/snapshot"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	attempteventMixin := schema.AttemptEvent{}.Mixin()
	attempteventMixinFields0 := attempteventMixin[0].Fields()
	_ = attempteventMixinFields0
	attempteventFields := schema.AttemptEvent{}.Fields()
	_ = attempteventFields
	// attempteventDescTimestamp is the schema descriptor for timestamp field.
	attempteventDescTimestamp := attempteventMixinFields0[1].Descriptor()
	// attemptevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	attemptevent.DefaultTimestamp = attempteventDescTimestamp.Default.(func() time.Time)
	// attempteventDescChildID is the schema descriptor for child_id field.
	attempteventDescChildID := attempteventFields[0].Descriptor()
	// attemptevent.ChildIDValidator is a validator for the "child_id" field. It is called by the builders before save.
	attemptevent.ChildIDValidator = attempteventDescChildID.Validators[0].(func(string) error)
	// attempteventDescActivityID is the schema descriptor for activity_id field.
	attempteventDescActivityID := attempteventFields[1].Descriptor()
	// attemptevent.ActivityIDValidator is a validator for the "activity_id" field. It is called by the builders before save.
	attemptevent.ActivityIDValidator = attempteventDescActivityID.Validators[0].(func(string) error)
	// attempteventDescSessionID is the schema descriptor for session_id field.
	attempteventDescSessionID := attempteventFields[2].Descriptor()
	// attemptevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	attemptevent.SessionIDValidator = attempteventDescSessionID.Validators[0].(func(string) error)
	// attempteventDescOutcome is the schema descriptor for outcome field.
	attempteventDescOutcome := attempteventFields[5].Descriptor()
	// attemptevent.OutcomeValidator is a validator for the "outcome" field. It is called by the builders before save.
	attemptevent.OutcomeValidator = attempteventDescOutcome.Validators[0].(func(string) error)
	sessioneventMixin := schema.SessionEvent{}.Mixin()
	sessioneventMixinFields0 := sessioneventMixin[0].Fields()
	_ = sessioneventMixinFields0
	sessioneventFields := schema.SessionEvent{}.Fields()
	_ = sessioneventFields
	// sessioneventDescTimestamp is the schema descriptor for timestamp field.
	sessioneventDescTimestamp := sessioneventMixinFields0[1].Descriptor()
	// sessionevent.DefaultTimestamp holds the default value on creation for the timestamp field.
	sessionevent.DefaultTimestamp = sessioneventDescTimestamp.Default.(func() time.Time)
	// sessioneventDescSessionID is the schema descriptor for session_id field.
	sessioneventDescSessionID := sessioneventFields[0].Descriptor()
	// sessionevent.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	sessionevent.SessionIDValidator = sessioneventDescSessionID.Validators[0].(func(string) error)
	// sessioneventDescChildID is the schema descriptor for child_id field.
	sessioneventDescChildID := sessioneventFields[1].Descriptor()
	// sessionevent.ChildIDValidator is a validator for the "child_id" field. It is called by the builders before save.
	sessionevent.ChildIDValidator = sessioneventDescChildID.Validators[0].(func(string) error)
	// sessioneventDescAction is the schema descriptor for action field.
	sessioneventDescAction := sessioneventFields[2].Descriptor()
	// sessionevent.ActionValidator is a validator for the "action" field. It is called by the builders before save.
	sessionevent.ActionValidator = sessioneventDescAction.Validators[0].(func(string) error)
	// sessioneventDescActivitiesServed is the schema descriptor for activities_served field.
	sessioneventDescActivitiesServed := sessioneventFields[3].Descriptor()
	// sessionevent.DefaultActivitiesServed holds the default value on creation for the activities_served field.
	sessionevent.DefaultActivitiesServed = sessioneventDescActivitiesServed.Default.(int)
	// sessioneventDescCorrect is the schema descriptor for correct field.
	sessioneventDescCorrect := sessioneventFields[4].Descriptor()
	// sessionevent.DefaultCorrect holds the default value on creation for the correct field.
	sessionevent.DefaultCorrect = sessioneventDescCorrect.Default.(int)
	// sessioneventDescDurationSecs is the schema descriptor for duration_secs field.
	sessioneventDescDurationSecs := sessioneventFields[5].Descriptor()
	// sessionevent.DefaultDurationSecs holds the default value on creation for the duration_secs field.
	sessionevent.DefaultDurationSecs = sessioneventDescDurationSecs.Default.(int)
	snapshotFields := schema.Snapshot{}.Fields()
	_ = snapshotFields
	// snapshotDescChildID is the schema descriptor for child_id field.
	snapshotDescChildID := snapshotFields[0].Descriptor()
	// snapshot.ChildIDValidator is a validator for the "child_id" field. It is called by the builders before save.
	snapshot.ChildIDValidator = snapshotDescChildID.Validators[0].(func(string) error)
	// snapshotDescTimestamp is the schema descriptor for timestamp field.
	snapshotDescTimestamp := snapshotFields[2].Descriptor()
	// snapshot.DefaultTimestamp holds the default value on creation for the timestamp field.
	snapshot.DefaultTimestamp = snapshotDescTimestamp.Default.(func() time.Time)
}
