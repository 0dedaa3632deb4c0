package profile

import (
	"errors"
	"fmt"

	"github.com/abhisek/buddy/internal/catalog"
)

// ErrInvalidProfile tags data-validation failures on child profiles.
var ErrInvalidProfile = errors.New("invalid profile")

// DefaultProficiency is the neutral prior assumed for any skill a child
// has not been assessed on yet.
const DefaultProficiency = 0.5

// ReadingLevel is an ordered reading-ability band.
type ReadingLevel string

const (
	ReadingPreReader  ReadingLevel = "pre_reader"
	ReadingEmergent   ReadingLevel = "emergent"
	ReadingApproach   ReadingLevel = "approaching"
	ReadingOnGrade    ReadingLevel = "on_grade"
	ReadingAboveGrade ReadingLevel = "above_grade"
)

// Index returns the ordinal position of the reading level, pre_reader=0
// through above_grade=4, or -1 for an unknown value.
func (r ReadingLevel) Index() int {
	switch r {
	case ReadingPreReader:
		return 0
	case ReadingEmergent:
		return 1
	case ReadingApproach:
		return 2
	case ReadingOnGrade:
		return 3
	case ReadingAboveGrade:
		return 4
	}
	return -1
}

// Profile is a child's mutable learning state. The Skills map is the only
// part that changes after creation; it is updated once per completed
// attempt and persisted as a per-child snapshot.
type Profile struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	ReadingLevel  ReadingLevel       `json:"reading_level"`
	LearningStyle catalog.Style      `json:"learning_style"`
	AttentionSpan int                `json:"attention_span_min"`
	Interests     []string           `json:"interests,omitempty"`
	Skills        map[string]float64 `json:"skills"`
}

var validStyles = map[catalog.Style]bool{
	catalog.StyleVisual: true, catalog.StyleAuditory: true,
	catalog.StyleKinesthetic: true, catalog.StyleLogical: true,
}

// Validate checks the fields the scorer and engine depend on.
// All failures wrap ErrInvalidProfile.
func (p *Profile) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	case p.Name == "":
		return fmt.Errorf("%w: %s: missing name", ErrInvalidProfile, p.ID)
	case p.ReadingLevel.Index() < 0:
		return fmt.Errorf("%w: %s: unknown reading level %q", ErrInvalidProfile, p.ID, p.ReadingLevel)
	case !validStyles[p.LearningStyle]:
		return fmt.Errorf("%w: %s: unknown learning style %q", ErrInvalidProfile, p.ID, p.LearningStyle)
	case p.AttentionSpan <= 0:
		return fmt.Errorf("%w: %s: attention span must be positive", ErrInvalidProfile, p.ID)
	}
	for skill, v := range p.Skills {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s: skill %q out of range: %v", ErrInvalidProfile, p.ID, skill, v)
		}
	}
	return nil
}

// Skill returns the child's proficiency for a skill, or the neutral
// default when the skill has never been assessed.
func (p *Profile) Skill(name string) float64 {
	if v, ok := p.Skills[name]; ok {
		return v
	}
	return DefaultProficiency
}

// SetSkill stores a proficiency value, clamped to [0,1].
func (p *Profile) SetSkill(name string, v float64) {
	if p.Skills == nil {
		p.Skills = make(map[string]float64)
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.Skills[name] = v
}

// Clone returns a deep copy, so session updates never leak into the
// caller's profile until they are committed.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Interests = append([]string(nil), p.Interests...)
	cp.Skills = make(map[string]float64, len(p.Skills))
	for k, v := range p.Skills {
		cp.Skills[k] = v
	}
	return &cp
}

// Index builds an id-keyed lookup for a profile slice.
func Index(profiles []Profile) map[string]*Profile {
	idx := make(map[string]*Profile, len(profiles))
	for i := range profiles {
		idx[profiles[i].ID] = &profiles[i]
	}
	return idx
}
