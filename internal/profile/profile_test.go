package profile

import (
	"errors"
	"testing"

	"github.com/abhisek/buddy/internal/catalog"
)

func validProfile() Profile {
	return Profile{
		ID:            "child-1",
		Name:          "Test Child",
		ReadingLevel:  ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Interests:     []string{"reading"},
		Skills:        map[string]float64{"addition": 0.5},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"missing id", func(p *Profile) { p.ID = "" }},
		{"missing name", func(p *Profile) { p.Name = "" }},
		{"unknown reading level", func(p *Profile) { p.ReadingLevel = "phd" }},
		{"unknown learning style", func(p *Profile) { p.LearningStyle = "osmosis" }},
		{"zero attention span", func(p *Profile) { p.AttentionSpan = 0 }},
		{"skill above one", func(p *Profile) { p.Skills["addition"] = 1.5 }},
		{"negative skill", func(p *Profile) { p.Skills["addition"] = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("error = %v, want wrapped ErrInvalidProfile", err)
			}
		})
	}

	p := validProfile()
	if err := p.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}
}

func TestReadingLevelIndexIsOrdered(t *testing.T) {
	levels := []ReadingLevel{ReadingPreReader, ReadingEmergent, ReadingApproach, ReadingOnGrade, ReadingAboveGrade}
	for i, l := range levels {
		if l.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", l, l.Index(), i)
		}
	}
	if ReadingLevel("phd").Index() != -1 {
		t.Error("unknown level should index -1")
	}
}

func TestSkillDefault(t *testing.T) {
	p := validProfile()
	if got := p.Skill("addition"); got != 0.5 {
		t.Errorf("known skill = %v, want 0.5", got)
	}
	if got := p.Skill("never_seen"); got != DefaultProficiency {
		t.Errorf("unknown skill = %v, want %v", got, DefaultProficiency)
	}
}

func TestSetSkillClamps(t *testing.T) {
	p := validProfile()
	p.SetSkill("addition", 1.7)
	if p.Skill("addition") != 1.0 {
		t.Errorf("above range: %v, want 1.0", p.Skill("addition"))
	}
	p.SetSkill("addition", -0.3)
	if p.Skill("addition") != 0.0 {
		t.Errorf("below range: %v, want 0.0", p.Skill("addition"))
	}

	var empty Profile
	empty.SetSkill("new", 0.4)
	if empty.Skill("new") != 0.4 {
		t.Error("SetSkill on nil map failed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := validProfile()
	cp := p.Clone()
	cp.SetSkill("addition", 0.9)
	cp.Interests[0] = "mutated"

	if p.Skills["addition"] != 0.5 {
		t.Errorf("clone shares skill map: %v", p.Skills["addition"])
	}
	if p.Interests[0] != "reading" {
		t.Errorf("clone shares interests: %v", p.Interests[0])
	}
}

func TestSamples(t *testing.T) {
	profiles, err := Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(profiles) == 0 {
		t.Fatal("embedded profiles are empty")
	}
	idx := Index(profiles)
	if _, ok := idx["child-mia"]; !ok {
		t.Error("embedded profiles missing child-mia")
	}
	for i := range profiles {
		if err := profiles[i].Validate(); err != nil {
			t.Errorf("sample %s invalid: %v", profiles[i].ID, err)
		}
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `[{"id": "child-1"`},
		{"missing required field", `[{"id": "child-1"}]`},
		{"skill out of range", `[{"id":"c","name":"N","reading_level":"on_grade","learning_style":"visual","attention_span_min":10,"skills":{"addition":2}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.raw)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}
