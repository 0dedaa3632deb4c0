package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/store"
)

type fakeAttempts struct {
	attempts []store.Attempt
}

func (f *fakeAttempts) Append(ctx context.Context, a *store.Attempt) (int64, error) {
	panic("not used")
}

func (f *fakeAttempts) ByChild(ctx context.Context, childID string, opts store.QueryOpts) ([]store.Attempt, error) {
	var out []store.Attempt
	for _, a := range f.attempts {
		if a.ChildID != childID {
			continue
		}
		if !opts.From.IsZero() && a.Timestamp.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && a.Timestamp.After(opts.To) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttempts) RecentByChild(ctx context.Context, childID string, limit int) ([]store.Attempt, error) {
	panic("not used")
}

var reportCatalog = []catalog.Activity{
	{
		ID: "act-add", Type: catalog.TypeMath, Title: "Adding up", Level: catalog.LevelEasy,
		Skills: []string{"addition"}, Tags: []string{"numbers"}, EstimatedMin: 10,
		Styles: []catalog.Style{catalog.StyleVisual}, Prompt: "2+2?",
		Rubric: catalog.Rubric{Matcher: catalog.MatchExact, Answers: []string{"4"}},
	},
	{
		ID: "act-story", Type: catalog.TypeStorytelling, Title: "Story time", Level: catalog.LevelMedium,
		Skills: []string{"storytelling"}, Tags: []string{"animals"}, EstimatedMin: 30,
		Styles: []catalog.Style{catalog.StyleAuditory}, Prompt: "Tell a story.",
		Rubric: catalog.Rubric{Matcher: catalog.MatchKeyword, Keywords: []string{"animal"}},
	},
}

func reportChild() *profile.Profile {
	return &profile.Profile{
		ID:            "child-1",
		Name:          "Mia",
		ReadingLevel:  profile.ReadingOnGrade,
		LearningStyle: catalog.StyleVisual,
		AttentionSpan: 20,
		Interests:     []string{"animals", "space"},
		Skills:        map[string]float64{},
	}
}

func att(day int, activityID, outcome string) store.Attempt {
	return store.Attempt{
		Timestamp:  time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC),
		ChildID:    "child-1",
		ActivityID: activityID,
		Outcome:    outcome,
	}
}

func newBuilder(attempts ...store.Attempt) *Builder {
	return &Builder{
		Attempts:   &fakeAttempts{attempts: attempts},
		Activities: reportCatalog,
		Now:        func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func TestBuildAggregates(t *testing.T) {
	b := newBuilder(
		att(5, "act-add", "success"),
		att(6, "act-add", "success"),
		att(7, "act-story", "struggle"),
		att(8, "act-story", "struggle"),
	)

	rep, err := b.Build(context.Background(), reportChild(), Period{Days: 7}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if rep.LifetimeFallback {
		t.Error("LifetimeFallback = true, want false")
	}
	if got := rep.Skills["addition"]; got.Attempts != 2 || got.Avg != 1.0 {
		t.Errorf("addition stat = %+v, want 2 attempts avg 1.0", got)
	}
	if got := rep.Skills["storytelling"]; got.Attempts != 2 || got.Avg != 0.2 {
		t.Errorf("storytelling stat = %+v, want 2 attempts avg 0.2", got)
	}
	if len(rep.Sparks) != 1 || rep.Sparks[0] != "addition" {
		t.Errorf("Sparks = %v, want [addition]", rep.Sparks)
	}
	if len(rep.Focus) != 1 || rep.Focus[0] != "storytelling" {
		t.Errorf("Focus = %v, want [storytelling]", rep.Focus)
	}
	// act-story (30 min) exceeds the 20 min attention span.
	if rep.TimeFitShare != 0.5 {
		t.Errorf("TimeFitShare = %v, want 0.5", rep.TimeFitShare)
	}
	// The storytelling activity is tagged with a declared interest.
	if len(rep.InterestsEngaged) != 1 || rep.InterestsEngaged[0] != "animals" {
		t.Errorf("InterestsEngaged = %v, want [animals]", rep.InterestsEngaged)
	}
	// Focus on storytelling surfaces its home tip.
	if len(rep.Tips) == 0 || !strings.Contains(rep.Tips[0], "Storytelling") {
		t.Errorf("Tips = %v, want a storytelling tip first", rep.Tips)
	}
}

func TestBuildLifetimeFallback(t *testing.T) {
	// The only attempt is outside the 7 day window.
	b := newBuilder(att(1, "act-add", "partial"))

	rep, err := b.Build(context.Background(), reportChild(), Period{Days: 7}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !rep.LifetimeFallback {
		t.Error("LifetimeFallback = false, want true")
	}
	if got := rep.Skills["addition"]; got.Attempts != 1 || got.Avg != 0.6 {
		t.Errorf("addition stat = %+v, want 1 attempt avg 0.6", got)
	}
	// Single attempts classify as neither spark nor focus.
	if len(rep.Sparks) != 0 || len(rep.Focus) != 0 {
		t.Errorf("Sparks/Focus = %v/%v, want empty", rep.Sparks, rep.Focus)
	}
}

func TestBuildIncludesPicks(t *testing.T) {
	b := newBuilder(att(5, "act-add", "success"))
	picks := []recommend.Recommendation{{Activity: reportCatalog[1]}}

	rep, err := b.Build(context.Background(), reportChild(), Period{Days: 7}, picks)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(rep.Recommended) != 1 || rep.Recommended[0].ActivityID != "act-story" {
		t.Errorf("Recommended = %+v, want [act-story]", rep.Recommended)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		days    int
		wantErr bool
	}{
		{"7d", 7, false},
		{"14d", 14, false},
		{"30d", 30, false},
		{"0d", 0, true},
		{"-3d", 0, true},
		{"7w", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		p, err := ParsePeriod(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePeriod(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePeriod(%q) error = %v", tt.in, err)
			continue
		}
		if p.Days != tt.days {
			t.Errorf("ParsePeriod(%q).Days = %d, want %d", tt.in, p.Days, tt.days)
		}
	}
}

func TestRenderAndJSON(t *testing.T) {
	b := newBuilder(
		att(5, "act-add", "success"),
		att(6, "act-add", "struggle"),
	)
	rep, err := b.Build(context.Background(), reportChild(), Period{Days: 7}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	text := rep.Render()
	for _, want := range []string{"Parent Report", "Mia", "Highlights", "Try at Home"} {
		if !strings.Contains(text, want) {
			t.Errorf("Render() missing %q", want)
		}
	}

	raw, err := rep.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	for _, want := range []string{`"child_id": "child-1"`, `"addition"`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("JSON() missing %q", want)
		}
	}
}
