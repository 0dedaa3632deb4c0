// Package report builds parent-facing progress reports from a child's
// attempt history over a period.
package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/store"
)

// Period is a report window in whole days.
type Period struct {
	Days int
}

// ParsePeriod parses an "Nd" period string, e.g. "7d", "14d", "30d".
func ParsePeriod(s string) (Period, error) {
	if !strings.HasSuffix(s, "d") {
		return Period{}, fmt.Errorf("period %q: use Nd, e.g. 7d", s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || n <= 0 {
		return Period{}, fmt.Errorf("period %q: use Nd with a positive day count", s)
	}
	return Period{Days: n}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%dd", p.Days)
}

// outcomeWeight converts an attempt outcome into a report score. The
// weights favor full successes without zeroing out honest struggles.
var outcomeWeight = map[string]float64{
	"success":  1.0,
	"partial":  0.6,
	"struggle": 0.2,
	"skipped":  0.0,
}

// Stat aggregates attempts for one skill or activity type.
type Stat struct {
	Attempts int     `json:"attempts"`
	Avg      float64 `json:"avg"`

	total float64
}

// Pick is one recommended next activity.
type Pick struct {
	ActivityID string  `json:"activity_id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Level      string  `json:"level"`
	Total      float64 `json:"total"`
}

// Report is a period summary of a child's activity.
type Report struct {
	ChildID          string          `json:"child_id"`
	ChildName        string          `json:"child_name"`
	PeriodLabel      string          `json:"period"`
	LifetimeFallback bool            `json:"lifetime_fallback"`
	Skills           map[string]Stat `json:"skills"`
	Types            map[string]Stat `json:"types"`
	Sparks           []string        `json:"sparks"`
	Focus            []string        `json:"focus"`
	InterestsEngaged []string        `json:"interests_engaged"`
	TimeFitShare     float64         `json:"time_fit_share"`
	Recommended      []Pick          `json:"recommended"`
	Tips             []string        `json:"tips"`
}

// Builder assembles reports from the attempt log and the catalog.
type Builder struct {
	Attempts   store.AttemptRepo
	Activities []catalog.Activity

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Build aggregates the child's attempts in the period. An empty period
// falls back to lifetime history so a first report is never blank.
// Picks are the caller's ranked recommendations for what to try next.
func (b *Builder) Build(ctx context.Context, child *profile.Profile, period Period, picks []recommend.Recommendation) (*Report, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	end := now()
	start := end.AddDate(0, 0, -period.Days)

	attempts, err := b.Attempts.ByChild(ctx, child.ID, store.QueryOpts{From: start, To: end})
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}

	lifetime := false
	if len(attempts) == 0 {
		attempts, err = b.Attempts.ByChild(ctx, child.ID, store.QueryOpts{})
		if err != nil {
			return nil, fmt.Errorf("load lifetime attempts: %w", err)
		}
		lifetime = true
	}

	idx := catalog.Index(b.Activities)
	skills, types := aggregate(attempts, idx)
	sparks, focus := classify(skills)

	rep := &Report{
		ChildID:          child.ID,
		ChildName:        child.Name,
		PeriodLabel:      fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		LifetimeFallback: lifetime,
		Skills:           skills,
		Types:            types,
		Sparks:           sparks,
		Focus:            focus,
		InterestsEngaged: interestsEngaged(child, attempts, idx),
		TimeFitShare:     timeFitShare(attempts, idx, child.AttentionSpan),
		Tips:             tipsFor(focus),
	}
	for _, pick := range picks {
		rep.Recommended = append(rep.Recommended, Pick{
			ActivityID: pick.Activity.ID,
			Title:      pick.Activity.Title,
			Type:       string(pick.Activity.Type),
			Level:      string(pick.Activity.Level),
			Total:      pick.Breakdown.Total,
		})
	}
	return rep, nil
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func aggregate(attempts []store.Attempt, idx map[string]catalog.Activity) (skills, types map[string]Stat) {
	skills = make(map[string]Stat)
	types = make(map[string]Stat)
	for _, att := range attempts {
		act, ok := idx[att.ActivityID]
		if !ok {
			// Activity dropped from the catalog since the attempt.
			continue
		}
		score := outcomeWeight[att.Outcome]
		for _, s := range act.Skills {
			st := skills[s]
			st.Attempts++
			st.total += score
			skills[s] = st
		}
		tt := types[string(act.Type)]
		tt.Attempts++
		tt.total += score
		types[string(act.Type)] = tt
	}
	for _, m := range []map[string]Stat{skills, types} {
		for k, st := range m {
			st.Avg = st.total / float64(st.Attempts)
			m[k] = st
		}
	}
	return skills, types
}

// classify splits skills into sparks (going well) and focus (growth
// areas), top two each. Single attempts are too noisy to classify.
func classify(skills map[string]Stat) (sparks, focus []string) {
	for name, st := range skills {
		if st.Attempts < 2 {
			continue
		}
		if st.Avg >= 0.75 {
			sparks = append(sparks, name)
		}
		if st.Avg <= 0.5 {
			focus = append(focus, name)
		}
	}
	sort.Slice(sparks, func(i, j int) bool {
		a, b := skills[sparks[i]], skills[sparks[j]]
		if a.Avg != b.Avg {
			return a.Avg > b.Avg
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return sparks[i] < sparks[j]
	})
	sort.Slice(focus, func(i, j int) bool {
		a, b := skills[focus[i]], skills[focus[j]]
		if a.Avg != b.Avg {
			return a.Avg < b.Avg
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return focus[i] < focus[j]
	})
	if len(sparks) > 2 {
		sparks = sparks[:2]
	}
	if len(focus) > 2 {
		focus = focus[:2]
	}
	return sparks, focus
}

func interestsEngaged(child *profile.Profile, attempts []store.Attempt, idx map[string]catalog.Activity) []string {
	interests := make(map[string]bool, len(child.Interests))
	for _, in := range child.Interests {
		interests[strings.ToLower(in)] = true
	}

	hits := make(map[string]bool)
	for _, att := range attempts {
		act, ok := idx[att.ActivityID]
		if !ok {
			continue
		}
		tokens := []string{strings.ToLower(string(act.Type))}
		for _, tag := range act.Tags {
			tokens = append(tokens, strings.ToLower(tag))
		}
		for _, tok := range tokens {
			if interests[tok] {
				hits[tok] = true
			}
		}
	}

	out := make([]string, 0, len(hits))
	for h := range hits {
		out = append(out, h)
	}
	sort.Strings(out)
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// timeFitShare is the fraction of attempted activities whose estimated
// duration fit within the child's attention span.
func timeFitShare(attempts []store.Attempt, idx map[string]catalog.Activity, span int) float64 {
	if len(attempts) == 0 {
		return 0
	}
	ok := 0
	for _, att := range attempts {
		act, found := idx[att.ActivityID]
		if !found {
			continue
		}
		if act.EstimatedMin <= span {
			ok++
		}
	}
	return float64(ok) / float64(len(attempts))
}
