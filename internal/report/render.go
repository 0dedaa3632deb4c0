package report

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/buddy/internal/ui/theme"
)

// Render formats the report for the terminal.
func (r *Report) Render() string {
	var b strings.Builder

	title := fmt.Sprintf("Parent Report — %s", r.ChildName)
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	period := r.PeriodLabel
	if r.LifetimeFallback {
		period += " (lifetime snapshot)"
	}
	b.WriteString(theme.Subtitle.Render(period))
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render("Highlights"))
	b.WriteString("\n")
	b.WriteString("  Sparks:            " + renderSkillList(r.Sparks, theme.Good.Render) + "\n")
	b.WriteString("  Growth areas:      " + renderSkillList(r.Focus, theme.Mixed.Render) + "\n")
	b.WriteString("  Interests engaged: " + renderList(r.InterestsEngaged) + "\n")
	b.WriteString(fmt.Sprintf("  Time fit:          %.0f%% of activities matched attention span\n", r.TimeFitShare*100))
	b.WriteString("\n")

	b.WriteString(theme.Heading.Render("Activity Snapshot"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render("  By type"))
	b.WriteString("\n")
	b.WriteString(renderStats(r.Types, false))
	b.WriteString(theme.Body.Render("  By skill"))
	b.WriteString("\n")
	b.WriteString(renderStats(r.Skills, true))
	b.WriteString("\n")

	b.WriteString(theme.Heading.Render("Recommended Next"))
	b.WriteString("\n")
	if len(r.Recommended) == 0 {
		b.WriteString(theme.Hint.Render("  No picks") + "\n")
	}
	for _, p := range r.Recommended {
		line := fmt.Sprintf("  %s (%s, %s)", p.Title, p.Type, p.Level)
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.Heading.Render("Try at Home"))
	b.WriteString("\n")
	for _, tip := range r.Tips {
		b.WriteString(theme.Body.Render("  "+tip) + "\n")
	}

	return b.String()
}

func renderSkillList(skills []string, style func(...string) string) string {
	if len(skills) == 0 {
		return theme.Hint.Render("none yet")
	}
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = style(titleCase(s))
	}
	return strings.Join(names, ", ")
}

func renderList(items []string) string {
	if len(items) == 0 {
		return theme.Hint.Render("none yet")
	}
	return strings.Join(items, ", ")
}

// renderStats prints stats sorted by attempts desc then avg desc, the
// order a parent scans: what got practiced most, how it went.
func renderStats(stats map[string]Stat, skillNames bool) string {
	if len(stats) == 0 {
		return theme.Hint.Render("  no activity in period") + "\n"
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := stats[keys[i]], stats[keys[j]]
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		if a.Avg != b.Avg {
			return a.Avg > b.Avg
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	for _, k := range keys {
		st := stats[k]
		name := k
		if skillNames {
			name = titleCase(k)
		}
		line := fmt.Sprintf("    %-24s %d attempts, avg %.0f%%", name, st.Attempts, st.Avg*100)
		b.WriteString(statStyle(st.Avg).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func statStyle(avg float64) lipgloss.Style {
	switch {
	case avg >= 0.75:
		return theme.Good
	case avg <= 0.5:
		return theme.Bad
	default:
		return theme.Mixed
	}
}
