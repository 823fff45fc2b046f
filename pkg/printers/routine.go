package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/routine"
	"tableflip.dev/cram/pkg/timeutil"
)

var statusColors = map[routine.Status]*color.Color{
	routine.Missed:    color.New(color.FgRed),
	routine.Completed: color.New(color.FgGreen),
	routine.Upcoming:  color.New(color.FgCyan),
	routine.Ongoing:   color.New(color.FgYellow, color.Bold),
	routine.Planned:   color.New(color.Faint),
}

func status(s routine.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

func intervals(a app.ActivityView) string {
	parts := make([]string, 0, len(a.Intervals))
	for _, iv := range a.Intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, ", ")
}

// Routine prints the activities of one date and its totals.
func (pp *PrettyPrint) Routine(day app.RoutineDay) {
	pp.TitleWithCount(day.Date, len(day.Activities), "activity")
	if len(day.Activities) == 0 {
		pp.none()
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", "NAME", "CATEGORY", "WHEN", "STATUS", "TRACKED")
	for _, a := range day.Activities {
		tracked := timeutil.FormatSeconds(a.ElapsedSeconds)
		if a.Timer != routine.Idle {
			tracked += faint.Sprintf(" (%s)", a.Timer)
		}
		tbl.AddRow(mark(a.Completed), a.Name, a.Category, intervals(a), status(a.Status), tracked)
		if pp.Details && a.Notes != "" {
			tbl.AddRow("", faint.Sprintf("  notes: %s", a.Notes), "", "", "", "")
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)

	r := day.Report
	_, _ = faint.Fprintf(pp.out(), "%d/%d done · planned %.1fh · tracked %.1fh · %.0f%%\n\n",
		r.Completed, r.Total, r.PlannedHours, r.ActualHours, r.Progress())
}

// Week prints one line per date.
func (pp *PrettyPrint) Week(reports []routine.DayReport) {
	if len(reports) == 0 {
		pp.none()
		return
	}
	pp.Title(fmt.Sprintf("%s → %s", reports[0].Date, reports[len(reports)-1].Date))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DATE", "DONE", "PLANNED", "TRACKED", "PROGRESS")
	for _, r := range reports {
		tbl.AddRow(r.Date, fmt.Sprintf("%d/%d", r.Completed, r.Total),
			fmt.Sprintf("%.1fh", r.PlannedHours), fmt.Sprintf("%.1fh", r.ActualHours), bar(r.Progress()))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Analytics prints tracked hours by category and the completion rate.
func (pp *PrettyPrint) Analytics(a routine.Analytics) {
	pp.TitleWithCount("Analytics", a.Activities, "activity")
	if a.Activities == 0 {
		pp.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("CATEGORY", "HOURS")
	for _, c := range a.ByCategory {
		tbl.AddRow(c.Category, fmt.Sprintf("%.2f", c.Hours))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	b := color.New(color.Bold)
	_, _ = b.Fprintf(pp.out(), "\ncompletion rate %.1f%% over %d days\n\n", a.CompletionRate, len(a.Daily))
}

// Habits prints habits with their streaks.
func (pp *PrettyPrint) Habits(habits []app.HabitView, window int) {
	pp.TitleWithCount("Habits", len(habits), "habit")
	if len(habits) == 0 {
		pp.none()
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", "HABIT", "FREQUENCY", "STREAK", "BEST", fmt.Sprintf("LAST %dd", window))
	for _, h := range habits {
		freq := h.Frequency
		if h.Frequency != routine.Daily {
			freq = fmt.Sprintf("%s x%d", h.Frequency, h.Target)
		}
		tbl.AddRow(mark(h.DoneToday), h.Name, freq, h.CurrentStreak, h.LongestStreak, h.DoneInWindow)
	}
	tbl.RightAlign(3)
	tbl.RightAlign(4)
	tbl.RightAlign(5)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}
