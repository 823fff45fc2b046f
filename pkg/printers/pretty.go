package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/progress"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/timeutil"
)

// PrettyPrint renders views for a terminal.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Details adds intervals, notes and links under each item.
	Details bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s\n", count, plural(noun, count))
}

func plural(noun string, count int) string {
	switch {
	case count == 1:
		return noun
	case strings.HasSuffix(noun, "y"):
		return strings.TrimSuffix(noun, "y") + "ies"
	default:
		return noun + "s"
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func mark(done bool) string {
	if done {
		return color.New(color.FgGreen).Sprint("✓")
	}
	return color.New(color.Faint).Sprint("·")
}

// Day prints one day with a row per item.
func (pp *PrettyPrint) Day(s progress.DaySummary) {
	pp.TitleWithCount(s.Day, s.Items, "item")
	if len(s.Rows) == 0 {
		pp.none()
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow("", "S", "E", "TIME")
	for _, r := range s.Rows {
		label := r.Label
		if r.Complete {
			label = color.New(color.Faint, color.CrossedOut).Sprint(label)
		}
		tbl.AddRow(label, mark(r.Study), mark(r.Exam), timeutil.FormatMinutes(r.Minutes))
		if !pp.Details {
			continue
		}
		for i, iv := range r.Intervals {
			tbl.AddRow(faint.Sprintf("  [%d] %s", i, iv), "", "", "")
		}
		if r.Notes != "" {
			tbl.AddRow(faint.Sprintf("  notes: %s", r.Notes), "", "", "")
		}
		if r.Link != "" {
			tbl.AddRow(faint.Sprintf("  link: %s", r.Link), "", "", "")
		}
		if r.CompletedOn != "" {
			tbl.AddRow(faint.Sprintf("  completed %s", r.CompletedOn), "", "", "")
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = faint.Fprintf(pp.out(), "%d/%d complete · %s · %.1f%%\n\n",
		s.Completed, s.Items, timeutil.FormatMinutes(s.Minutes), s.Percent)
}

// Summary prints plan totals and one line per day.
func (pp *PrettyPrint) Summary(s progress.Summary) {
	pp.Title("Progress")

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DAY", "DONE", "TIME", "PROGRESS")
	for _, d := range s.Days {
		tbl.AddRow(d.Day, fmt.Sprintf("%d/%d", d.Completed, d.Items), timeutil.FormatMinutes(d.Minutes), bar(d.Percent))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	b := color.New(color.Bold)
	_, _ = b.Fprintf(pp.out(), "\n%d/%d complete, %d remaining, %s studied, %.1f%%\n\n",
		s.Completed, s.TotalItems, s.Remaining, timeutil.FormatMinutes(s.Minutes), s.Percent)
}

const barWidth = 20

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	g := color.New(color.FgGreen)
	f := color.New(color.Faint)
	return g.Sprint(strings.Repeat("█", filled)) + f.Sprint(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %5.1f%%", percent)
}

// Outline prints every day of o with its items.
func (pp *PrettyPrint) Outline(o *outline.Outline) {
	if o.Len() == 0 {
		pp.none()
		return
	}
	for _, d := range o.Days() {
		pp.TitleWithCount(d.Label, len(d.Items), "item")
		for _, item := range d.Items {
			_, _ = fmt.Fprintf(pp.out(), "  %s\n", item)
		}
		pp.NewLine()
	}
}

// Overrides prints the recorded edits.
func (pp *PrettyPrint) Overrides(ov *plan.Overrides) {
	pp.Title("Overrides")
	if ov == nil || ov.IsEmpty() {
		pp.none()
		return
	}
	g := color.New(color.FgGreen)
	r := color.New(color.FgRed)
	y := color.New(color.FgYellow)
	ov.Add.Each(func(day string, labels []string) bool {
		for _, l := range labels {
			_, _ = g.Fprintf(pp.out(), "+ %s: %s\n", day, l)
		}
		return true
	})
	ov.Remove.Each(func(day string, labels []string) bool {
		for _, l := range labels {
			_, _ = r.Fprintf(pp.out(), "- %s: %s\n", day, l)
		}
		return true
	})
	ov.Move.Each(func(label, day string) bool {
		_, _ = y.Fprintf(pp.out(), "> %s -> %s\n", label, day)
		return true
	})
	pp.NewLine()
}

// Report prints completed items grouped by day.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	since := result.Since.Local().Format(state.TimestampLayout)
	until := result.Until.Local().Format(state.TimestampLayout)
	pp.Title(fmt.Sprintf("Report · last %s (%s → %s)", label, since, until))

	if result.Total == 0 {
		_, _ = fmt.Fprintln(pp.out(), "  No completed items found in this window.")
		pp.NewLine()
		return
	}

	faint := color.New(color.Faint)
	for _, section := range result.Sections {
		_, _ = fmt.Fprintf(pp.out(), "\n%s\n", section.Day)
		for _, item := range section.Items {
			line := fmt.Sprintf("  %s %s", mark(true), item.Label)
			if !item.CompletedAt.IsZero() {
				line += faint.Sprintf("  (completed %s)", item.CompletedAt.Local().Format(state.TimestampLayout))
			}
			_, _ = fmt.Fprintln(pp.out(), line)
		}
	}
	pp.NewLine()
}

// Overdue prints unfinished items from past days.
func (pp *PrettyPrint) Overdue(items []app.OverdueItem) {
	pp.TitleWithCount("Overdue", len(items), "item")
	if len(items) == 0 {
		pp.none()
		return
	}
	red := color.New(color.FgRed)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DAY", "ITEM", "S", "E", "LATE")
	for _, it := range items {
		tbl.AddRow(it.Day, it.Label, mark(it.Study), mark(it.Exam), red.Sprintf("%dd", it.DaysLate))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Warnings prints load warnings, if any.
func (pp *PrettyPrint) Warnings(warnings []string) {
	y := color.New(color.FgYellow)
	for _, w := range warnings {
		_, _ = y.Fprintf(pp.out(), "warning: %s\n", w)
	}
}

// Render writes v as a structured document, or calls text for the text
// format.
func (pp *PrettyPrint) Render(format string, v interface{}, text func()) error {
	if format == "" || format == FormatText {
		text()
		return nil
	}
	return Structured(pp.out(), format, v)
}

// Item prints one item record after an edit.
func (pp *PrettyPrint) Item(day, label string, it *state.Item) {
	b := color.New(color.Bold)
	faint := color.New(color.Faint)
	_, _ = b.Fprint(pp.out(), label)
	_, _ = faint.Fprintf(pp.out(), " (%s)\n", day)
	if it == nil {
		return
	}
	_, _ = fmt.Fprintf(pp.out(), "  study %s  exam %s  %s\n", mark(it.Study), mark(it.Exam), timeutil.FormatMinutes(it.Minutes()))
	for i, iv := range it.Intervals {
		_, _ = faint.Fprintf(pp.out(), "  [%d] %s\n", i, iv)
	}
	if it.Notes != "" {
		_, _ = faint.Fprintf(pp.out(), "  notes: %s\n", it.Notes)
	}
	if it.Link != "" {
		_, _ = faint.Fprintf(pp.out(), "  link: %s\n", it.Link)
	}
	if it.CompletedOn != nil {
		_, _ = faint.Fprintf(pp.out(), "  completed %s\n", it.CompletedOn)
	}
}

// Done prints a one-line confirmation.
func (pp *PrettyPrint) Done(format string, args ...interface{}) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintf(pp.out(), format+"\n", args...)
}
