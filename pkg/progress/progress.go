// Package progress derives time and completion aggregates from a working
// plan and its item records.
package progress

import (
	"strings"

	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/state"
)

// Percent weighs study and exam as half credit each. It is 0 for no items.
func Percent(studied, examined, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(studied+examined) / float64(2*total) * 100
}

// Row is one item of a day view.
type Row struct {
	Label       string           `json:"label" yaml:"label"`
	Study       bool             `json:"study" yaml:"study"`
	Exam        bool             `json:"exam" yaml:"exam"`
	Complete    bool             `json:"complete" yaml:"complete"`
	Minutes     int              `json:"minutes" yaml:"minutes"`
	Intervals   []state.Interval `json:"intervals" yaml:"intervals"`
	Notes       string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Link        string           `json:"link,omitempty" yaml:"link,omitempty"`
	CompletedOn string           `json:"completed_on,omitempty" yaml:"completed_on,omitempty"`
}

// DaySummary aggregates one working plan day.
type DaySummary struct {
	Day       string  `json:"day" yaml:"day"`
	Items     int     `json:"items" yaml:"items"`
	Studied   int     `json:"studied" yaml:"studied"`
	Examined  int     `json:"examined" yaml:"examined"`
	Completed int     `json:"completed" yaml:"completed"`
	Minutes   int     `json:"minutes" yaml:"minutes"`
	Percent   float64 `json:"percent" yaml:"percent"`
	Rows      []Row   `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Day summarises day. Items without a record count as untouched. Only labels
// passing the filter are included; an empty query keeps everything.
func Day(day *outline.Day, doc *state.Document, query string) DaySummary {
	s := DaySummary{Day: day.Label}
	for _, label := range Filter(day.Items, query) {
		row := Row{Label: label}
		if it, ok := doc.Item(day.Label, label); ok {
			row.Study = it.Study
			row.Exam = it.Exam
			row.Complete = it.Complete()
			row.Minutes = it.Minutes()
			row.Intervals = append(row.Intervals, it.Intervals...)
			row.Notes = it.Notes
			row.Link = it.Link
			if it.CompletedOn != nil {
				row.CompletedOn = it.CompletedOn.String()
			}
		} else {
			row.Intervals = []state.Interval{state.DefaultInterval}
		}
		s.Items++
		if row.Study {
			s.Studied++
		}
		if row.Exam {
			s.Examined++
		}
		if row.Complete {
			s.Completed++
		}
		s.Minutes += row.Minutes
		s.Rows = append(s.Rows, row)
	}
	s.Percent = Percent(s.Studied, s.Examined, s.Items)
	return s
}

// Summary aggregates a whole working plan.
type Summary struct {
	Days       []DaySummary `json:"days" yaml:"days"`
	TotalItems int          `json:"total_items" yaml:"total_items"`
	Completed  int          `json:"completed" yaml:"completed"`
	Remaining  int          `json:"remaining" yaml:"remaining"`
	Minutes    int          `json:"minutes" yaml:"minutes"`
	Percent    float64      `json:"percent" yaml:"percent"`
}

// Summarize builds per-day summaries, without item rows, and plan totals.
func Summarize(plan *outline.Outline, doc *state.Document) Summary {
	var sum Summary
	studied, examined := 0, 0
	for _, d := range plan.Days() {
		ds := Day(d, doc, "")
		ds.Rows = nil
		sum.Days = append(sum.Days, ds)
		sum.TotalItems += ds.Items
		sum.Completed += ds.Completed
		sum.Minutes += ds.Minutes
		studied += ds.Studied
		examined += ds.Examined
	}
	sum.Remaining = sum.TotalItems - sum.Completed
	sum.Percent = Percent(studied, examined, sum.TotalItems)
	return sum
}

// Filter keeps labels containing query, ignoring case.
func Filter(labels []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return labels
	}
	var out []string
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), q) {
			out = append(out, l)
		}
	}
	return out
}
