package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/progress"
)

func init() {
	color.NoColor = true
}

func TestStructuredYAMLKeepsOrder(t *testing.T) {
	o := outline.New()
	o.Append("19 January", "B")
	o.Append("18 January", "A")

	var buf bytes.Buffer
	if err := Structured(&buf, FormatYAML, o); err != nil {
		t.Fatalf("Structured: %v", err)
	}
	got := buf.String()
	first := strings.Index(got, "19 January")
	second := strings.Index(got, "18 January")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("unexpected order:\n%s", got)
	}
	if strings.Contains(got, "{") {
		t.Fatalf("expected block style:\n%s", got)
	}
}

func TestStructuredQuotesAmbiguousStrings(t *testing.T) {
	var buf bytes.Buffer
	if err := Structured(&buf, FormatYAML, map[string]string{"notes": "true"}); err != nil {
		t.Fatalf("Structured: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `notes: "true"` {
		t.Fatalf("got %q", got)
	}
}

func TestStructuredRejectsText(t *testing.T) {
	if err := Structured(&bytes.Buffer{}, FormatText, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestDay(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Day(progress.DaySummary{
		Day:       "18 January",
		Items:     2,
		Completed: 1,
		Minutes:   90,
		Percent:   75,
		Rows: []progress.Row{
			{Label: "Lecture 1", Study: true, Exam: true, Complete: true, Minutes: 90},
			{Label: "Lecture 2", Study: true},
		},
	})
	got := buf.String()
	for _, want := range []string{"18 January - 2 items", "Lecture 1", "Lecture 2", "1/2 complete", "75.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestHabitMonth(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	// March 2026 starts on a Sunday, the last Monday-based column.
	pp.HabitMonth("run", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), func(time.Time) bool { return false })
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	if want := strings.Repeat(" ", 18) + " 1 "; lines[2] != want {
		t.Fatalf("first week = %q, want %q", lines[2], want)
	}
	if StartDay(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) != 6 {
		t.Fatal("March 2026 should start in the Sunday column")
	}
	if DaysIn(time.Date(2028, time.February, 3, 0, 0, 0, 0, time.UTC)) != 29 {
		t.Fatal("February 2028 has 29 days")
	}
}
