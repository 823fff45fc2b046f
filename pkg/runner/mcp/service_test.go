package mcp

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/store"
)

const planText = `Study Plan
18 January (2 lectures)
Lecture 1
Lecture 2
19 January (1 lecture)
Lecture 3
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	p, err := store.Load(&store.FileConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("store.Load: %v", err)
	}
	now := time.Date(2026, time.January, 18, 21, 0, 0, 0, time.Local)
	return NewService(&app.Service{
		Persistence: p,
		Outline:     &outline.TextLoader{Text: planText},
		Now:         func() time.Time { return now },
	})
}

func TestServiceWorkingPlan(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.WorkingPlan(context.Background())
	if err != nil {
		t.Fatalf("WorkingPlan failed: %v", err)
	}
	if len(view.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(view.Days))
	}
	if view.Summary.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", view.Summary.TotalItems)
	}
	if len(view.Days[0].Rows) != 2 {
		t.Fatalf("expected rows for the first day, got %d", len(view.Days[0].Rows))
	}
}

func TestServiceSetStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.SetStatus(ctx, "18 January", "Lecture 1", StatusUpdate{}); err == nil {
		t.Fatalf("expected an error without study or exam")
	}

	yes := true
	dto, err := svc.SetStatus(ctx, "18 January", "Lecture 1", StatusUpdate{Study: &yes, Exam: &yes})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if !dto.Item.Complete() {
		t.Fatalf("expected the item to be complete")
	}
	if dto.Item.CompletedOn == nil || dto.Item.CompletedOn.String() != "2026-01-18 21:00" {
		t.Fatalf("unexpected completed_on %v", dto.Item.CompletedOn)
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Completed != 1 || sum.Remaining != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestServiceMoveAndDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	dto, err := svc.MoveItem(ctx, "Lecture 2", "19 January")
	if err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if dto.Day != "19 January" {
		t.Fatalf("expected 19 January, got %s", dto.Day)
	}

	day, err := svc.Day(ctx, "19 January", "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Items != 2 || day.Rows[1].Label != "Lecture 2" {
		t.Fatalf("unexpected day %+v", day)
	}

	if _, err := svc.RemoveItem(ctx, "19 January", "Lecture 3"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	day, err = svc.Day(ctx, "19 January", "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Items != 1 {
		t.Fatalf("expected one item left, got %d", day.Items)
	}
}

func TestServiceAddInterval(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.AddInterval(ctx, "18 January", "Lecture 1", IntervalRequest{Start: "21:00"}); err == nil {
		t.Fatalf("expected an error for a half interval")
	}

	dto, err := svc.AddInterval(ctx, "18 January", "Lecture 1", IntervalRequest{Start: "9:00 PM", End: "10:00 PM"})
	if err != nil {
		t.Fatalf("AddInterval failed: %v", err)
	}
	if got := dto.Item.Intervals[len(dto.Item.Intervals)-1].String(); got != "21:00-22:00" {
		t.Fatalf("unexpected interval %s", got)
	}

	dto, err = svc.AddInterval(ctx, "18 January", "Lecture 1", IntervalRequest{Minutes: 45})
	if err != nil {
		t.Fatalf("AddInterval preset failed: %v", err)
	}
	if got := dto.Item.Intervals[len(dto.Item.Intervals)-1].String(); got != "22:15-23:00" {
		t.Fatalf("unexpected preset interval %s", got)
	}
}

func TestServiceParseOutline(t *testing.T) {
	svc := newTestService(t)
	view, err := svc.ParseOutline(context.Background(), "Plan\n20 January (3 lectures)\nX\nY\n", "plan")
	if err != nil {
		t.Fatalf("ParseOutline failed: %v", err)
	}
	if got := view.Outline.Labels(); len(got) != 1 || got[0] != "20 January" {
		t.Fatalf("unexpected days %v", got)
	}
	if len(view.Mismatches) != 1 || view.Mismatches[0].Declared != 3 || view.Mismatches[0].Actual != 2 {
		t.Fatalf("unexpected mismatches %+v", view.Mismatches)
	}

	if _, err := svc.ParseOutline(context.Background(), "  ", ""); err == nil {
		t.Fatalf("expected an error for empty text")
	}

	// the stored plan is untouched
	plan, err := svc.WorkingPlan(context.Background())
	if err != nil {
		t.Fatalf("WorkingPlan failed: %v", err)
	}
	if len(plan.Days) != 2 {
		t.Fatalf("expected 2 stored days, got %d", len(plan.Days))
	}
}

func TestServiceUnconfigured(t *testing.T) {
	var svc *Service
	if _, err := svc.WorkingPlan(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestTemplateArg(t *testing.T) {
	if got := templateArg([]string{"18%20January"}); got != "18 January" {
		t.Fatalf("got %q", got)
	}
	if got := templateArg("19 January"); got != "19 January" {
		t.Fatalf("got %q", got)
	}
	if got := templateArg(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}
