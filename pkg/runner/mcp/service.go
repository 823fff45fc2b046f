// Package mcp provides the Model Context Protocol server integration for cram.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/progress"
	"tableflip.dev/cram/pkg/state"
)

// Service adapts the plan service to the shapes returned by MCP tools and
// resources.
type Service struct {
	Plan *app.Service
}

// NewService wraps svc.
func NewService(svc *app.Service) *Service {
	return &Service{Plan: svc}
}

// PlanView is the whole working plan with item rows.
type PlanView struct {
	Days     []progress.DaySummary `json:"days"`
	Summary  progress.Summary      `json:"summary"`
	Warnings []string              `json:"warnings,omitempty"`
}

// ItemDTO is an item record addressed by day and label.
type ItemDTO struct {
	Day   string      `json:"day"`
	Label string      `json:"label"`
	Item  *state.Item `json:"item,omitempty"`
}

// StatusUpdate sets either milestone; nil leaves it unchanged.
type StatusUpdate struct {
	Study *bool
	Exam  *bool
}

// IntervalRequest adds an explicit interval, or a preset of Minutes after
// the last interval when Start and End are empty.
type IntervalRequest struct {
	Start   string
	End     string
	Minutes int
}

// OutlineView is a parsed outline with its count mismatches.
type OutlineView struct {
	Outline    *outline.Outline   `json:"outline"`
	Mismatches []outline.Mismatch `json:"mismatches,omitempty"`
}

func (s *Service) check() error {
	if s == nil || s.Plan == nil {
		return errors.New("plan service is not configured")
	}
	return nil
}

// WorkingPlan returns every day with its rows and the plan totals.
func (s *Service) WorkingPlan(ctx context.Context) (*PlanView, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	ws, err := s.Plan.Load(ctx)
	if err != nil {
		return nil, err
	}
	view := &PlanView{
		Days:     make([]progress.DaySummary, 0, ws.Plan.Len()),
		Summary:  progress.Summarize(ws.Plan, ws.Doc),
		Warnings: ws.Warnings,
	}
	for _, d := range ws.Plan.Days() {
		view.Days = append(view.Days, progress.Day(d, ws.Doc, ""))
	}
	return view, nil
}

// ParseOutline parses outline text supplied by the caller without touching
// the stored plan.
func (s *Service) ParseOutline(ctx context.Context, text, titlePrefix string) (*OutlineView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("outline text is required")
	}
	loader := &outline.TextLoader{Text: text, TitlePrefix: titlePrefix}
	o, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &OutlineView{Outline: o, Mismatches: o.Mismatches()}, nil
}

// Day returns one day, filtered by query.
func (s *Service) Day(ctx context.Context, day, query string) (*progress.DaySummary, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sum, err := s.Plan.Day(ctx, day, query)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Summary returns the plan totals.
func (s *Service) Summary(ctx context.Context) (*progress.Summary, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	sum, err := s.Plan.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// AddItem schedules an item.
func (s *Service) AddItem(ctx context.Context, day, label string) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	it, err := s.Plan.AddItem(ctx, day, label)
	if err != nil {
		return nil, err
	}
	return &ItemDTO{Day: it.AssignedDay, Label: strings.TrimSpace(label), Item: it}, nil
}

// RemoveItem drops an item.
func (s *Service) RemoveItem(ctx context.Context, day, label string) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := s.Plan.RemoveItem(ctx, day, label); err != nil {
		return nil, err
	}
	return &ItemDTO{Day: day, Label: label}, nil
}

// MoveItem reassigns an item to day.
func (s *Service) MoveItem(ctx context.Context, label, day string) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	it, err := s.Plan.MoveItem(ctx, label, day)
	if err != nil {
		return nil, err
	}
	return &ItemDTO{Day: it.AssignedDay, Label: label, Item: it}, nil
}

// SetStatus updates the milestones named in u.
func (s *Service) SetStatus(ctx context.Context, day, label string, u StatusUpdate) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if u.Study == nil && u.Exam == nil {
		return nil, errors.New("study or exam is required")
	}
	var (
		it  *state.Item
		err error
	)
	if u.Study != nil {
		if it, err = s.Plan.SetStudy(ctx, day, label, *u.Study); err != nil {
			return nil, err
		}
	}
	if u.Exam != nil {
		if it, err = s.Plan.SetExam(ctx, day, label, *u.Exam); err != nil {
			return nil, err
		}
	}
	return &ItemDTO{Day: it.AssignedDay, Label: label, Item: it}, nil
}

// SetNotes replaces an item's notes.
func (s *Service) SetNotes(ctx context.Context, day, label, notes string) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	it, err := s.Plan.SetNotes(ctx, day, label, notes)
	if err != nil {
		return nil, err
	}
	return &ItemDTO{Day: it.AssignedDay, Label: label, Item: it}, nil
}

// SetLink replaces an item's resource link.
func (s *Service) SetLink(ctx context.Context, day, label, link string) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	it, err := s.Plan.SetLink(ctx, day, label, link)
	if err != nil {
		return nil, err
	}
	return &ItemDTO{Day: it.AssignedDay, Label: label, Item: it}, nil
}

// AddInterval appends an interval to an item.
func (s *Service) AddInterval(ctx context.Context, day, label string, req IntervalRequest) (*ItemDTO, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	var (
		it  *state.Item
		err error
	)
	start, end := strings.TrimSpace(req.Start), strings.TrimSpace(req.End)
	switch {
	case start == "" && end == "":
		it, err = s.Plan.AddPresetInterval(ctx, day, label, req.Minutes)
	case start == "" || end == "":
		return nil, errors.New("start and end must be given together")
	default:
		it, err = s.Plan.AddInterval(ctx, day, label, state.Interval{Start: start, End: end})
	}
	if err != nil {
		return nil, err
	}
	return &ItemDTO{Day: it.AssignedDay, Label: label, Item: it}, nil
}
