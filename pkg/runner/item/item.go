// Package item runs the plan item edits.
package item

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/validation"
)

// Result is the structured output of an item edit.
type Result struct {
	Day    string      `json:"day" yaml:"day"`
	Label  string      `json:"label" yaml:"label"`
	Action string      `json:"action" yaml:"action"`
	Item   *state.Item `json:"item,omitempty" yaml:"item,omitempty"`
}

// Output is shared by the item runners.
type Output struct {
	Format string
	Out    io.Writer
}

func (o Output) render(res Result) error {
	pp := &printers.PrettyPrint{Out: o.Out}
	return pp.Render(o.Format, res, func() {
		pp.Done("%s: %s (%s)", res.Action, res.Label, res.Day)
		if res.Item != nil {
			pp.Item(res.Day, res.Label, res.Item)
		}
	})
}

// Add schedules a new item.
type Add struct {
	Service *app.Service
	Day     string
	Label   string
	Output
}

func (a *Add) Do(ctx context.Context) error {
	it, err := a.Service.AddItem(ctx, a.Day, a.Label)
	if err != nil {
		return err
	}
	return a.render(Result{Day: it.AssignedDay, Label: a.Label, Action: "added", Item: it})
}

// Remove drops an item and its record.
type Remove struct {
	Service *app.Service
	Day     string
	Label   string
	Output
}

func (r *Remove) Do(ctx context.Context) error {
	if err := r.Service.RemoveItem(ctx, r.Day, r.Label); err != nil {
		return err
	}
	day, ok := validation.NormalizeDay(r.Day)
	if !ok {
		day = r.Day
	}
	return r.render(Result{Day: day, Label: r.Label, Action: "removed"})
}

// Move reassigns an item to another day.
type Move struct {
	Service *app.Service
	Label   string
	To      string
	Output
}

func (m *Move) Do(ctx context.Context) error {
	it, err := m.Service.MoveItem(ctx, m.Label, m.To)
	if err != nil {
		return err
	}
	return m.render(Result{Day: it.AssignedDay, Label: m.Label, Action: "moved", Item: it})
}

// Milestones of an item.
const (
	Study = "study"
	Exam  = "exam"
)

// Mark sets or clears a milestone.
type Mark struct {
	Service   *app.Service
	Day       string
	Label     string
	Milestone string
	Done      bool
	Output
}

func (m *Mark) Do(ctx context.Context) error {
	var (
		it  *state.Item
		err error
	)
	switch m.Milestone {
	case Study:
		it, err = m.Service.SetStudy(ctx, m.Day, m.Label, m.Done)
	case Exam:
		it, err = m.Service.SetExam(ctx, m.Day, m.Label, m.Done)
	default:
		return fmt.Errorf("unknown milestone %q, want %s or %s", m.Milestone, Study, Exam)
	}
	if err != nil {
		return err
	}
	action := "marked " + m.Milestone
	if !m.Done {
		action = "cleared " + m.Milestone
	}
	return m.render(Result{Day: it.AssignedDay, Label: m.Label, Action: action, Item: it})
}

// Note replaces an item's notes.
type Note struct {
	Service *app.Service
	Day     string
	Label   string
	Text    string
	Output
}

func (n *Note) Do(ctx context.Context) error {
	it, err := n.Service.SetNotes(ctx, n.Day, n.Label, n.Text)
	if err != nil {
		return err
	}
	return n.render(Result{Day: it.AssignedDay, Label: n.Label, Action: "noted", Item: it})
}

// Link replaces an item's resource link.
type Link struct {
	Service *app.Service
	Day     string
	Label   string
	URL     string
	Output
}

func (l *Link) Do(ctx context.Context) error {
	it, err := l.Service.SetLink(ctx, l.Day, l.Label, l.URL)
	if err != nil {
		return err
	}
	return l.render(Result{Day: it.AssignedDay, Label: l.Label, Action: "linked", Item: it})
}
