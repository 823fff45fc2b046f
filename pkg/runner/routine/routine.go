// Package routine runs the daily routine commands.
package routine

import (
	"context"
	"fmt"
	"io"
	"time"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
	routinepkg "tableflip.dev/cram/pkg/routine"
	"tableflip.dev/cram/pkg/state"
)

// Output is shared by the routine runners.
type Output struct {
	Format string
	Out    io.Writer
}

func (o Output) printer() *printers.PrettyPrint {
	return &printers.PrettyPrint{Out: o.Out}
}

// Show prints the routine of one date.
type Show struct {
	Service *app.RoutineService
	Date    time.Time
	Details bool
	Output
}

func (s *Show) Do(ctx context.Context) error {
	day, err := s.Service.Day(ctx, s.Date)
	if err != nil {
		return err
	}
	pp := s.printer()
	pp.Details = s.Details
	return pp.Render(s.Format, day, func() { pp.Routine(day) })
}

// Add plans an activity. A nil Span takes the next free hour.
type Add struct {
	Service  *app.RoutineService
	Date     time.Time
	Name     string
	Category string
	Span     *state.Interval
	Output
}

func (a *Add) Do(ctx context.Context) error {
	if _, err := a.Service.AddActivity(ctx, a.Date, a.Name, a.Category, a.Span); err != nil {
		return err
	}
	return (&Show{Service: a.Service, Date: a.Date, Output: a.Output}).Do(ctx)
}

// Remove deletes an activity.
type Remove struct {
	Service *app.RoutineService
	Date    time.Time
	Name    string
	Output
}

func (r *Remove) Do(ctx context.Context) error {
	if err := r.Service.RemoveActivity(ctx, r.Date, r.Name); err != nil {
		return err
	}
	return (&Show{Service: r.Service, Date: r.Date, Output: r.Output}).Do(ctx)
}

// Done marks an activity complete or incomplete, optionally with notes.
type Done struct {
	Service *app.RoutineService
	Date    time.Time
	Name    string
	Undo    bool
	Notes   *string
	Output
}

func (d *Done) Do(ctx context.Context) error {
	if _, err := d.Service.SetCompleted(ctx, d.Date, d.Name, !d.Undo); err != nil {
		return err
	}
	if d.Notes != nil {
		if _, err := d.Service.SetNotes(ctx, d.Date, d.Name, *d.Notes); err != nil {
			return err
		}
	}
	return (&Show{Service: d.Service, Date: d.Date, Output: d.Output}).Do(ctx)
}

// Timer applies a stopwatch action.
type Timer struct {
	Service *app.RoutineService
	Date    time.Time
	Name    string
	Action  string
	Output
}

func (t *Timer) Do(ctx context.Context) error {
	if _, err := t.Service.Timer(ctx, t.Date, t.Name, t.Action); err != nil {
		return err
	}
	return (&Show{Service: t.Service, Date: t.Date, Output: t.Output}).Do(ctx)
}

// Interval actions.
const (
	IntervalAdd    = "add"
	IntervalEdit   = "edit"
	IntervalRemove = "rm"
)

// Interval edits an activity's intervals.
type Interval struct {
	Service *app.RoutineService
	Date    time.Time
	Name    string
	Action  string
	Index   int
	// Span is required for edit; for add a nil Span takes the next hour.
	Span *state.Interval
	Output
}

func (i *Interval) Do(ctx context.Context) error {
	var err error
	switch i.Action {
	case IntervalAdd:
		_, err = i.Service.AddInterval(ctx, i.Date, i.Name, i.Span)
	case IntervalEdit:
		if i.Span == nil {
			return fmt.Errorf("interval edit needs a start and an end")
		}
		_, err = i.Service.EditInterval(ctx, i.Date, i.Name, i.Index, *i.Span)
	case IntervalRemove:
		_, err = i.Service.RemoveInterval(ctx, i.Date, i.Name, i.Index)
	default:
		return fmt.Errorf("unknown interval action %q", i.Action)
	}
	if err != nil {
		return err
	}
	return (&Show{Service: i.Service, Date: i.Date, Details: true, Output: i.Output}).Do(ctx)
}

// Week prints the Monday-start week containing Date, or the Days ending at
// Date when Days is set.
type Week struct {
	Service *app.RoutineService
	Date    time.Time
	Days    int
	Output
}

func (w *Week) Do(ctx context.Context) error {
	var (
		reports []routinepkg.DayReport
		err     error
	)
	if w.Days > 0 {
		reports, err = w.Service.Window(ctx, w.Date, w.Days)
	} else {
		reports, err = w.Service.Week(ctx, w.Date)
	}
	if err != nil {
		return err
	}
	pp := w.printer()
	return pp.Render(w.Format, reports, func() { pp.Week(reports) })
}

// Stats prints analytics over every recorded day.
type Stats struct {
	Service *app.RoutineService
	Output
}

func (s *Stats) Do(ctx context.Context) error {
	a, err := s.Service.Analytics(ctx)
	if err != nil {
		return err
	}
	pp := s.printer()
	return pp.Render(s.Format, a, func() { pp.Analytics(a) })
}
