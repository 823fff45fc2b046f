// Package habit runs the habit commands.
package habit

import (
	"context"
	"io"
	"time"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
)

// DefaultWindow is the completion window of the habit list, in days.
const DefaultWindow = 7

// Output is shared by the habit runners.
type Output struct {
	Format string
	Out    io.Writer
}

// List prints habits with their streaks as of Today.
type List struct {
	Service *app.RoutineService
	Today   time.Time
	Window  int
	// Calendar adds a month calendar per habit.
	Calendar bool
	Output
}

func (l *List) Do(ctx context.Context) error {
	window := l.Window
	if window <= 0 {
		window = DefaultWindow
	}
	habits, err := l.Service.Habits(ctx, l.Today, window)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: l.Out}
	return pp.Render(l.Format, habits, func() {
		pp.Habits(habits, window)
		if !l.Calendar {
			return
		}
		doc, err := l.Service.Load(ctx)
		if err != nil {
			return
		}
		for _, v := range habits {
			h, ok := doc.Habits.Get(v.Name)
			if !ok {
				continue
			}
			pp.HabitMonth(v.Name, l.Today, h.Done)
		}
	})
}

// Add registers a habit.
type Add struct {
	Service   *app.RoutineService
	Name      string
	Frequency string
	Target    int
	Notes     string
	Today     time.Time
	Output
}

func (a *Add) Do(ctx context.Context) error {
	if _, err := a.Service.AddHabit(ctx, a.Name, a.Frequency, a.Target, a.Notes); err != nil {
		return err
	}
	return (&List{Service: a.Service, Today: a.Today, Output: a.Output}).Do(ctx)
}

// Remove deletes a habit.
type Remove struct {
	Service *app.RoutineService
	Name    string
	Today   time.Time
	Output
}

func (r *Remove) Do(ctx context.Context) error {
	if err := r.Service.RemoveHabit(ctx, r.Name); err != nil {
		return err
	}
	return (&List{Service: r.Service, Today: r.Today, Output: r.Output}).Do(ctx)
}

// Check records a habit as done, or not done with Undo, on Date.
type Check struct {
	Service *app.RoutineService
	Name    string
	Date    time.Time
	Undo    bool
	Output
}

func (c *Check) Do(ctx context.Context) error {
	if _, err := c.Service.CheckHabit(ctx, c.Name, c.Date, !c.Undo); err != nil {
		return err
	}
	return (&List{Service: c.Service, Today: c.Date, Output: c.Output}).Do(ctx)
}
