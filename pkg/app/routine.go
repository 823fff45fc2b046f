package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/cram/pkg/logging"
	"tableflip.dev/cram/pkg/routine"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/store"
	"tableflip.dev/cram/pkg/timeutil"
	"tableflip.dev/cram/pkg/validation"
)

var (
	ErrActivityNotFound = errors.New("app: activity not found")
	ErrActivityExists   = errors.New("app: activity already exists")
	ErrHabitNotFound    = errors.New("app: habit not found")
	ErrHabitExists      = errors.New("app: habit already exists")
)

// Timer actions accepted by RoutineService.Timer.
const (
	TimerStart  = "start"
	TimerPause  = "pause"
	TimerResume = "resume"
	TimerStop   = "stop"
	TimerReset  = "reset"
)

// RoutineService provides the routine and habit intents and views.
type RoutineService struct {
	Persistence store.Persistence
	Now         func() time.Time
}

func (s *RoutineService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Load reads the routine document. A corrupt document is replaced by an
// empty one with a warning.
func (s *RoutineService) Load(ctx context.Context) (*routine.Document, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.Persistence.Read(store.RoutineKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return routine.NewDocument(), nil
		}
		return nil, err
	}
	doc, err := routine.Decode(data)
	if err != nil {
		log := logging.Component("app")
		log.Warn().Err(err).Msg("ignoring corrupt routine document")
	}
	return doc, nil
}

func (s *RoutineService) save(doc *routine.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return s.Persistence.Write(store.RoutineKey, data)
}

// ActivityView is one activity as rendered for a date.
type ActivityView struct {
	Name           string             `json:"name" yaml:"name"`
	Category       string             `json:"category" yaml:"category"`
	Status         routine.Status     `json:"status" yaml:"status"`
	Completed      bool               `json:"completed" yaml:"completed"`
	Intervals      []state.Interval   `json:"intervals" yaml:"intervals"`
	PlannedMinutes int                `json:"planned_minutes" yaml:"planned_minutes"`
	Timer          routine.TimerState `json:"timer" yaml:"timer"`
	ElapsedSeconds float64            `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Notes          string             `json:"notes,omitempty" yaml:"notes,omitempty"`
	LoggedOn       string             `json:"logged_on,omitempty" yaml:"logged_on,omitempty"`
}

// RoutineDay is the routine for one date.
type RoutineDay struct {
	Date       string            `json:"date" yaml:"date"`
	Activities []ActivityView    `json:"activities" yaml:"activities"`
	Report     routine.DayReport `json:"report" yaml:"report"`
}

// Day renders the routine for date, ordered by start time.
func (s *RoutineService) Day(ctx context.Context, date time.Time) (RoutineDay, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return RoutineDay{}, err
	}
	now := s.now()
	out := RoutineDay{Date: routine.DateKey(date), Activities: make([]ActivityView, 0)}
	if day, ok := doc.Day(out.Date); ok {
		for _, a := range routine.Sorted(day) {
			v := ActivityView{
				Name:           a.Name,
				Category:       a.Category,
				Status:         a.Status(date, now),
				Completed:      a.Completed,
				Intervals:      append([]state.Interval(nil), a.Intervals...),
				PlannedMinutes: a.PlannedMinutes(),
				Timer:          a.Timer.State,
				ElapsedSeconds: a.Timer.Elapsed(now),
				Notes:          a.Notes,
			}
			if a.LoggedOn != nil {
				v.LoggedOn = a.LoggedOn.String()
			}
			out.Activities = append(out.Activities, v)
		}
	}
	out.Report = doc.Report(date, now)
	return out, nil
}

type activityRequest struct {
	Name     string `validate:"required"`
	Category string `validate:"required,oneof=Work Sleep Exercise Leisure Study Other"`
	Start    string `validate:"omitempty,clock"`
	End      string `validate:"omitempty,clock"`
}

func clock12(v string) string {
	return timeutil.FormatClock12(timeutil.ClockMinutes(v))
}

// AddActivity plans a new activity on date. Without an interval, the next
// free hour is suggested.
func (s *RoutineService) AddActivity(ctx context.Context, date time.Time, name, category string, iv *state.Interval) (*routine.Activity, error) {
	if category == "" {
		category = routine.DefaultCategory
	}
	req := activityRequest{Name: strings.TrimSpace(name), Category: category}
	if iv != nil {
		req.Start, req.End = iv.Start, iv.End
	}
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	day := doc.EnsureDay(routine.DateKey(date))
	if day.Has(req.Name) {
		return nil, fmt.Errorf("%w: %q", ErrActivityExists, req.Name)
	}
	slot := routine.SuggestSlot(day, date, s.now())
	if iv != nil {
		if req.Start != "" {
			slot.Start = clock12(req.Start)
		}
		if req.End != "" {
			slot.End = clock12(req.End)
		}
	}
	a := routine.NewActivity(req.Category, slot)
	day.Set(req.Name, a)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return a, nil
}

// RemoveActivity deletes an activity.
func (s *RoutineService) RemoveActivity(ctx context.Context, date time.Time, name string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	day, ok := doc.Day(routine.DateKey(date))
	if !ok || !day.Has(name) {
		return fmt.Errorf("%w: %q on %s", ErrActivityNotFound, name, routine.DateKey(date))
	}
	day.Delete(name)
	return s.save(doc)
}

func (s *RoutineService) updateActivity(ctx context.Context, date time.Time, name string, fn func(*routine.Activity) error) (*routine.Activity, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := doc.Activity(routine.DateKey(date), name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrActivityNotFound, name, routine.DateKey(date))
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return a, nil
}

// SetCompleted marks an activity done or not done.
func (s *RoutineService) SetCompleted(ctx context.Context, date time.Time, name string, done bool) (*routine.Activity, error) {
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		return a.SetCompleted(done, date, s.now())
	})
}

// SetNotes replaces an activity's notes.
func (s *RoutineService) SetNotes(ctx context.Context, date time.Time, name, notes string) (*routine.Activity, error) {
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		a.Notes = notes
		return nil
	})
}

// AddInterval appends iv, or the hour after the last interval when iv is nil.
func (s *RoutineService) AddInterval(ctx context.Context, date time.Time, name string, iv *state.Interval) (*routine.Activity, error) {
	if iv != nil {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
	}
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		next := a.NextInterval()
		if iv != nil {
			next = state.Interval{Start: clock12(iv.Start), End: clock12(iv.End)}
		}
		a.Intervals = append(a.Intervals, next)
		return nil
	})
}

// EditInterval replaces the interval at index.
func (s *RoutineService) EditInterval(ctx context.Context, date time.Time, name string, index int, iv state.Interval) (*routine.Activity, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		if index < 0 || index >= len(a.Intervals) {
			return fmt.Errorf("%w: %d", state.ErrIntervalIndex, index)
		}
		a.Intervals[index] = state.Interval{Start: clock12(iv.Start), End: clock12(iv.End)}
		return nil
	})
}

// RemoveInterval deletes the interval at index; an activity keeps at least
// one.
func (s *RoutineService) RemoveInterval(ctx context.Context, date time.Time, name string, index int) (*routine.Activity, error) {
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		if index < 0 || index >= len(a.Intervals) {
			return fmt.Errorf("%w: %d", state.ErrIntervalIndex, index)
		}
		if len(a.Intervals) == 1 {
			return fmt.Errorf("app: %q needs at least one interval", name)
		}
		a.Intervals = append(a.Intervals[:index], a.Intervals[index+1:]...)
		return nil
	})
}

// Timer applies a stopwatch action to an activity.
func (s *RoutineService) Timer(ctx context.Context, date time.Time, name, action string) (*routine.Activity, error) {
	now := s.now()
	return s.updateActivity(ctx, date, name, func(a *routine.Activity) error {
		switch strings.ToLower(action) {
		case TimerStart:
			return a.Timer.Start(now)
		case TimerPause:
			return a.Timer.Pause(now)
		case TimerResume:
			return a.Timer.Resume(now)
		case TimerStop:
			return a.Timer.Stop(now)
		case TimerReset:
			a.Timer.Reset()
			return nil
		default:
			return fmt.Errorf("app: unknown timer action %q", action)
		}
	})
}

// Week reports the Monday-start week containing date.
func (s *RoutineService) Week(ctx context.Context, date time.Time) ([]routine.DayReport, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Week(date, s.now()), nil
}

// Window reports the days ending at end, inclusive.
func (s *RoutineService) Window(ctx context.Context, end time.Time, days int) ([]routine.DayReport, error) {
	if days <= 0 {
		return nil, fmt.Errorf("app: window must cover at least one day")
	}
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Window(end.AddDate(0, 0, -(days-1)), days, s.now()), nil
}

// Analytics aggregates every recorded day.
func (s *RoutineService) Analytics(ctx context.Context) (routine.Analytics, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return routine.Analytics{}, err
	}
	return doc.Analytics(s.now()), nil
}

// AddHabit registers a new habit.
func (s *RoutineService) AddHabit(ctx context.Context, name, frequency string, target int, notes string) (*routine.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("app: habit name is required")
	}
	h, err := routine.NewHabit(frequency, target, notes, s.now())
	if err != nil {
		return nil, err
	}
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Habits.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrHabitExists, name)
	}
	doc.Habits.Set(name, h)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return h, nil
}

// RemoveHabit deletes a habit and its history.
func (s *RoutineService) RemoveHabit(ctx context.Context, name string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if !doc.Habits.Has(name) {
		return fmt.Errorf("%w: %q", ErrHabitNotFound, name)
	}
	doc.Habits.Delete(name)
	return s.save(doc)
}

// CheckHabit records whether a habit was done on date.
func (s *RoutineService) CheckHabit(ctx context.Context, name string, date time.Time, done bool) (*routine.Habit, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	h, ok := doc.Habits.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHabitNotFound, name)
	}
	h.Check(date, done)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return h, nil
}

// HabitView is a habit with its streaks as of a date.
type HabitView struct {
	Name          string `json:"name" yaml:"name"`
	Frequency     string `json:"frequency" yaml:"frequency"`
	Target        int    `json:"target" yaml:"target"`
	DoneToday     bool   `json:"done_today" yaml:"done_today"`
	CurrentStreak int    `json:"current_streak" yaml:"current_streak"`
	LongestStreak int    `json:"longest_streak" yaml:"longest_streak"`
	// DoneInWindow counts completions in the reporting window.
	DoneInWindow int    `json:"done_in_window" yaml:"done_in_window"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Habits lists habits with streaks as of today and completions over the
// window of days ending today.
func (s *RoutineService) Habits(ctx context.Context, today time.Time, window int) ([]HabitView, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if window <= 0 {
		window = 7
	}
	out := make([]HabitView, 0, doc.Habits.Len())
	doc.Habits.Each(func(name string, h *routine.Habit) bool {
		out = append(out, HabitView{
			Name:          name,
			Frequency:     h.Frequency,
			Target:        h.Target,
			DoneToday:     h.Done(today),
			CurrentStreak: h.CurrentStreak(today),
			LongestStreak: h.LongestStreak(),
			DoneInWindow:  h.DoneIn(today.AddDate(0, 0, -(window-1)), window),
			Notes:         h.Notes,
		})
		return true
	})
	return out, nil
}
