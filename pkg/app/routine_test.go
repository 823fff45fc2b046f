package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/cram/pkg/routine"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/store"
)

func newRoutineService(now *time.Time) (*RoutineService, *memoryPersistence) {
	mp := newMemoryPersistence()
	return &RoutineService{
		Persistence: mp,
		Now:         func() time.Time { return *now },
	}, mp
}

func TestRoutineActivityFlow(t *testing.T) {
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.Local)
	svc, _ := newRoutineService(&now)
	ctx := context.Background()

	a, err := svc.AddActivity(ctx, now, "Read", "Study", nil)
	require.NoError(t, err)
	assert.Equal(t, []state.Interval{{Start: "10:00 AM", End: "11:00 AM"}}, a.Intervals)

	_, err = svc.AddActivity(ctx, now, "Read", "Study", nil)
	assert.True(t, errors.Is(err, ErrActivityExists))
	_, err = svc.AddActivity(ctx, now, "Nap", "Snoozing", nil)
	assert.Error(t, err)

	_, err = svc.Timer(ctx, now, "Read", TimerStart)
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	a, err = svc.Timer(ctx, now, "Read", TimerPause)
	require.NoError(t, err)
	assert.Equal(t, routine.Paused, a.Timer.State)
	assert.InDelta(t, 1800, a.Timer.AccumulatedSeconds, 0.001)

	_, err = svc.Timer(ctx, now, "Read", "rewind")
	assert.Error(t, err)

	a, err = svc.SetCompleted(ctx, now, "Read", true)
	require.NoError(t, err)
	require.NotNil(t, a.LoggedOn)

	day, err := svc.Day(ctx, now)
	require.NoError(t, err)
	require.Len(t, day.Activities, 1)
	assert.Equal(t, "Read", day.Activities[0].Name)
	assert.Equal(t, 1, day.Report.Completed)
	assert.InDelta(t, 1.0, day.Report.PlannedHours, 0.001)
	assert.InDelta(t, 0.5, day.Report.ActualHours, 0.001)
}

func TestRoutineMissedActivity(t *testing.T) {
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.Local)
	svc, _ := newRoutineService(&now)
	ctx := context.Background()
	yesterday := now.AddDate(0, 0, -1)

	a, err := svc.AddActivity(ctx, yesterday, "Gym", "Exercise", &state.Interval{Start: "07:00", End: "08:00"})
	require.NoError(t, err)
	assert.Equal(t, state.Interval{Start: "7:00 AM", End: "8:00 AM"}, a.Intervals[0])

	_, err = svc.SetCompleted(ctx, yesterday, "Gym", true)
	assert.True(t, errors.Is(err, routine.ErrMissed))

	day, err := svc.Day(ctx, yesterday)
	require.NoError(t, err)
	assert.Equal(t, routine.Missed, day.Activities[0].Status)
}

func TestRoutineIntervals(t *testing.T) {
	now := time.Date(2026, time.March, 12, 8, 0, 0, 0, time.Local)
	svc, _ := newRoutineService(&now)
	ctx := context.Background()
	tomorrow := now.AddDate(0, 0, 1)

	a, err := svc.AddActivity(ctx, tomorrow, "Write", "", nil)
	require.NoError(t, err)
	assert.Equal(t, routine.DefaultCategory, a.Category)
	assert.Equal(t, "9:00 AM", a.Intervals[0].Start)

	a, err = svc.AddInterval(ctx, tomorrow, "Write", nil)
	require.NoError(t, err)
	assert.Equal(t, state.Interval{Start: "10:00 AM", End: "11:00 AM"}, a.Intervals[1])

	a, err = svc.EditInterval(ctx, tomorrow, "Write", 1, state.Interval{Start: "13:00", End: "14:30"})
	require.NoError(t, err)
	assert.Equal(t, state.Interval{Start: "1:00 PM", End: "2:30 PM"}, a.Intervals[1])

	_, err = svc.RemoveInterval(ctx, tomorrow, "Write", 0)
	require.NoError(t, err)
	_, err = svc.RemoveInterval(ctx, tomorrow, "Write", 0)
	assert.Error(t, err)

	require.NoError(t, svc.RemoveActivity(ctx, tomorrow, "Write"))
	err = svc.RemoveActivity(ctx, tomorrow, "Write")
	assert.True(t, errors.Is(err, ErrActivityNotFound))
}

func TestRoutineCorruptDocument(t *testing.T) {
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.Local)
	svc, mp := newRoutineService(&now)
	mp.docs[store.RoutineKey] = []byte("{not json")

	doc, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Routines.Len())
}

func TestRoutineWeek(t *testing.T) {
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.Local)
	svc, _ := newRoutineService(&now)
	ctx := context.Background()

	week, err := svc.Week(ctx, now)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, "2026-03-09", week[0].Date)

	win, err := svc.Window(ctx, now, 3)
	require.NoError(t, err)
	require.Len(t, win, 3)
	assert.Equal(t, "2026-03-11", win[2].Date)

	_, err = svc.Window(ctx, now, 0)
	assert.Error(t, err)
}

func TestHabits(t *testing.T) {
	now := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.Local)
	svc, _ := newRoutineService(&now)
	ctx := context.Background()

	_, err := svc.AddHabit(ctx, "run", routine.Daily, 5, "")
	require.NoError(t, err)
	_, err = svc.AddHabit(ctx, "run", routine.Daily, 1, "")
	assert.True(t, errors.Is(err, ErrHabitExists))

	_, err = svc.CheckHabit(ctx, "run", now.AddDate(0, 0, -1), true)
	require.NoError(t, err)
	_, err = svc.CheckHabit(ctx, "run", now, true)
	require.NoError(t, err)
	_, err = svc.CheckHabit(ctx, "swim", now, true)
	assert.True(t, errors.Is(err, ErrHabitNotFound))

	views, err := svc.Habits(ctx, now, 7)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, HabitView{
		Name:          "run",
		Frequency:     routine.Daily,
		Target:        1,
		DoneToday:     true,
		CurrentStreak: 2,
		LongestStreak: 2,
		DoneInWindow:  2,
	}, views[0])

	require.NoError(t, svc.RemoveHabit(ctx, "run"))
	assert.True(t, errors.Is(svc.RemoveHabit(ctx, "run"), ErrHabitNotFound))
}
