package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/store"
)

type memoryPersistence struct {
	mu     sync.Mutex
	docs   map[string][]byte
	writes int
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{docs: make(map[string][]byte)}
}

func (m *memoryPersistence) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *memoryPersistence) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *memoryPersistence) Path(key string) string {
	return "mem://" + key
}

func (m *memoryPersistence) Keys(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

const outlineText = `Study Plan
18 January (2 lectures)
A
B
19 January (2 lectures)
C
D
`

var fixedNow = time.Date(2026, time.January, 20, 10, 15, 0, 0, time.Local)

func newService(text string) (*Service, *memoryPersistence) {
	mp := newMemoryPersistence()
	return &Service{
		Persistence: mp,
		Outline:     &outline.TextLoader{Text: text},
		Now:         func() time.Time { return fixedNow },
	}, mp
}

func dayItems(t *testing.T, ws *Workspace, day string) []string {
	t.Helper()
	d, ok := ws.Plan.Day(day)
	require.True(t, ok, "missing day %s", day)
	return d.Items
}

func TestLoadEmptyState(t *testing.T) {
	svc, _ := newService(outlineText)
	ws, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"18 January", "19 January"}, ws.Plan.Labels())
	assert.Equal(t, 0, ws.Doc.Days.Len())
	assert.Empty(t, ws.Warnings)
}

func TestLoadMissingOutlineDegrades(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp, Outline: &outline.FileLoader{Path: "/nonexistent/plan.txt"}}
	ws, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ws.Plan.Len())
	require.Len(t, ws.Warnings, 1)
}

func TestLoadCorruptStateDegrades(t *testing.T) {
	svc, mp := newService(outlineText)
	mp.docs[store.PlanKey] = []byte(`{"18 January": [`)
	ws, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, dayItems(t, ws, "18 January"))
	require.Len(t, ws.Warnings, 1)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetNotes(ctx, "18 January", "A", "gone soon")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, "18 january", "A"))

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, dayItems(t, ws, "18 January"))
	d, _ := ws.Plan.Day("18 January")
	assert.Equal(t, 1, d.DeclaredCount)
	_, ok := ws.Doc.Item("18 January", "A")
	assert.False(t, ok)

	err = svc.RemoveItem(ctx, "18 January", "A")
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestRemoveAfterMoveIsRejected(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)
	_, err = svc.MoveItem(ctx, "A", "19 January")
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, "19 January", "A")
	assert.True(t, errors.Is(err, ErrEditCancelled), "got %v", err)

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D", "A"}, dayItems(t, ws, "19 January"))
	it, ok := ws.Doc.Item("19 January", "A")
	require.True(t, ok)
	assert.True(t, it.Study)
	_, removed := ws.Doc.Overrides.Remove.Get("19 January")
	assert.False(t, removed)
}

func TestReAddAfterRemoveIsRejected(t *testing.T) {
	svc, mp := newService(outlineText)
	ctx := context.Background()

	require.NoError(t, svc.RemoveItem(ctx, "18 January", "A"))
	writes := mp.writes

	_, err := svc.AddItem(ctx, "18 January", "A")
	assert.True(t, errors.Is(err, ErrEditCancelled), "got %v", err)
	assert.Equal(t, writes, mp.writes)

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, dayItems(t, ws, "18 January"))
	_, ok := ws.Doc.Item("18 January", "A")
	assert.False(t, ok)
}

func TestAddItemCreatesDefaultRecord(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	it, err := svc.AddItem(ctx, "21 January", "E")
	require.NoError(t, err)
	assert.Equal(t, "21 January", it.AssignedDay)

	_, err = svc.AddItem(ctx, "21 January", "E")
	require.NoError(t, err)

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, dayItems(t, ws, "21 January"))
	_, ok := ws.Doc.Item("21 January", "E")
	assert.True(t, ok)

	_, err = svc.AddItem(ctx, "January", "F")
	assert.Error(t, err)
	_, err = svc.AddItem(ctx, "21 January", "  ")
	assert.Error(t, err)
}

func TestMoveItemCarriesRecord(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)

	it, err := svc.MoveItem(ctx, "A", "19 January")
	require.NoError(t, err)
	assert.True(t, it.Study)
	assert.Equal(t, "19 January", it.AssignedDay)

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, dayItems(t, ws, "18 January"))
	assert.Equal(t, []string{"C", "D", "A"}, dayItems(t, ws, "19 January"))
	moved, ok := ws.Doc.Item("19 January", "A")
	require.True(t, ok)
	assert.True(t, moved.Study)

	// the moved item is editable on its new day
	_, err = svc.SetExam(ctx, "19 January", "A", true)
	require.NoError(t, err)

	_, err = svc.MoveItem(ctx, "Z", "19 January")
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestCompletionStampsOnce(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)
	it, err := svc.SetExam(ctx, "18 January", "A", true)
	require.NoError(t, err)
	require.NotNil(t, it.CompletedOn)
	assert.Equal(t, "2026-01-20 10:15", it.CompletedOn.String())

	svc.Now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	it, err = svc.SetNotes(ctx, "18 January", "A", "done")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-20 10:15", it.CompletedOn.String())
}

func TestIntervalsAndDaySummary(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.EditInterval(ctx, "18 January", "A", 0, state.Interval{Start: "10:00 PM", End: "11:00 PM"})
	require.NoError(t, err)
	it, err := svc.AddInterval(ctx, "18 January", "A", state.Interval{Start: "23:30", End: "00:30"})
	require.NoError(t, err)
	assert.Equal(t, []state.Interval{{Start: "22:00", End: "23:00"}, {Start: "23:30", End: "00:30"}}, it.Intervals)
	assert.Equal(t, 120, it.Minutes())

	it, err = svc.AddPresetInterval(ctx, "18 January", "A", 45)
	require.NoError(t, err)
	assert.Equal(t, state.Interval{Start: "00:45", End: "01:30"}, it.Intervals[2])

	it, err = svc.RemoveInterval(ctx, "18 January", "A", 2)
	require.NoError(t, err)
	assert.Len(t, it.Intervals, 2)

	_, err = svc.AddInterval(ctx, "18 January", "A", state.Interval{Start: "nope", End: "01:00"})
	assert.Error(t, err)

	sum, err := svc.Day(ctx, "18 January", "")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Items)
	assert.Equal(t, 120, sum.Minutes)
	assert.Equal(t, 0.0, sum.Percent)

	_, err = svc.Day(ctx, "30 January", "")
	assert.True(t, errors.Is(err, ErrDayNotFound))
}

func TestEditUnknownItem(t *testing.T) {
	svc, _ := newService(outlineText)
	_, err := svc.SetStudy(context.Background(), "18 January", "nope", true)
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestSummaryAndReset(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)
	_, err = svc.SetExam(ctx, "18 January", "A", true)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, "19 January", "D"))

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalItems)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 2, sum.Remaining)

	require.NoError(t, svc.ResetOverrides(ctx))
	ov, err := svc.Overrides(ctx)
	require.NoError(t, err)
	assert.True(t, ov.IsEmpty())

	sum, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalItems)
	assert.Equal(t, 1, sum.Completed)
}

func TestConfiguredRedistribution(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)
	_, err = svc.SetExam(ctx, "18 January", "A", true)
	require.NoError(t, err)

	svc.Config = &store.FileConfig{Redistribute: store.RedistributeConfig{
		Enabled: true, Start: 25, End: 26, Month: "January", SkipCompleted: true,
	}}

	ws, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"25 January", "26 January", "18 January"}, ws.Plan.Labels())
	assert.Equal(t, []string{"B", "C"}, dayItems(t, ws, "25 January"))
	assert.Equal(t, []string{"D"}, dayItems(t, ws, "26 January"))
	assert.Equal(t, []string{"A"}, dayItems(t, ws, "18 January"))

	svc.Config.Redistribute.End = 20
	_, err = svc.Load(ctx)
	assert.True(t, errors.Is(err, plan.ErrInvalidRange))
}

func TestPreviewDoesNotSave(t *testing.T) {
	svc, mp := newService(outlineText)
	got, err := svc.Preview(context.Background(), plan.Range{Start: 1, End: 3, Month: time.February}, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 February", "2 February", "3 February"}, got.Labels())
	assert.Equal(t, 0, mp.writes)
}

func TestReport(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()

	for _, label := range []string{"A", "B"} {
		_, err := svc.SetStudy(ctx, "18 January", label, true)
		require.NoError(t, err)
		_, err = svc.SetExam(ctx, "18 January", label, true)
		require.NoError(t, err)
	}

	res, err := svc.Report(ctx, fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "18 January", res.Sections[0].Day)

	res, err = svc.Report(ctx, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
}

func TestOverdue(t *testing.T) {
	svc, _ := newService(outlineText)
	ctx := context.Background()
	_, err := svc.SetStudy(ctx, "18 January", "A", true)
	require.NoError(t, err)
	_, err = svc.SetExam(ctx, "18 January", "A", true)
	require.NoError(t, err)

	got, err := svc.Overdue(ctx, time.Date(2026, time.January, 19, 12, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, OverdueItem{Day: "18 January", Label: "B", DaysLate: 1}, got[0])
}
