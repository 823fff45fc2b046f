package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemDefaults(t *testing.T) {
	it := NewItem("18 January")
	data, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": 1,
		"study": false,
		"exam": false,
		"notes": "",
		"intervals": [{"start": "00:00", "end": "00:00"}],
		"link": "",
		"completed_on": null,
		"assigned_day": "18 January"
	}`, string(data))
	assert.Equal(t, 0, it.Minutes())
	assert.False(t, it.Complete())
}

func TestItemMinutesAcrossMidnight(t *testing.T) {
	it := NewItem("1 May")
	it.Intervals = []Interval{{Start: "22:00", End: "23:00"}, {Start: "23:30", End: "00:30"}}
	assert.Equal(t, 120, it.Minutes())
}

func TestMalformedIntervalCountsAsMidnight(t *testing.T) {
	iv := Interval{Start: "bogus", End: "01:00"}
	assert.Equal(t, 60, iv.Minutes())
	assert.Error(t, iv.Validate())
	assert.Equal(t, Interval{Start: "00:00", End: "01:00"}, iv.Normalize())
}

func TestMarkCompletedStampsOnce(t *testing.T) {
	it := NewItem("1 May")
	now := time.Date(2026, 1, 18, 9, 30, 12, 0, time.Local)

	assert.False(t, it.MarkCompleted(now))
	it.Study, it.Exam = true, true
	require.True(t, it.MarkCompleted(now))
	assert.Equal(t, "2026-01-18 09:30", it.CompletedOn.String())

	assert.False(t, it.MarkCompleted(now.Add(time.Hour)))
	assert.Equal(t, "2026-01-18 09:30", it.CompletedOn.String())

	it.Exam = false
	assert.NotNil(t, it.CompletedOn)
}

func TestIntervalEditing(t *testing.T) {
	it := NewItem("1 May")
	it.AddInterval(Interval{Start: "10:00", End: "10:30"})
	require.NoError(t, it.EditInterval(0, Interval{Start: "09:00", End: "09:45"}))
	assert.Equal(t, 75, it.Minutes())

	next := it.NextInterval(15, 30)
	assert.Equal(t, Interval{Start: "10:45", End: "11:15"}, next)

	require.NoError(t, it.RemoveInterval(0))
	require.NoError(t, it.RemoveInterval(0))
	assert.Equal(t, []Interval{DefaultInterval}, it.Intervals)

	err := it.RemoveInterval(3)
	assert.True(t, errors.Is(err, ErrIntervalIndex))
	assert.True(t, errors.Is(it.EditInterval(-1, DefaultInterval), ErrIntervalIndex))
}

func TestDecodeLegacyDocument(t *testing.T) {
	doc, err := Decode([]byte(`{
		"18 January": {
			"A": {"study": true, "exam": true, "notes": "n", "start": "22:00", "end": "23:30", "link": "", "completed_on": "2026-01-18 10:00"},
			"B": {"study": false, "exam": false}
		},
		"overrides": {"remove": {"18 January": ["C"]}}
	}`))
	require.NoError(t, err)

	a, ok := doc.Item("18 January", "A")
	require.True(t, ok)
	assert.Equal(t, CurrentVersion, a.Version)
	assert.Equal(t, []Interval{{Start: "22:00", End: "23:30"}}, a.Intervals)
	assert.Equal(t, "18 January", a.AssignedDay)
	assert.Empty(t, a.Start)
	assert.Equal(t, 90, a.Minutes())
	assert.Equal(t, "2026-01-18 10:00", a.CompletedOn.String())

	b, ok := doc.Item("18 January", "B")
	require.True(t, ok)
	assert.Equal(t, []Interval{DefaultInterval}, b.Intervals)
	assert.Nil(t, b.CompletedOn)

	assert.Equal(t, []string{"18 January"}, doc.Overrides.Remove.Keys())
	assert.Equal(t, 0, doc.Overrides.Add.Len())
	assert.True(t, doc.IsCompleted("A"))
	assert.False(t, doc.IsCompleted("B"))
}

func TestDecodeCorrupt(t *testing.T) {
	doc, err := Decode([]byte(`{"18 January": {`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
	require.NotNil(t, doc)
	assert.Equal(t, 0, doc.Days.Len())
	assert.True(t, doc.Overrides.IsEmpty())

	doc, err = Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Days.Len())
}

func TestEncodeRoundTripKeepsOrder(t *testing.T) {
	doc := NewDocument()
	doc.Ensure("19 January", "Z")
	doc.Ensure("18 January", "A").Notes = "first"
	doc.Overrides.MoveItem("Z", "18 January")

	data, err := doc.Encode()
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"19 January", "18 January"}, back.Days.Keys())
	a, ok := back.Item("18 January", "A")
	require.True(t, ok)
	assert.Equal(t, "first", a.Notes)
	dest, _ := back.Overrides.Move.Get("Z")
	assert.Equal(t, "18 January", dest)
}

func TestRelocate(t *testing.T) {
	doc := NewDocument()
	doc.Ensure("1 May", "A").Notes = "keep me"

	it := doc.Relocate("A", "1 May", "3 May")
	assert.Equal(t, "3 May", it.AssignedDay)
	assert.Equal(t, "keep me", it.Notes)
	_, ok := doc.Item("1 May", "A")
	assert.False(t, ok)
	moved, ok := doc.Item("3 May", "A")
	require.True(t, ok)
	assert.Same(t, it, moved)

	fresh := doc.Relocate("B", "1 May", "3 May")
	assert.Equal(t, "3 May", fresh.AssignedDay)
	assert.Equal(t, []Interval{DefaultInterval}, fresh.Intervals)
}

func TestCompletedAndStamp(t *testing.T) {
	doc := NewDocument()
	a := doc.Ensure("1 May", "A")
	a.Study, a.Exam = true, true
	doc.Ensure("1 May", "B").Study = true

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.Local)
	assert.Equal(t, 1, doc.StampCompleted(now))
	assert.Equal(t, 0, doc.StampCompleted(now))

	done := doc.Completed()
	require.Len(t, done, 1)
	assert.Equal(t, "A", done[0].Label)
	require.NotNil(t, done[0].CompletedOn)
	assert.True(t, done[0].CompletedOn.Equal(now))
}

func TestDelete(t *testing.T) {
	doc := NewDocument()
	doc.Ensure("1 May", "A")
	assert.True(t, doc.Delete("1 May", "A"))
	assert.False(t, doc.Delete("1 May", "A"))
	assert.False(t, doc.Delete("2 May", "A"))
}
