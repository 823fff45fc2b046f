// Package state holds the per-item records users edit and the JSON document
// they persist in.
package state

import (
	"errors"
	"fmt"
	"time"

	"tableflip.dev/cram/pkg/timeutil"
)

// CurrentVersion is the record shape written by this package. Version 0
// records predate intervals and assigned days.
const CurrentVersion = 1

// ErrIntervalIndex is returned for an interval position that does not exist.
var ErrIntervalIndex = errors.New("state: no such interval")

// Interval is a wall-clock start/end pair. Either "15:04" or "3:04 PM" is
// accepted; malformed values count as 00:00.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultInterval is the placeholder every new record starts with.
var DefaultInterval = Interval{Start: "00:00", End: "00:00"}

// Minutes is the interval length, crossing midnight when End < Start.
func (iv Interval) Minutes() int {
	return timeutil.IntervalMinutes(iv.Start, iv.End)
}

// Validate reports malformed clock strings.
func (iv Interval) Validate() error {
	if _, err := timeutil.ParseClock(iv.Start); err != nil {
		return fmt.Errorf("state: start: %w", err)
	}
	if _, err := timeutil.ParseClock(iv.End); err != nil {
		return fmt.Errorf("state: end: %w", err)
	}
	return nil
}

// Normalize rewrites both ends as 24-hour "HH:MM".
func (iv Interval) Normalize() Interval {
	return Interval{
		Start: timeutil.FormatClock24(timeutil.ClockMinutes(iv.Start)),
		End:   timeutil.FormatClock24(timeutil.ClockMinutes(iv.End)),
	}
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s-%s", iv.Start, iv.End)
}

// Item is the mutable record kept for one (day, label) pair.
type Item struct {
	Version     int        `json:"version"`
	Study       bool       `json:"study"`
	Exam        bool       `json:"exam"`
	Notes       string     `json:"notes"`
	Intervals   []Interval `json:"intervals"`
	Link        string     `json:"link"`
	CompletedOn *Timestamp `json:"completed_on"`
	AssignedDay string     `json:"assigned_day"`

	// Start and End are the single-interval fields of version 0 records.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// NewItem returns the default record for an item scheduled on day.
func NewItem(day string) *Item {
	return &Item{
		Version:     CurrentVersion,
		Intervals:   []Interval{DefaultInterval},
		AssignedDay: day,
	}
}

// Migrate brings the record up to CurrentVersion, filling fields that older
// records lack.
func (it *Item) Migrate(day string) {
	if it.Version < 1 {
		if len(it.Intervals) == 0 && (it.Start != "" || it.End != "") {
			it.Intervals = []Interval{{Start: it.Start, End: it.End}}
		}
		it.Start, it.End = "", ""
	}
	if len(it.Intervals) == 0 {
		it.Intervals = []Interval{DefaultInterval}
	}
	for i := range it.Intervals {
		if it.Intervals[i].Start == "" {
			it.Intervals[i].Start = DefaultInterval.Start
		}
		if it.Intervals[i].End == "" {
			it.Intervals[i].End = DefaultInterval.End
		}
	}
	if it.AssignedDay == "" {
		it.AssignedDay = day
	}
	if it.CompletedOn != nil && it.CompletedOn.IsZero() {
		it.CompletedOn = nil
	}
	it.Version = CurrentVersion
}

// Complete reports whether both milestones are done.
func (it *Item) Complete() bool {
	return it.Study && it.Exam
}

// MarkCompleted stamps CompletedOn the first time the item is complete. It
// reports whether a stamp was written. The stamp is never cleared.
func (it *Item) MarkCompleted(now time.Time) bool {
	if !it.Complete() || (it.CompletedOn != nil && !it.CompletedOn.IsZero()) {
		return false
	}
	it.CompletedOn = NewTimestamp(now)
	return true
}

// Minutes is the total time across all intervals.
func (it *Item) Minutes() int {
	total := 0
	for _, iv := range it.Intervals {
		total += iv.Minutes()
	}
	return total
}

// AddInterval appends iv.
func (it *Item) AddInterval(iv Interval) {
	it.Intervals = append(it.Intervals, iv)
}

// EditInterval replaces the interval at i.
func (it *Item) EditInterval(i int, iv Interval) error {
	if i < 0 || i >= len(it.Intervals) {
		return fmt.Errorf("%w: %d", ErrIntervalIndex, i)
	}
	it.Intervals[i] = iv
	return nil
}

// RemoveInterval deletes the interval at i. The last interval is reset to
// the default instead of removed.
func (it *Item) RemoveInterval(i int) error {
	if i < 0 || i >= len(it.Intervals) {
		return fmt.Errorf("%w: %d", ErrIntervalIndex, i)
	}
	if len(it.Intervals) == 1 {
		it.Intervals[0] = DefaultInterval
		return nil
	}
	it.Intervals = append(it.Intervals[:i], it.Intervals[i+1:]...)
	return nil
}

// NextInterval proposes an interval of length minutes starting gap minutes
// after the last recorded one.
func (it *Item) NextInterval(gap, length int) Interval {
	last := 0
	if n := len(it.Intervals); n > 0 {
		last = timeutil.ClockMinutes(it.Intervals[n-1].End)
	}
	start, end := timeutil.NextSlot(last, gap, length)
	return Interval{Start: timeutil.FormatClock24(start), End: timeutil.FormatClock24(end)}
}
