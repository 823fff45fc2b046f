package routine

import (
	"errors"
	"sort"
	"time"

	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/timeutil"
)

// Categories are the activity kinds, in display order.
var Categories = []string{"Work", "Sleep", "Exercise", "Leisure", "Study", "Other"}

// DefaultCategory is assigned to activities without one.
const DefaultCategory = "Other"

// ErrMissed is returned when completing an activity whose window has passed.
var ErrMissed = errors.New("routine: activity was missed")

// Status is where an activity stands relative to now.
type Status string

const (
	Missed    Status = "missed"
	Completed Status = "completed"
	Upcoming  Status = "upcoming"
	Ongoing   Status = "ongoing"
	Planned   Status = "planned"
)

// DefaultStart is the first slot of an empty future day.
const DefaultStart = 9 * 60

// Activity is one planned block of a day's routine.
type Activity struct {
	Completed bool             `json:"completed"`
	Notes     string           `json:"notes"`
	Category  string           `json:"category"`
	Intervals []state.Interval `json:"intervals"`
	LoggedOn  *state.Timestamp `json:"logged_on"`
	Timer     Timer            `json:"timer"`

	// Start and End are the single-interval fields of early documents.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// NewActivity returns an activity planned for iv.
func NewActivity(category string, iv state.Interval) *Activity {
	a := &Activity{
		Category:  category,
		Intervals: []state.Interval{iv},
		Timer:     NewTimer(),
	}
	a.Migrate()
	return a
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Migrate fills fields missing from older records.
func (a *Activity) Migrate() {
	if len(a.Intervals) == 0 {
		if a.Start != "" || a.End != "" {
			a.Intervals = []state.Interval{{Start: a.Start, End: a.End}}
		} else {
			a.Intervals = []state.Interval{{
				Start: timeutil.FormatClock12(DefaultStart),
				End:   timeutil.FormatClock12(DefaultStart + 60),
			}}
		}
	}
	a.Start, a.End = "", ""
	if a.Category == "" {
		a.Category = DefaultCategory
	}
	if a.Timer.State == "" {
		a.Timer.State = Idle
	}
	if a.LoggedOn != nil && a.LoggedOn.IsZero() {
		a.LoggedOn = nil
	}
}

// Bounds returns the earliest start and latest end, in minutes.
func (a *Activity) Bounds() (first, last int) {
	for i, iv := range a.Intervals {
		s, e := timeutil.ClockMinutes(iv.Start), timeutil.ClockMinutes(iv.End)
		if i == 0 || s < first {
			first = s
		}
		if i == 0 || e > last {
			last = e
		}
	}
	return first, last
}

// PlannedMinutes sums the planned intervals.
func (a *Activity) PlannedMinutes() int {
	total := 0
	for _, iv := range a.Intervals {
		total += iv.Minutes()
	}
	return total
}

// Status classifies the activity planned on date as seen at now.
func (a *Activity) Status(date, now time.Time) Status {
	today := sameDate(date, now)
	nowMin := now.Hour()*60 + now.Minute()
	first, last := a.Bounds()
	switch {
	case dateOnly(date).Before(dateOnly(now)) || (today && last < nowMin):
		if a.Completed {
			return Completed
		}
		return Missed
	case today && first > nowMin:
		return Upcoming
	case today:
		return Ongoing
	default:
		return Planned
	}
}

// SetCompleted toggles completion. The first completion stamps LoggedOn.
// Missed activities cannot be completed.
func (a *Activity) SetCompleted(done bool, date, now time.Time) error {
	if a.Status(date, now) == Missed {
		return ErrMissed
	}
	a.Completed = done
	if done && a.LoggedOn == nil {
		a.LoggedOn = state.NewTimestamp(now)
	}
	return nil
}

// NextInterval proposes an hour-long interval starting where the last one
// ends, with the end rounded up to five minutes.
func (a *Activity) NextInterval() state.Interval {
	start := DefaultStart
	if n := len(a.Intervals); n > 0 {
		start = timeutil.ClockMinutes(a.Intervals[n-1].End)
	}
	end := timeutil.RoundUp(start+60, 5)
	return state.Interval{Start: timeutil.FormatClock12(start), End: timeutil.FormatClock12(end)}
}

// Named pairs an activity with its name.
type Named struct {
	Name string
	*Activity
}

// Sorted returns the day's activities ordered by earliest start.
func Sorted(day *Day) []Named {
	var out []Named
	day.Each(func(name string, a *Activity) bool {
		out = append(out, Named{Name: name, Activity: a})
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		fi, _ := out[i].Bounds()
		fj, _ := out[j].Bounds()
		return fi < fj
	})
	return out
}

// SuggestSlot proposes the interval for a new activity: it starts at the
// latest planned end (or now, for today, when later), rounded up to five
// minutes, and lasts an hour.
func SuggestSlot(day *Day, date, now time.Time) state.Interval {
	start, seen := 0, false
	day.Each(func(_ string, a *Activity) bool {
		for _, iv := range a.Intervals {
			if e := timeutil.ClockMinutes(iv.End); !seen || e > start {
				start, seen = e, true
			}
		}
		return true
	})
	nowMin := now.Hour()*60 + now.Minute()
	switch {
	case sameDate(date, now) && (!seen || nowMin > start):
		start = nowMin
	case !seen:
		start = DefaultStart
	}
	start = timeutil.RoundUp(start, 5)
	end := timeutil.RoundUp(start+60, 5)
	return state.Interval{Start: timeutil.FormatClock12(start), End: timeutil.FormatClock12(end)}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}
