package routine

import (
	"fmt"
	"sort"
	"time"

	"tableflip.dev/cram/pkg/ordered"
)

// Habit frequencies.
const (
	Daily  = "Daily"
	Weekly = "Weekly"
	Custom = "Custom"
)

// Habit is a recurring goal with one completion flag per date.
type Habit struct {
	Frequency   string             `json:"frequency"`
	Target      int                `json:"target"`
	Completions *ordered.Map[bool] `json:"completions"`
	Notes       string             `json:"notes"`
	Created     string             `json:"created"`
}

// NewHabit validates the frequency and target. Daily habits always target
// one completion; custom habits target 1 to 7 completions a week.
func NewHabit(frequency string, target int, notes string, created time.Time) (*Habit, error) {
	switch frequency {
	case Daily, "":
		frequency, target = Daily, 1
	case Weekly:
		if target < 1 {
			target = 1
		}
	case Custom:
		if target < 1 || target > 7 {
			return nil, fmt.Errorf("routine: custom target %d outside 1..7", target)
		}
	default:
		return nil, fmt.Errorf("routine: unknown frequency %q", frequency)
	}
	return &Habit{
		Frequency:   frequency,
		Target:      target,
		Completions: ordered.New[bool](),
		Notes:       notes,
		Created:     DateKey(created),
	}, nil
}

func (h *Habit) migrate() {
	if h.Completions == nil {
		h.Completions = ordered.New[bool]()
	}
	if h.Frequency == "" {
		h.Frequency = Daily
	}
	if h.Target < 1 {
		h.Target = 1
	}
}

// Check records whether the habit was done on date.
func (h *Habit) Check(date time.Time, done bool) {
	h.migrate()
	h.Completions.Set(DateKey(date), done)
}

// Done reports whether the habit was done on date.
func (h *Habit) Done(date time.Time) bool {
	v, _ := h.Completions.Get(DateKey(date))
	return v
}

// CurrentStreak counts consecutive calendar days done, ending today. It is
// zero when today is not done.
func (h *Habit) CurrentStreak(today time.Time) int {
	n := 0
	for d := today; h.Done(d); d = d.AddDate(0, 0, -1) {
		n++
	}
	return n
}

// LongestStreak is the longest run of consecutive calendar days done.
func (h *Habit) LongestStreak() int {
	var days []time.Time
	h.Completions.Each(func(key string, done bool) bool {
		if !done {
			return true
		}
		if t, err := ParseDate(key); err == nil {
			days = append(days, t)
		}
		return true
	})
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 0, 0
	for i, d := range days {
		if i > 0 && DateKey(days[i-1].AddDate(0, 0, 1)) == DateKey(d) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// DoneIn counts the days done in [from, from+days).
func (h *Habit) DoneIn(from time.Time, days int) int {
	n := 0
	for i := 0; i < days; i++ {
		if h.Done(from.AddDate(0, 0, i)) {
			n++
		}
	}
	return n
}
