// Package routine tracks daily activities with planned intervals and a
// stopwatch, plus habits with daily completions.
package routine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/cram/pkg/ordered"
)

// DateLayout keys routine days and habit completions.
const DateLayout = "2006-01-02"

// ErrCorrupt is returned when a persisted document cannot be decoded.
var ErrCorrupt = errors.New("routine: corrupt document")

// Day maps activity names to activities.
type Day = ordered.Map[*Activity]

// Document is the persisted routine tracker.
type Document struct {
	Routines *ordered.Map[*Day]   `json:"routines"`
	Habits   *ordered.Map[*Habit] `json:"habits"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Routines: ordered.New[*Day](),
		Habits:   ordered.New[*Habit](),
	}
}

// DateKey formats t as a routine day key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a routine day key in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("routine: invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Decode parses a persisted document. A document without a "routines" key
// is the early layout where every top-level key is a date. Invalid input
// yields an empty document and an error wrapping ErrCorrupt.
func Decode(data []byte) (*Document, error) {
	doc := NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	legacy := true
	if err := ordered.Fields(data, func(key string, _ []byte) error {
		if key == "routines" {
			legacy = false
		}
		return nil
	}); err != nil {
		return NewDocument(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	err := ordered.Fields(data, func(key string, raw []byte) error {
		switch {
		case key == "habits":
			return json.Unmarshal(raw, doc.Habits)
		case key == "routines" && !legacy:
			return json.Unmarshal(raw, doc.Routines)
		case legacy:
			day := ordered.New[*Activity]()
			if err := json.Unmarshal(raw, day); err != nil {
				return fmt.Errorf("day %q: %w", key, err)
			}
			doc.Routines.Set(key, day)
		}
		return nil
	})
	if err != nil {
		return NewDocument(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	doc.migrate()
	return doc, nil
}

func (d *Document) migrate() {
	d.Routines.Each(func(date string, day *Day) bool {
		if day == nil {
			d.Routines.Set(date, ordered.New[*Activity]())
			return true
		}
		day.Each(func(name string, a *Activity) bool {
			if a == nil {
				a = &Activity{}
				day.Set(name, a)
			}
			a.Migrate()
			return true
		})
		return true
	})
	d.Habits.Each(func(name string, h *Habit) bool {
		if h == nil {
			h = &Habit{}
			d.Habits.Set(name, h)
		}
		h.migrate()
		return true
	})
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("routine: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Day returns the routine for date.
func (d *Document) Day(date string) (*Day, bool) {
	return d.Routines.Get(date)
}

// EnsureDay returns the routine for date, creating it if absent.
func (d *Document) EnsureDay(date string) *Day {
	if day, ok := d.Routines.Get(date); ok {
		return day
	}
	day := ordered.New[*Activity]()
	d.Routines.Set(date, day)
	return day
}

// Activity looks up one activity.
func (d *Document) Activity(date, name string) (*Activity, bool) {
	day, ok := d.Day(date)
	if !ok {
		return nil, false
	}
	return day.Get(name)
}
