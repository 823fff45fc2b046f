// Package outline holds the parsed study outline: an ordered list of days,
// each with the item labels scheduled on it.
package outline

import (
	"encoding/json"
	"fmt"
)

// Day is one day section of an outline.
type Day struct {
	Label string `json:"day"`
	// DeclaredCount is the count written in the day header. It is advisory;
	// len(Items) is authoritative.
	DeclaredCount int      `json:"count"`
	Items         []string `json:"items"`
}

// Has reports whether label is scheduled on the day.
func (d *Day) Has(label string) bool {
	for _, it := range d.Items {
		if it == label {
			return true
		}
	}
	return false
}

// Mismatch describes a day whose header count disagrees with its items.
type Mismatch struct {
	Day      string `json:"day"`
	Declared int    `json:"declared"`
	Actual   int    `json:"actual"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s declares %d items but lists %d", m.Day, m.Declared, m.Actual)
}

// Outline is an ordered mapping from day label to Day. Insertion order is the
// canonical order for every consumer.
type Outline struct {
	days  []*Day
	index map[string]int
}

// New returns an empty outline.
func New() *Outline {
	return &Outline{index: make(map[string]int)}
}

// Len returns the number of days.
func (o *Outline) Len() int {
	if o == nil {
		return 0
	}
	return len(o.days)
}

// Labels returns the day labels in order.
func (o *Outline) Labels() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.days))
	for i, d := range o.days {
		out[i] = d.Label
	}
	return out
}

// Days returns the days in order. The slice is a copy; the days are shared.
func (o *Outline) Days() []*Day {
	if o == nil {
		return nil
	}
	out := make([]*Day, len(o.days))
	copy(out, o.days)
	return out
}

// Day looks up a day by label.
func (o *Outline) Day(label string) (*Day, bool) {
	if o == nil || o.index == nil {
		return nil, false
	}
	i, ok := o.index[label]
	if !ok {
		return nil, false
	}
	return o.days[i], true
}

// Ensure returns the day with label, appending an empty one if absent.
func (o *Outline) Ensure(label string) *Day {
	if d, ok := o.Day(label); ok {
		return d
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	d := &Day{Label: label, Items: []string{}}
	o.index[label] = len(o.days)
	o.days = append(o.days, d)
	return d
}

// Reset (re)opens a day with the declared count and no items. An existing day
// keeps its position.
func (o *Outline) Reset(label string, declared int) *Day {
	d := o.Ensure(label)
	d.DeclaredCount = declared
	d.Items = []string{}
	return d
}

// Append adds item to the end of the day, creating the day if needed.
func (o *Outline) Append(label, item string) {
	d := o.Ensure(label)
	d.Items = append(d.Items, item)
}

// TotalItems is the number of items across all days.
func (o *Outline) TotalItems() int {
	n := 0
	for _, d := range o.Days() {
		n += len(d.Items)
	}
	return n
}

// Recount sets every day's DeclaredCount to its item count.
func (o *Outline) Recount() {
	for _, d := range o.Days() {
		d.DeclaredCount = len(d.Items)
	}
}

// Prune returns a copy without days that have no items.
func (o *Outline) Prune() *Outline {
	out := New()
	for _, d := range o.Days() {
		if len(d.Items) == 0 {
			continue
		}
		nd := out.Ensure(d.Label)
		nd.DeclaredCount = d.DeclaredCount
		nd.Items = append(nd.Items, d.Items...)
	}
	return out
}

// Clone returns a deep copy.
func (o *Outline) Clone() *Outline {
	out := New()
	for _, d := range o.Days() {
		nd := out.Ensure(d.Label)
		nd.DeclaredCount = d.DeclaredCount
		nd.Items = append(nd.Items, d.Items...)
	}
	return out
}

// Mismatches lists days whose declared count differs from their item count.
func (o *Outline) Mismatches() []Mismatch {
	var out []Mismatch
	for _, d := range o.Days() {
		if d.DeclaredCount != len(d.Items) {
			out = append(out, Mismatch{Day: d.Label, Declared: d.DeclaredCount, Actual: len(d.Items)})
		}
	}
	return out
}

// MarshalJSON encodes the outline as an ordered array of days.
func (o *Outline) MarshalJSON() ([]byte, error) {
	days := o.Days()
	if days == nil {
		days = []*Day{}
	}
	return json.Marshal(days)
}

// UnmarshalJSON decodes an ordered array of days.
func (o *Outline) UnmarshalJSON(data []byte) error {
	var days []*Day
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	o.days = nil
	o.index = make(map[string]int)
	for _, d := range days {
		if d == nil {
			continue
		}
		nd := o.Ensure(d.Label)
		nd.DeclaredCount = d.DeclaredCount
		nd.Items = append(nd.Items, d.Items...)
	}
	return nil
}
