// Package plan layers user edits over a parsed outline and reshapes outlines
// across a range of days.
package plan

import (
	"encoding/json"

	"tableflip.dev/cram/pkg/ordered"
)

// Overrides is the sparse edit log applied on top of an outline. Entries only
// accumulate; nothing is compacted until the plan is regenerated.
type Overrides struct {
	// Add maps a day to labels appended to it.
	Add *ordered.Map[[]string] `json:"add"`
	// Remove maps a day to labels filtered out of it. It is a set persisted
	// as an array.
	Remove *ordered.Map[[]string] `json:"remove"`
	// Move maps a label to its destination day.
	Move *ordered.Map[string] `json:"move"`
}

// NewOverrides returns an empty edit log.
func NewOverrides() *Overrides {
	return &Overrides{
		Add:    ordered.New[[]string](),
		Remove: ordered.New[[]string](),
		Move:   ordered.New[string](),
	}
}

func (o *Overrides) init() {
	if o.Add == nil {
		o.Add = ordered.New[[]string]()
	}
	if o.Remove == nil {
		o.Remove = ordered.New[[]string]()
	}
	if o.Move == nil {
		o.Move = ordered.New[string]()
	}
}

// AddItem records label as added to day.
func (o *Overrides) AddItem(day, label string) {
	o.init()
	labels, _ := o.Add.Get(day)
	o.Add.Set(day, append(labels, label))
}

// RemoveItem records label as removed from day. Recording the same removal
// twice keeps a single entry.
func (o *Overrides) RemoveItem(day, label string) {
	o.init()
	labels, _ := o.Remove.Get(day)
	if contains(labels, label) {
		return
	}
	o.Remove.Set(day, append(labels, label))
}

// MoveItem records label as relocated to day. A later move of the same label
// replaces the destination.
func (o *Overrides) MoveItem(label, day string) {
	o.init()
	o.Move.Set(label, day)
}

// IsEmpty reports whether no edits are recorded.
func (o *Overrides) IsEmpty() bool {
	return o == nil || (o.Add.Len() == 0 && o.Remove.Len() == 0 && o.Move.Len() == 0)
}

// Clone returns a deep copy.
func (o *Overrides) Clone() *Overrides {
	out := NewOverrides()
	if o == nil {
		return out
	}
	o.Add.Each(func(day string, labels []string) bool {
		out.Add.Set(day, append([]string(nil), labels...))
		return true
	})
	o.Remove.Each(func(day string, labels []string) bool {
		out.Remove.Set(day, append([]string(nil), labels...))
		return true
	})
	o.Move.Each(func(label, day string) bool {
		out.Move.Set(label, day)
		return true
	})
	return out
}

// UnmarshalJSON tolerates missing sections.
func (o *Overrides) UnmarshalJSON(data []byte) error {
	type raw Overrides
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*o = Overrides(r)
	o.init()
	return nil
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
