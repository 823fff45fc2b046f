package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/cram/pkg/ordered"
	"tableflip.dev/cram/pkg/plan"
)

// OverridesKey is the reserved top-level key holding the edit log. Every
// other top-level key is a day.
const OverridesKey = "overrides"

// ErrCorrupt is returned when a persisted document cannot be decoded.
var ErrCorrupt = errors.New("state: corrupt document")

// Records maps item labels to their records for one day.
type Records = ordered.Map[*Item]

// Document is the persisted state: item records keyed by day and label,
// plus the override log.
type Document struct {
	Days      *ordered.Map[*Records]
	Overrides *plan.Overrides
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Days:      ordered.New[*Records](),
		Overrides: plan.NewOverrides(),
	}
}

// Decode parses a persisted document. Missing sections are treated as empty
// and old records are migrated. Invalid input yields an empty document and an
// error wrapping ErrCorrupt, so callers can warn and carry on.
func Decode(data []byte) (*Document, error) {
	doc := NewDocument()
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	err := ordered.Fields(data, func(key string, raw []byte) error {
		if key == OverridesKey {
			ov := plan.NewOverrides()
			if err := json.Unmarshal(raw, ov); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			doc.Overrides = ov
			return nil
		}
		recs := ordered.New[*Item]()
		if err := json.Unmarshal(raw, recs); err != nil {
			return fmt.Errorf("day %q: %w", key, err)
		}
		recs.Each(func(label string, it *Item) bool {
			if it == nil {
				it = NewItem(key)
				recs.Set(label, it)
			}
			it.Migrate(key)
			return true
		})
		doc.Days.Set(key, recs)
		return nil
	})
	if err != nil {
		return NewDocument(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return doc, nil
}

// MarshalJSON writes the day records in order followed by the overrides.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	d.Days.Each(func(day string, recs *Records) bool {
		if day == OverridesKey {
			return true
		}
		var kb, vb []byte
		if kb, err = json.Marshal(day); err != nil {
			return false
		}
		if vb, err = json.Marshal(recs); err != nil {
			return false
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	ov := d.Overrides
	if ov == nil {
		ov = plan.NewOverrides()
	}
	vb, err := json.Marshal(ov)
	if err != nil {
		return nil, err
	}
	if !first {
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + OverridesKey + `":`)
	buf.Write(vb)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("state: encode: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Item returns the record for label on day.
func (d *Document) Item(day, label string) (*Item, bool) {
	recs, ok := d.Days.Get(day)
	if !ok {
		return nil, false
	}
	return recs.Get(label)
}

// Ensure returns the record for label on day, creating the default record if
// there is none.
func (d *Document) Ensure(day, label string) *Item {
	if it, ok := d.Item(day, label); ok {
		return it
	}
	it := NewItem(day)
	d.Put(day, label, it)
	return it
}

// Put stores it under day and label.
func (d *Document) Put(day, label string, it *Item) {
	recs, ok := d.Days.Get(day)
	if !ok {
		recs = ordered.New[*Item]()
		d.Days.Set(day, recs)
	}
	recs.Set(label, it)
}

// Delete drops the record for label on day and reports whether one existed.
func (d *Document) Delete(day, label string) bool {
	recs, ok := d.Days.Get(day)
	if !ok || !recs.Has(label) {
		return false
	}
	recs.Delete(label)
	return true
}

// Relocate moves the record for label from one day to another and points its
// assigned day at the destination. A record already on the destination is
// replaced by the moved one. With nothing to move, the destination record is
// created if needed.
func (d *Document) Relocate(label, from, to string) *Item {
	it, ok := d.Item(from, label)
	if !ok || from == to {
		it = d.Ensure(to, label)
		it.AssignedDay = to
		return it
	}
	d.Delete(from, label)
	it.AssignedDay = to
	d.Put(to, label, it)
	return it
}

// IsCompleted reports whether label is complete on any day.
func (d *Document) IsCompleted(label string) bool {
	done := false
	d.Days.Each(func(_ string, recs *Records) bool {
		if it, ok := recs.Get(label); ok && it.Complete() {
			done = true
			return false
		}
		return true
	})
	return done
}

// CompletedItem is one finished item with where and when it was finished.
type CompletedItem struct {
	Day         string     `json:"day"`
	Label       string     `json:"label"`
	CompletedOn *Timestamp `json:"completed_on"`
}

// Completed lists every complete record in document order.
func (d *Document) Completed() []CompletedItem {
	var out []CompletedItem
	d.Days.Each(func(day string, recs *Records) bool {
		recs.Each(func(label string, it *Item) bool {
			if it.Complete() {
				out = append(out, CompletedItem{Day: day, Label: label, CompletedOn: it.CompletedOn})
			}
			return true
		})
		return true
	})
	return out
}

// StampCompleted marks every newly complete record with now and returns how
// many stamps were written.
func (d *Document) StampCompleted(now time.Time) int {
	n := 0
	d.Days.Each(func(_ string, recs *Records) bool {
		recs.Each(func(_ string, it *Item) bool {
			if it.MarkCompleted(now) {
				n++
			}
			return true
		})
		return true
	})
	return n
}
