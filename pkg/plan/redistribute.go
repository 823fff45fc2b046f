package plan

import (
	"errors"
	"fmt"
	"time"

	"tableflip.dev/cram/pkg/outline"
)

// ErrInvalidRange is returned when a redistribution range has no days.
var ErrInvalidRange = errors.New("plan: invalid redistribution range")

// Range is a closed run of days within one month.
type Range struct {
	Start int
	End   int
	Month time.Month
}

// Len is the number of days in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Days returns the range's day labels in ascending order.
func (r Range) Days() []string {
	if r.Len() <= 0 {
		return nil
	}
	out := make([]string, 0, r.Len())
	for d := r.Start; d <= r.End; d++ {
		out = append(out, outline.Label(d, r.Month))
	}
	return out
}

// Validate reports a range that cannot hold items.
func (r Range) Validate() error {
	if r.Len() <= 0 {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRange, r.Start, r.End)
	}
	if r.Month < time.January || r.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidRange, r.Month)
	}
	if r.Start < 1 || r.End > 31 {
		return fmt.Errorf("%w: days %d..%d", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d %s", r.Start, r.End, r.Month)
}

// Option configures Redistribute.
type Option func(*redistributor)

// SkipCompleted keeps items for which done returns true on the day they came
// from instead of redistributing them.
func SkipCompleted(done func(label string) bool) Option {
	return func(r *redistributor) {
		r.done = done
	}
}

// Limit redistributes at most the first n items of the outline. Zero or a
// negative n means no limit.
func Limit(n int) Option {
	return func(r *redistributor) {
		r.limit = n
	}
}

type redistributor struct {
	done  func(string) bool
	limit int
}

type placed struct {
	label  string
	origin string
}

// Redistribute spreads the outline's items evenly over r. With M items to
// spread over D days, the first M mod D days receive one extra item; slices
// are contiguous and keep the original order. Completed items stay on their
// origin day ahead of any redistributed items. The result lists the target
// days first, then the remaining origin days in outline order. Days left
// empty are omitted.
func Redistribute(base *outline.Outline, r Range, opts ...Option) (*outline.Outline, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rd := &redistributor{}
	for _, opt := range opts {
		opt(rd)
	}

	var all []placed
	for _, d := range base.Days() {
		for _, item := range d.Items {
			all = append(all, placed{label: item, origin: d.Label})
		}
	}
	if rd.limit > 0 && len(all) > rd.limit {
		all = all[:rd.limit]
	}

	var pending []string
	kept := outline.New()
	for _, p := range all {
		if rd.done != nil && rd.done(p.label) {
			d := kept.Ensure(p.origin)
			if !d.Has(p.label) {
				d.Items = append(d.Items, p.label)
			}
			continue
		}
		pending = append(pending, p.label)
	}

	targets := r.Days()
	out := outline.New()
	per, rem := len(pending)/len(targets), len(pending)%len(targets)
	next := 0
	for i, day := range targets {
		n := per
		if i < rem {
			n++
		}
		d := out.Ensure(day)
		if k, ok := kept.Day(day); ok {
			d.Items = append(d.Items, k.Items...)
		}
		d.Items = append(d.Items, pending[next:next+n]...)
		next += n
	}

	for _, k := range kept.Days() {
		if _, ok := out.Day(k.Label); ok {
			continue
		}
		d := out.Ensure(k.Label)
		d.Items = append(d.Items, k.Items...)
	}

	out.Recount()
	return out.Prune(), nil
}
