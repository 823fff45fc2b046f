package plan

import (
	"tableflip.dev/cram/pkg/outline"
)

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	prune bool
}

// WithPrune drops days left without items.
func WithPrune() ApplyOption {
	return func(c *applyConfig) {
		c.prune = true
	}
}

// Apply folds overrides into a copy of base and returns the working plan.
// Additions run first, then removals, then moves; the passes do not commute.
// Every day's declared count is recomputed afterwards.
func Apply(base *outline.Outline, ov *Overrides, opts ...ApplyOption) *outline.Outline {
	cfg := &applyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := base.Clone()
	if ov != nil {
		applyAdds(out, ov)
		applyRemoves(out, ov)
		applyMoves(out, ov)
	}
	out.Recount()
	if cfg.prune {
		return out.Prune()
	}
	return out
}

func applyAdds(o *outline.Outline, ov *Overrides) {
	ov.Add.Each(func(day string, labels []string) bool {
		d := o.Ensure(day)
		for _, label := range labels {
			if !d.Has(label) {
				d.Items = append(d.Items, label)
			}
		}
		return true
	})
}

func applyRemoves(o *outline.Outline, ov *Overrides) {
	ov.Remove.Each(func(day string, labels []string) bool {
		d, ok := o.Day(day)
		if !ok {
			return true
		}
		d.Items = filter(d.Items, func(item string) bool {
			return !contains(labels, item)
		})
		return true
	})
}

func applyMoves(o *outline.Outline, ov *Overrides) {
	ov.Move.Each(func(label, target string) bool {
		for _, d := range o.Days() {
			d.Items = filter(d.Items, func(item string) bool {
				return item != label
			})
		}
		d := o.Ensure(target)
		if !d.Has(label) {
			d.Items = append(d.Items, label)
		}
		return true
	})
}

func filter(items []string, keep func(string) bool) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
