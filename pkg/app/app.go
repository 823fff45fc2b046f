package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/cram/pkg/logging"
	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/progress"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/store"
	"tableflip.dev/cram/pkg/validation"
)

// Service provides the study plan intents and views. It wraps persistence,
// the outline source and the reconciliation steps so the CLI and the MCP
// server share one implementation.
type Service struct {
	Persistence store.Persistence
	Outline     outline.Loader
	// Config enables redistribution; nil leaves the outline as parsed.
	Config *store.FileConfig
	Now    func() time.Time
}

// Errors returned by Service. ErrEditCancelled reports an add or remove that
// an earlier recorded edit undoes when the overrides are applied.
var (
	ErrItemNotFound  = errors.New("app: item not found")
	ErrDayNotFound   = errors.New("app: day not found")
	ErrEditCancelled = errors.New("app: edit cancelled by an earlier edit")
)

// Workspace is one reconciled view of the plan.
type Workspace struct {
	// Base is the outline as parsed.
	Base *outline.Outline
	// Shaped is Base after redistribution, or Base when it is off.
	Shaped *outline.Outline
	// Plan is the working plan: Shaped with the overrides applied.
	Plan *outline.Outline
	Doc  *state.Document
	// Warnings lists recoverable problems met while loading.
	Warnings []string
}

// Find returns the first working plan day holding label.
func (w *Workspace) Find(label string) (string, bool) {
	for _, d := range w.Plan.Days() {
		if d.Has(label) {
			return d.Label, true
		}
	}
	return "", false
}

// scheduled reports whether label is on day once the current overrides are
// applied to the shaped outline.
func (w *Workspace) scheduled(day, label string) bool {
	d, ok := plan.Apply(w.Shaped, w.Doc.Overrides).Day(day)
	return ok && d.Has(label)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) check() error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	if s.Outline == nil {
		return errors.New("app: no outline source configured")
	}
	return nil
}

// Load parses the outline, reads the state document, optionally
// redistributes, and applies the overrides. A missing outline or a corrupt
// document degrades to empty data with a warning; only a bad redistribution
// range fails.
func (s *Service) Load(ctx context.Context) (*Workspace, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	log := logging.Component("app")
	ws := &Workspace{}

	base, err := s.Outline.Load(ctx)
	switch {
	case errors.Is(err, outline.ErrSourceUnavailable):
		log.Warn().Err(err).Msg("outline unavailable, using empty plan")
		ws.Warnings = append(ws.Warnings, err.Error())
	case err != nil:
		return nil, err
	}
	if base == nil {
		base = outline.New()
	}
	for _, m := range base.Mismatches() {
		ws.Warnings = append(ws.Warnings, m.String())
	}
	ws.Base = base

	doc, err := s.readDocument()
	if err != nil {
		if !errors.Is(err, state.ErrCorrupt) {
			return nil, err
		}
		log.Warn().Err(err).Msg("ignoring corrupt state")
		ws.Warnings = append(ws.Warnings, err.Error())
	}
	ws.Doc = doc

	ws.Shaped = base
	if s.Config != nil && s.Config.Redistribute.Enabled {
		rc := s.Config.Redistribute
		rng, err := rc.Range()
		if err != nil {
			return nil, err
		}
		if ws.Shaped, err = s.redistribute(base, doc, rng, rc.SkipCompleted, rc.Limit); err != nil {
			return nil, err
		}
	}

	ws.Plan = plan.Apply(ws.Shaped, doc.Overrides)
	return ws, nil
}

func (s *Service) redistribute(base *outline.Outline, doc *state.Document, rng plan.Range, skip bool, limit int) (*outline.Outline, error) {
	var opts []plan.Option
	if skip {
		opts = append(opts, plan.SkipCompleted(doc.IsCompleted))
	}
	if limit > 0 {
		opts = append(opts, plan.Limit(limit))
	}
	return plan.Redistribute(base, rng, opts...)
}

func (s *Service) readDocument() (*state.Document, error) {
	data, err := s.Persistence.Read(store.PlanKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return state.NewDocument(), nil
		}
		return nil, err
	}
	return state.Decode(data)
}

func (s *Service) save(doc *state.Document) error {
	doc.StampCompleted(s.now())
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	return s.Persistence.Write(store.PlanKey, data)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

type itemRef struct {
	Day   string `validate:"required,daylabel"`
	Label string `validate:"required"`
}

func normalizeRef(day, label string) (string, string, error) {
	ref := itemRef{Day: day, Label: strings.TrimSpace(label)}
	if err := validation.Struct(ref); err != nil {
		return "", "", fmt.Errorf("app: %w", err)
	}
	day, _ = validation.NormalizeDay(ref.Day)
	return day, ref.Label, nil
}

// AddItem schedules label on day and gives it a default record.
func (s *Service) AddItem(ctx context.Context, day, label string) (*state.Item, error) {
	day, label, err := normalizeRef(day, label)
	if err != nil {
		return nil, err
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	ws.Doc.Overrides.AddItem(day, label)
	if !ws.scheduled(day, label) {
		return nil, fmt.Errorf("%w: %q stays off %s", ErrEditCancelled, label, day)
	}
	it := ws.Doc.Ensure(day, label)
	if err := s.save(ws.Doc); err != nil {
		return nil, err
	}
	return it, nil
}

// RemoveItem drops label from day and deletes its record.
func (s *Service) RemoveItem(ctx context.Context, day, label string) error {
	day, label, err := normalizeRef(day, label)
	if err != nil {
		return err
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if d, ok := ws.Plan.Day(day); !ok || !d.Has(label) {
		return fmt.Errorf("%w: %q on %s", ErrItemNotFound, label, day)
	}
	ws.Doc.Overrides.RemoveItem(day, label)
	if ws.scheduled(day, label) {
		return fmt.Errorf("%w: %q stays on %s", ErrEditCancelled, label, day)
	}
	ws.Doc.Delete(day, label)
	return s.save(ws.Doc)
}

// MoveItem reassigns label to day. The record travels with it.
func (s *Service) MoveItem(ctx context.Context, label, day string) (*state.Item, error) {
	day, label, err := normalizeRef(day, label)
	if err != nil {
		return nil, err
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	from, ok := ws.Find(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, label)
	}
	ws.Doc.Overrides.MoveItem(label, day)
	it := ws.Doc.Relocate(label, from, day)
	if err := s.save(ws.Doc); err != nil {
		return nil, err
	}
	return it, nil
}

// update applies fn to the record of an item on the working plan, creating
// the default record first when needed, and saves.
func (s *Service) update(ctx context.Context, day, label string, fn func(*state.Item) error) (*state.Item, error) {
	day, label, err := normalizeRef(day, label)
	if err != nil {
		return nil, err
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if d, ok := ws.Plan.Day(day); !ok || !d.Has(label) {
		return nil, fmt.Errorf("%w: %q on %s", ErrItemNotFound, label, day)
	}
	it := ws.Doc.Ensure(day, label)
	if err := fn(it); err != nil {
		return nil, err
	}
	if err := s.save(ws.Doc); err != nil {
		return nil, err
	}
	return it, nil
}

// SetStudy sets the study milestone.
func (s *Service) SetStudy(ctx context.Context, day, label string, done bool) (*state.Item, error) {
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.Study = done
		return nil
	})
}

// SetExam sets the exam milestone.
func (s *Service) SetExam(ctx context.Context, day, label string, done bool) (*state.Item, error) {
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.Exam = done
		return nil
	})
}

// SetNotes replaces the notes.
func (s *Service) SetNotes(ctx context.Context, day, label, notes string) (*state.Item, error) {
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.Notes = notes
		return nil
	})
}

// SetLink replaces the resource link.
func (s *Service) SetLink(ctx context.Context, day, label, link string) (*state.Item, error) {
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.Link = strings.TrimSpace(link)
		return nil
	})
}

// AddInterval appends a time interval.
func (s *Service) AddInterval(ctx context.Context, day, label string, iv state.Interval) (*state.Item, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.AddInterval(iv.Normalize())
		return nil
	})
}

// Interval slot defaults for quick adds.
const (
	SlotGap    = 15
	SlotLength = 30
)

// AddPresetInterval appends an interval of minutes starting shortly after
// the last one. Zero minutes uses the default slot length.
func (s *Service) AddPresetInterval(ctx context.Context, day, label string, minutes int) (*state.Item, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("app: negative interval length %d", minutes)
	}
	if minutes == 0 {
		minutes = SlotLength
	}
	return s.update(ctx, day, label, func(it *state.Item) error {
		it.AddInterval(it.NextInterval(SlotGap, minutes))
		return nil
	})
}

// EditInterval replaces the interval at index.
func (s *Service) EditInterval(ctx context.Context, day, label string, index int, iv state.Interval) (*state.Item, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, day, label, func(it *state.Item) error {
		return it.EditInterval(index, iv.Normalize())
	})
}

// RemoveInterval deletes the interval at index. An item always keeps one.
func (s *Service) RemoveInterval(ctx context.Context, day, label string, index int) (*state.Item, error) {
	return s.update(ctx, day, label, func(it *state.Item) error {
		return it.RemoveInterval(index)
	})
}

// Overrides returns a copy of the recorded edits.
func (s *Service) Overrides(ctx context.Context) (*plan.Overrides, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ws.Doc.Overrides.Clone(), nil
}

// ResetOverrides discards every recorded edit. Item records are kept.
func (s *Service) ResetOverrides(ctx context.Context) error {
	ws, err := s.Load(ctx)
	if err != nil {
		return err
	}
	ws.Doc.Overrides = plan.NewOverrides()
	return s.save(ws.Doc)
}

// Day summarises one working plan day, filtered by query.
func (s *Service) Day(ctx context.Context, day, query string) (progress.DaySummary, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return progress.DaySummary{}, err
	}
	label, ok := validation.NormalizeDay(day)
	if !ok {
		label = day
	}
	d, ok := ws.Plan.Day(label)
	if !ok {
		return progress.DaySummary{}, fmt.Errorf("%w: %s", ErrDayNotFound, day)
	}
	return progress.Day(d, ws.Doc, query), nil
}

// Summary aggregates the whole working plan.
func (s *Service) Summary(ctx context.Context) (progress.Summary, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return progress.Summary{}, err
	}
	return progress.Summarize(ws.Plan, ws.Doc), nil
}

// Preview redistributes the parsed outline over rng and applies the
// overrides without saving anything.
func (s *Service) Preview(ctx context.Context, rng plan.Range, skipCompleted bool, limit int) (*outline.Outline, error) {
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	shaped, err := s.redistribute(ws.Base, ws.Doc, rng, skipCompleted, limit)
	if err != nil {
		return nil, err
	}
	return plan.Apply(shaped, ws.Doc.Overrides), nil
}
