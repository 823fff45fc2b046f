package app

import (
	"context"
	"strconv"
	"time"

	"tableflip.dev/cram/pkg/outline"
)

// OverdueItem is an unfinished item scheduled on a day that has passed.
type OverdueItem struct {
	Day      string `json:"day" yaml:"day"`
	Label    string `json:"label" yaml:"label"`
	Study    bool   `json:"study" yaml:"study"`
	Exam     bool   `json:"exam" yaml:"exam"`
	DaysLate int    `json:"days_late" yaml:"days_late"`
}

// Overdue lists incomplete working plan items whose day falls before today.
// Day labels carry no year, so they are read in today's year. These are the
// candidates a redistribution would pick up.
func (s *Service) Overdue(ctx context.Context, today time.Time) ([]OverdueItem, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	results := make([]OverdueItem, 0)
	for _, d := range ws.Plan.Days() {
		when, ok := dayDate(d.Label, midnight)
		if !ok || !when.Before(midnight) {
			continue
		}
		late := int(midnight.Sub(when).Hours() / 24)
		for _, label := range d.Items {
			it, ok := ws.Doc.Item(d.Label, label)
			if ok && it.Complete() {
				continue
			}
			item := OverdueItem{Day: d.Label, Label: label, DaysLate: late}
			if ok {
				item.Study, item.Exam = it.Study, it.Exam
			}
			results = append(results, item)
		}
	}
	return results, nil
}

func dayDate(label string, ref time.Time) (time.Time, bool) {
	day, count, ok := outline.ParseHeader(label + " (0 items)")
	if !ok || count != 0 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2 January 2006", day+" "+strconv.Itoa(ref.Year()), ref.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
