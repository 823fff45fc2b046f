package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/cram/pkg/state"
)

// ReportItem captures a completed item and when it was completed.
type ReportItem struct {
	Label       string    `json:"label" yaml:"label"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// ReportSection groups completed items by the day they are scheduled on.
type ReportSection struct {
	Day   string       `json:"day" yaml:"day"`
	Items []ReportItem `json:"items" yaml:"items"`
}

// ReportResult encapsulates a completed-items report for a time window.
type ReportResult struct {
	Since    time.Time       `json:"since" yaml:"since"`
	Until    time.Time       `json:"until" yaml:"until"`
	Sections []ReportSection `json:"sections" yaml:"sections"`
	Total    int             `json:"total" yaml:"total"`
	// Undated counts completed items stamped before completion times were
	// recorded; they are listed only when the window is unbounded.
	Undated int `json:"undated" yaml:"undated"`
}

// Report returns completed items grouped by day whose completion falls
// between the provided bounds. A zero since includes undated completions.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if !since.IsZero() && since.After(until) {
		since, until = until, since
	}
	ws, err := s.Load(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{Since: since, Until: until}
	sections := make(map[string]*ReportSection)
	var order []string
	for _, c := range ws.Doc.Completed() {
		at := completedAt(c)
		if at.IsZero() {
			result.Undated++
			if !since.IsZero() {
				continue
			}
		} else if at.Before(since) || at.After(until) {
			continue
		}
		sec, ok := sections[c.Day]
		if !ok {
			sec = &ReportSection{Day: c.Day}
			sections[c.Day] = sec
			order = append(order, c.Day)
		}
		sec.Items = append(sec.Items, ReportItem{Label: c.Label, CompletedAt: at})
		result.Total++
	}

	for _, day := range order {
		sec := sections[day]
		sort.SliceStable(sec.Items, func(i, j int) bool {
			return sec.Items[i].CompletedAt.Before(sec.Items[j].CompletedAt)
		})
		result.Sections = append(result.Sections, *sec)
	}
	return result, nil
}

func completedAt(c state.CompletedItem) time.Time {
	if c.CompletedOn == nil {
		return time.Time{}
	}
	return c.CompletedOn.Time
}
