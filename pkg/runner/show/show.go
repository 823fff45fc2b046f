// Package show renders working plan days.
package show

import (
	"context"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
	"tableflip.dev/cram/pkg/progress"
)

// Show prints one day, or every day of the working plan when Day is empty.
type Show struct {
	Service *app.Service
	Day     string
	Query   string
	Details bool
	Output  string
	Out     io.Writer
}

func (s *Show) Do(ctx context.Context) error {
	pp := &printers.PrettyPrint{Out: s.Out, Details: s.Details}
	if s.Day != "" {
		sum, err := s.Service.Day(ctx, s.Day, s.Query)
		if err != nil {
			return err
		}
		return pp.Render(s.Output, sum, func() { pp.Day(sum) })
	}

	ws, err := s.Service.Load(ctx)
	if err != nil {
		return err
	}
	days := make([]progress.DaySummary, 0, ws.Plan.Len())
	for _, d := range ws.Plan.Days() {
		sum := progress.Day(d, ws.Doc, s.Query)
		if s.Query != "" && sum.Items == 0 {
			continue
		}
		days = append(days, sum)
	}
	return pp.Render(s.Output, days, func() {
		pp.Warnings(ws.Warnings)
		for _, d := range days {
			pp.Day(d)
		}
	})
}
