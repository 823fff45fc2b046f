// Package report lists items completed within a recent window.
package report

import (
	"context"
	"io"
	"time"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
	"tableflip.dev/cram/pkg/timeutil"
)

type Report struct {
	Service *app.Service
	// Last is a window such as "3d" or "1w2d".
	Last   string
	Now    func() time.Time
	Output string
	Out    io.Writer
}

func (r *Report) Do(ctx context.Context) error {
	days, label, err := timeutil.ParseWindow(r.Last)
	if err != nil {
		return err
	}
	until := time.Now()
	if r.Now != nil {
		until = r.Now()
	}
	since := until.AddDate(0, 0, -days)

	result, err := r.Service.Report(ctx, since, until)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: r.Out}
	return pp.Render(r.Output, result, func() { pp.Report(result, label) })
}
