// Package overdue lists unfinished items from days that have passed.
package overdue

import (
	"context"
	"io"
	"time"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/printers"
)

type Overdue struct {
	Service *app.Service
	Today   time.Time
	Output  string
	Out     io.Writer
}

func (o *Overdue) Do(ctx context.Context) error {
	today := o.Today
	if today.IsZero() {
		today = time.Now()
	}
	items, err := o.Service.Overdue(ctx, today)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: o.Out}
	return pp.Render(o.Output, items, func() { pp.Overdue(items) })
}
