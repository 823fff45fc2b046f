// Package overrides shows or clears the recorded plan edits.
package overrides

import (
	"context"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/printers"
)

type Overrides struct {
	Service *app.Service
	// Clear discards every edit before printing.
	Clear  bool
	Output string
	Out    io.Writer
}

func (o *Overrides) Do(ctx context.Context) error {
	if o.Clear {
		if err := o.Service.ResetOverrides(ctx); err != nil {
			return err
		}
	}
	ov, err := o.Service.Overrides(ctx)
	if err != nil {
		return err
	}
	if ov == nil {
		ov = plan.NewOverrides()
	}
	pp := &printers.PrettyPrint{Out: o.Out}
	return pp.Render(o.Output, ov, func() { pp.Overrides(ov) })
}
