// Package redistribute previews an outline spread over a range of days.
package redistribute

import (
	"context"
	"io"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/plan"
	"tableflip.dev/cram/pkg/printers"
)

// Redistribute prints the working plan the range would produce. Nothing is
// saved; set redistribute in the config file to make it stick.
type Redistribute struct {
	Service       *app.Service
	Range         plan.Range
	SkipCompleted bool
	Limit         int
	Output        string
	Out           io.Writer
}

func (r *Redistribute) Do(ctx context.Context) error {
	preview, err := r.Service.Preview(ctx, r.Range, r.SkipCompleted, r.Limit)
	if err != nil {
		return err
	}
	pp := &printers.PrettyPrint{Out: r.Out}
	return pp.Render(r.Output, preview, func() {
		pp.Title("Preview · " + r.Range.String())
		pp.NewLine()
		pp.Outline(preview)
	})
}
