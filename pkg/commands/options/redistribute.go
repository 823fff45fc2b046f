package options

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/outline"
	"tableflip.dev/cram/pkg/plan"
)

// RedistributeOptions
type RedistributeOptions struct {
	Start         int
	End           int
	Month         string
	SkipCompleted bool
	Limit         int
}

func AddRedistributeArgs(cmd *cobra.Command, o *RedistributeOptions) {
	cmd.Flags().IntVar(&o.Start, "start", 0,
		"First target day of the month.")
	cmd.Flags().IntVar(&o.End, "end", 0,
		"Last target day of the month, inclusive.")
	cmd.Flags().StringVar(&o.Month, "month", "",
		`Target month, example: --month=February.`)
	cmd.Flags().BoolVar(&o.SkipCompleted, "skip-completed", true,
		"Leave completed items on the day they came from.")
	cmd.Flags().IntVar(&o.Limit, "limit", 0,
		"Redistribute at most this many items, 0 for all.")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("month")
}

func (o *RedistributeOptions) Range() (plan.Range, error) {
	month, ok := outline.ParseMonth(o.Month)
	if !ok {
		return plan.Range{}, fmt.Errorf("%w: month %q", plan.ErrInvalidRange, o.Month)
	}
	rng := plan.Range{Start: o.Start, End: o.End, Month: month}
	return rng, rng.Validate()
}
