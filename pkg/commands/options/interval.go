package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/state"
)

// IntervalOptions
type IntervalOptions struct {
	Start string
	End   string
}

func AddIntervalArgs(cmd *cobra.Command, o *IntervalOptions, required bool) {
	cmd.Flags().StringVar(&o.Start, "start", "",
		`Interval start, example: --start=21:30 or --start="9:30 PM".`)
	cmd.Flags().StringVar(&o.End, "end", "",
		"Interval end, same formats as --start.")
	if required {
		_ = cmd.MarkFlagRequired("start")
		_ = cmd.MarkFlagRequired("end")
	}
}

// Set reports whether both bounds were given.
func (o *IntervalOptions) Set() bool {
	return o.Start != "" && o.End != ""
}

func (o *IntervalOptions) Interval() state.Interval {
	return state.Interval{Start: o.Start, End: o.End}
}
