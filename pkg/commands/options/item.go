package options

import (
	"github.com/spf13/cobra"
)

// ItemOptions names a plan item by day and label.
type ItemOptions struct {
	Day   string
	Label string
}

func AddDayArg(cmd *cobra.Command, o *ItemOptions) {
	cmd.Flags().StringVarP(&o.Day, "day", "d", "",
		`Day the item is scheduled on, example: --day="18 January".`)
	_ = cmd.MarkFlagRequired("day")
}

// FilterOptions narrows a day view.
type FilterOptions struct {
	Query   string
	Details bool
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Query, "filter", "f", "",
		"Only show items whose label contains this text.")
	cmd.Flags().BoolVar(&o.Details, "details", false,
		"Show intervals, notes and links.")
}
