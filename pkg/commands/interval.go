package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/runner/interval"
)

func addInterval(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Record the time spent studying an item.",
	}
	addIntervalAction(cmd, interval.Add, "Append a study interval.", true)
	addIntervalAction(cmd, interval.Edit, "Replace the interval at --index.", true)
	addIntervalAction(cmd, interval.Remove, "Delete the interval at --index.", false)
	addIntervalAction(cmd, interval.Preset, "Append a slot that starts where the last interval ended.", false)
	topLevel.AddCommand(cmd)
}

func addIntervalAction(parent *cobra.Command, action, short string, span bool) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}
	vo := &options.IntervalOptions{}
	index := 0
	minutes := 0

	cmd := &cobra.Command{
		Use:   action + " <label>",
		Short: short,
		Example: `
cram interval add --day "18 January" Lecture 1 --start 21:00 --end 22:15
cram interval edit --day "18 January" Lecture 1 --index 0 --start "9:00 PM" --end "10:00 PM"
cram interval rm --day "18 January" Lecture 1 --index 0
cram interval preset --day "18 January" Lecture 1 --minutes 45
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			if span && !vo.Set() {
				return errors.New("--start and --end are required")
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := interval.Interval{
				Service: svc,
				Action:  action,
				Day:     ido.Day,
				Label:   joinArgs(args),
				Index:   index,
				Span:    vo.Interval(),
				Minutes: minutes,
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	switch action {
	case interval.Add:
		options.AddIntervalArgs(cmd, vo, true)
	case interval.Edit:
		options.AddIntervalArgs(cmd, vo, true)
		cmd.Flags().IntVar(&index, "index", 0, "Position of the interval, starting at 0.")
	case interval.Remove:
		cmd.Flags().IntVar(&index, "index", 0, "Position of the interval, starting at 0.")
	case interval.Preset:
		cmd.Flags().IntVar(&minutes, "minutes", 0, "Slot length in minutes, 0 for the default.")
	}
	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
