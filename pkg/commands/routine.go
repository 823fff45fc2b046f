package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/app"
	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/runner/routine"
	"tableflip.dev/cram/pkg/state"
	"tableflip.dev/cram/pkg/timeutil"
)

// routineFlags are shared by every routine subcommand.
type routineFlags struct {
	oo *options.OutputOptions
	do *options.DateOptions
}

func newRoutineFlags(cmd *cobra.Command) *routineFlags {
	f := &routineFlags{oo: &options.OutputOptions{}, do: &options.DateOptions{}}
	options.AddDateArgs(cmd, f.do)
	options.AddOutputArg(cmd, f.oo)
	return f
}

// prepare validates the flags and returns the service and the date.
func (f *routineFlags) prepare() (*app.RoutineService, time.Time, error) {
	if err := f.oo.Validate(); err != nil {
		return nil, time.Time{}, err
	}
	date, err := f.do.GetOn(time.Now())
	if err != nil {
		return nil, time.Time{}, err
	}
	svc, err := routineService()
	if err != nil {
		return nil, time.Time{}, err
	}
	return svc, date, nil
}

func (f *routineFlags) output() routine.Output {
	return routine.Output{Format: f.oo.Format}
}

func requireName(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("requires an activity name")
	}
	return nil
}

func addRoutine(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "routine",
		Aliases: []string{"r"},
		Short:   "Plan and track the activities of a day.",
	}
	addRoutineShow(cmd)
	addRoutineAdd(cmd)
	addRoutineRemove(cmd)
	addRoutineDone(cmd)
	addRoutineTimer(cmd)
	addRoutineInterval(cmd)
	addRoutineWeek(cmd)
	addRoutineStats(cmd)
	topLevel.AddCommand(cmd)
}

func addRoutineShow(parent *cobra.Command) {
	details := false
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the activities and report of a day.",
		Example: `
cram routine show
cram routine show --on yesterday --details
`,
		Args: cobra.NoArgs,
	}
	f := newRoutineFlags(cmd)
	cmd.Flags().BoolVar(&details, "details", false, "Show intervals, timers and notes.")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		s := routine.Show{Service: svc, Date: date, Details: details, Output: f.output()}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineAdd(parent *cobra.Command) {
	category := ""
	vo := &options.IntervalOptions{}
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Plan an activity. Without --start and --end it takes the next free hour.",
		Example: `
cram routine add Morning run --category Exercise --start "7:00 AM" --end "8:00 AM"
cram routine add Revise chapter 3 --category Study --on tomorrow
`,
		Args: requireName,
	}
	f := newRoutineFlags(cmd)
	cmd.Flags().StringVar(&category, "category", "",
		"One of Work, Sleep, Exercise, Leisure, Study or Other.")
	options.AddIntervalArgs(cmd, vo, false)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		var span *state.Interval
		if vo.Start != "" || vo.End != "" {
			iv := vo.Interval()
			span = &iv
		}
		s := routine.Add{
			Service:  svc,
			Date:     date,
			Name:     joinArgs(args),
			Category: category,
			Span:     span,
			Output:   f.output(),
		}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an activity from a day.",
		Args:    requireName,
	}
	f := newRoutineFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		s := routine.Remove{Service: svc, Date: date, Name: joinArgs(args), Output: f.output()}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineDone(parent *cobra.Command) {
	undo := false
	notes := ""
	cmd := &cobra.Command{
		Use:   "done <name>",
		Short: "Mark an activity completed.",
		Example: `
cram routine done Morning run --notes "5k, easy pace"
cram routine done Morning run --undo
`,
		Args: requireName,
	}
	f := newRoutineFlags(cmd)
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the activity not completed.")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the activity notes.")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		s := routine.Done{
			Service: svc,
			Date:    date,
			Name:    joinArgs(args),
			Undo:    undo,
			Output:  f.output(),
		}
		if cmd.Flags().Changed("notes") {
			s.Notes = &notes
		}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineTimer(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the stopwatch of an activity.",
	}
	for _, action := range []string{app.TimerStart, app.TimerPause, app.TimerResume, app.TimerStop, app.TimerReset} {
		addRoutineTimerAction(cmd, action)
	}
	parent.AddCommand(cmd)
}

func addRoutineTimerAction(parent *cobra.Command, action string) {
	cmd := &cobra.Command{
		Use:   action + " <name>",
		Short: "Apply " + action + " to the activity timer.",
		Args:  requireName,
	}
	f := newRoutineFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		s := routine.Timer{Service: svc, Date: date, Name: joinArgs(args), Action: action, Output: f.output()}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineInterval(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Edit the time slots of an activity.",
	}
	addRoutineIntervalAction(cmd, routine.IntervalAdd, "Add a slot; without --start and --end it takes the next hour.")
	addRoutineIntervalAction(cmd, routine.IntervalEdit, "Replace the slot at --index.")
	addRoutineIntervalAction(cmd, routine.IntervalRemove, "Delete the slot at --index.")
	parent.AddCommand(cmd)
}

func addRoutineIntervalAction(parent *cobra.Command, action, short string) {
	vo := &options.IntervalOptions{}
	index := 0
	cmd := &cobra.Command{
		Use:   action + " <name>",
		Short: short,
		Example: `
cram routine interval add Deep work --start "2:00 PM" --end "3:30 PM"
cram routine interval edit Deep work --index 1 --start "4:00 PM" --end "5:00 PM"
cram routine interval rm Deep work --index 1
`,
		Args: requireName,
	}
	f := newRoutineFlags(cmd)
	if action != routine.IntervalRemove {
		options.AddIntervalArgs(cmd, vo, action == routine.IntervalEdit)
	}
	if action != routine.IntervalAdd {
		cmd.Flags().IntVar(&index, "index", 0, "Position of the slot, starting at 0.")
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		var span *state.Interval
		if vo.Start != "" || vo.End != "" {
			iv := vo.Interval()
			span = &iv
		}
		s := routine.Interval{
			Service: svc,
			Date:    date,
			Name:    joinArgs(args),
			Action:  action,
			Index:   index,
			Span:    span,
			Output:  f.output(),
		}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineWeek(parent *cobra.Command) {
	last := ""
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the daily reports of a week.",
		Long: `Week prints one report line per day of the Monday-start week containing
--on. With --last the window ends at --on instead.`,
		Example: `
cram routine week
cram routine week --last 10d
`,
		Args: cobra.NoArgs,
	}
	f := newRoutineFlags(cmd)
	cmd.Flags().StringVar(&last, "last", "", "Window ending at --on, for example 3d or 1w2d.")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true
		svc, date, err := f.prepare()
		if err != nil {
			return f.oo.HandleError(err)
		}
		s := routine.Week{Service: svc, Date: date, Output: f.output()}
		if last != "" {
			days, _, err := timeutil.ParseWindow(last)
			if err != nil {
				return f.oo.HandleError(err)
			}
			s.Days = days
		}
		return f.oo.HandleError(s.Do(cmd.Context()))
	}
	parent.AddCommand(cmd)
}

func addRoutineStats(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion and time analytics over every recorded day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := routineService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := routine.Stats{Service: svc, Output: routine.Output{Format: oo.Format}}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
