package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/routine"
	"tableflip.dev/cram/pkg/runner/habit"
)

func requireHabit(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("requires a habit name")
	}
	return nil
}

func addHabit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Track recurring habits and their streaks.",
	}
	addHabitList(cmd)
	addHabitAdd(cmd)
	addHabitRemove(cmd)
	addHabitCheck(cmd)
	topLevel.AddCommand(cmd)
}

func addHabitList(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	window := habit.DefaultWindow
	calendar := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their streaks.",
		Example: `
cram habit list
cram habit list --window 30 --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := routineService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := habit.List{
				Service:  svc,
				Today:    time.Now(),
				Window:   window,
				Calendar: calendar,
				Output:   habit.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().IntVar(&window, "window", habit.DefaultWindow, "Days counted for the completion rate.")
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Print this month's calendar for each habit.")
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addHabitAdd(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	frequency := routine.Daily
	target := 1
	notes := ""

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a habit.",
		Example: `
cram habit add Read 20 pages
cram habit add Swim --frequency Weekly --target 3
`,
		Args: requireHabit,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := routineService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := habit.Add{
				Service:   svc,
				Name:      joinArgs(args),
				Frequency: frequency,
				Target:    target,
				Notes:     notes,
				Today:     time.Now(),
				Output:    habit.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&frequency, "frequency", routine.Daily, "Daily or Weekly.")
	cmd.Flags().IntVar(&target, "target", 1, "Check-ins per week for a Weekly habit.")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes.")
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addHabitRemove(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Stop tracking a habit and drop its history.",
		Args:    requireHabit,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := routineService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := habit.Remove{
				Service: svc,
				Name:    joinArgs(args),
				Today:   time.Now(),
				Output:  habit.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addHabitCheck(parent *cobra.Command) {
	oo := &options.OutputOptions{}
	do := &options.DateOptions{}
	undo := false

	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Record a habit as done on a date.",
		Example: `
cram habit check Read 20 pages
cram habit check Read 20 pages --on yesterday --undo
`,
		Args: requireHabit,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			date, err := do.GetOn(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := routineService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := habit.Check{
				Service: svc,
				Name:    joinArgs(args),
				Date:    date,
				Undo:    undo,
				Output:  habit.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Clear the check instead.")
	options.AddDateArgs(cmd, do)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
