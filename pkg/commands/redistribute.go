package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/runner/overrides"
	"tableflip.dev/cram/pkg/runner/redistribute"
)

func addRedistribute(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ro := &options.RedistributeOptions{}

	cmd := &cobra.Command{
		Use:   "redistribute",
		Short: "Preview the plan spread evenly over a range of days.",
		Long: `Redistribute spreads the items of the parsed outline, in order, over the
days of the given range, then applies the recorded add, remove and move edits
and prints the result. Nothing is saved; set the redistribute block of the
config file to make the layout stick.`,
		Example: `
cram redistribute --start 1 --end 14 --month February
cram redistribute --start 1 --end 7 --month March --skip-completed=false -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			rng, err := ro.Range()
			if err != nil {
				return oo.HandleError(err)
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := redistribute.Redistribute{
				Service:       svc,
				Range:         rng,
				SkipCompleted: ro.SkipCompleted,
				Limit:         ro.Limit,
				Output:        oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddRedistributeArgs(cmd, ro)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addOverrides(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Show or clear the edits layered over the outline.",
	}
	addOverridesAction(cmd, "show", "List the recorded add, remove and move edits.", false)
	addOverridesAction(cmd, "clear", "Discard every recorded edit.", true)
	topLevel.AddCommand(cmd)
}

func addOverridesAction(parent *cobra.Command, use, short string, reset bool) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := overrides.Overrides{
				Service: svc,
				Clear:   reset,
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
