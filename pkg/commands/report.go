package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/runner/overdue"
	"tableflip.dev/cram/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed items grouped by day",
		Long: `Report lists completed items grouped by day within the specified time window.

Examples:
  cram report
  cram report --last 3d
  cram report --last 1w2d -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := report.Report{
				Service: svc,
				Last:    wo.Last,
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddWindowArgs(cmd, wo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addOverdue(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List unfinished items scheduled before today.",
		Example: `
cram overdue
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := overdue.Overdue{
				Service: svc,
				Today:   time.Now(),
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
