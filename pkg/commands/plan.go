package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/runner/item"
	"tableflip.dev/cram/pkg/runner/show"
	"tableflip.dev/cram/pkg/runner/summary"
)

func addShow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	fo := &options.FilterOptions{}

	cmd := &cobra.Command{
		Use:   "show [day]",
		Short: "Show the working plan, or one day of it.",
		Example: `
cram show
cram show 18 January --details
cram show --filter lecture -o json
`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return dayCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := show.Show{
				Service: svc,
				Day:     joinArgs(args),
				Query:   fo.Query,
				Details: fo.Details,
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addSummary(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	watch := false

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show progress per day and for the whole plan.",
		Example: `
cram summary
cram summary --watch
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
			s := summary.Summary{
				Service: svc,
				Watch:   watch,
				Output:  oo.Format,
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reprint when the stored documents change.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func requireLabel(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("requires an item label")
	}
	return nil
}

func addAdd(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Schedule a new item on a day.",
		Example: `
cram add --day "21 January" Lecture 12 - Review
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Add{
				Service: svc,
				Day:     ido.Day,
				Label:   joinArgs(args),
				Output:  item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}

	cmd := &cobra.Command{
		Use:     "remove <label>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from a day and discard its progress.",
		Example: `
cram remove --day "18 January" Lecture 2
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Remove{
				Service: svc,
				Day:     ido.Day,
				Label:   joinArgs(args),
				Output:  item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	to := ""

	cmd := &cobra.Command{
		Use:     "move <label>",
		Aliases: []string{"mv"},
		Short:   "Move an item to another day, keeping its progress.",
		Example: `
cram move --to "20 January" Lecture 2
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Move{
				Service: svc,
				Label:   joinArgs(args),
				To:      to,
				Output:  item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&to, "to", "", `Destination day, example: --to="20 January".`)
	_ = cmd.MarkFlagRequired("to")
	registerDayCompletion(cmd, "to")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addMark(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark the study or exam milestone of an item.",
	}
	addMarkMilestone(cmd, item.Study)
	addMarkMilestone(cmd, item.Exam)
	topLevel.AddCommand(cmd)
}

func addMarkMilestone(parent *cobra.Command, milestone string) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}
	undo := false

	cmd := &cobra.Command{
		Use:   milestone + " <label>",
		Short: "Mark an item as " + milestone + " done.",
		Example: `
cram mark ` + milestone + ` --day "18 January" Lecture 1
cram mark ` + milestone + ` --day "18 January" Lecture 1 --undo
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Mark{
				Service:   svc,
				Day:       ido.Day,
				Label:     joinArgs(args),
				Milestone: milestone,
				Done:      !undo,
				Output:    item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Clear the milestone instead.")
	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func addNote(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}
	text := ""

	cmd := &cobra.Command{
		Use:   "note <label>",
		Short: "Replace the notes of an item.",
		Example: `
cram note --day "18 January" Lecture 1 --text "redo the proofs"
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Note{
				Service: svc,
				Day:     ido.Day,
				Label:   joinArgs(args),
				Text:    text,
				Output:  item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Notes text; empty clears them.")
	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addLink(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ido := &options.ItemOptions{}
	url := ""

	cmd := &cobra.Command{
		Use:   "link <label>",
		Short: "Set the resource link of an item.",
		Example: `
cram link --day "18 January" Lecture 1 --url https://example.com/lecture-1
`,
		Args: requireLabel,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := planService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := item.Link{
				Service: svc,
				Day:     ido.Day,
				Label:   joinArgs(args),
				URL:     url,
				Output:  item.Output{Format: oo.Format},
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Link to the study resource; empty clears it.")
	options.AddDayArg(cmd, ido)
	registerDayCompletion(cmd, "day")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
