package commands

import (
	"os"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/cram/pkg/commands/options"
	"tableflip.dev/cram/pkg/logging"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cram",
		Short: base.Wrap80("Study plan and daily routine tracking on the command line."),
		Long: base.Wrap80("cram reads a study plan outline of days and lectures, layers your " +
			"edits on top of it, and tracks study and exam progress, study time, daily " +
			"routines and habits in JSON documents under the configured path."),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(lo.Level, os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addShow(topLevel)
	addSummary(topLevel)
	addAdd(topLevel)
	addRemove(topLevel)
	addMove(topLevel)
	addMark(topLevel)
	addNote(topLevel)
	addLink(topLevel)
	addInterval(topLevel)
	addRedistribute(topLevel)
	addOverrides(topLevel)
	addReport(topLevel)
	addOverdue(topLevel)
	addRoutine(topLevel)
	addHabit(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
	addCompletions(topLevel)
}
