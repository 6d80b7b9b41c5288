// Package cli assembles the quicktrace command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeDuyViet/quicktrace/internal/commands/classify"
	"github.com/LeDuyViet/quicktrace/internal/commands/demo"
	"github.com/LeDuyViet/quicktrace/internal/commands/rules"
	"github.com/LeDuyViet/quicktrace/internal/commands/shared"
	"github.com/LeDuyViet/quicktrace/internal/commands/version"
)

// SetVersion records build information for the version command.
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quicktrace",
		Short: "quicktrace - lightweight checkpoint tracing",
		Long: `quicktrace measures the time between checkpoints in a single flow of
execution and prints a report of where the time went.

Run 'quicktrace demo' to see a traced workload.
Run 'quicktrace rules' to see how durations are classified.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verbose, json, config := shared.RegisterFlagPointers()
	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to a tracer config file")

	cmd.AddCommand(demo.NewCommand())
	cmd.AddCommand(classify.NewCommand())
	cmd.AddCommand(rules.NewCommand())
	cmd.AddCommand(version.NewVersionCommand())

	return cmd
}

// HandleExitError prints err and exits with its exit code.
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
