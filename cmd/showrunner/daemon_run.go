package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"showrunner/internal/daemonrun"
)

// newDaemonRunCommand runs the daemon in the foreground of the current
// process. `showrunner start` launches this command detached.
func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Aliases: []string{"run"},
		Short:   "Run the show-runner daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel: cfg.Logging.Level,
			})
		},
	}
}
