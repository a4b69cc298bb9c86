package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Launch the dashboard against an existing environment",
		Long: `Skips the bootstrap sequence and launches the server directly. The
environment must have been prepared by "twinspect setup" or a previous
"twinspect up".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			closeLogs, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer closeLogs()
			logStartup(opts.build, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runApp(ctx, cfg); err != nil {
				return err
			}

			slog.Info("twinspect stopped gracefully")
			return nil
		},
	}
}
