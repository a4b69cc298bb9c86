package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twinspect/twinspect/internal/bootstrap"
)

func newUpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Bootstrap the environment and launch the dashboard",
		Long: `Runs the full bootstrap sequence (directories, sample data, keys,
dependencies, schema, web assets, health check) and then launches the
server. Blocks until interrupted.`,
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

			b := bootstrap.New(cfg, bootstrap.ExecRunner{})
			seq := bootstrap.NewSequence(b.Steps(launch(cfg)))
			if err := seq.Run(ctx); err != nil {
				return err
			}

			slog.Info("twinspect stopped gracefully")
			return nil
		},
	}
}
