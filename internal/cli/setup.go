package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twinspect/twinspect/internal/bootstrap"
)

func newSetupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Prepare the environment without launching the server",
		Long: `Runs the bootstrap sequence through the health check and exits.
A later "twinspect serve" launches against the prepared environment.`,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := bootstrap.New(cfg, bootstrap.ExecRunner{})
			seq := bootstrap.NewSequence(b.Steps(nil))
			if err := seq.Run(ctx); err != nil {
				return err
			}

			slog.Info("environment ready",
				"state", string(seq.State()),
				"data_dir", cfg.DataDir,
			)
			return nil
		},
	}
}
