package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twinspect/twinspect/internal/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		devices int
		hours   int
		seedVal int64
		workers int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample history into the twin database",
		Long: `Writes a simulated window of device, system and energy history into
the twin database. Refuses to touch an existing database unless --force
is given, in which case the database is recreated from scratch.

Flags override the configured simulation values; unset flags fall back
to the config.`,
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

			paths := cfg.Paths()
			if _, err := os.Stat(paths.DBFile); err == nil {
				if !force {
					return fmt.Errorf("database already exists at %s, re-run with --force to regenerate", paths.DBFile)
				}
				for _, p := range []string{paths.DBFile, paths.DBFile + "-wal", paths.DBFile + "-shm"} {
					if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
						return fmt.Errorf("remove %s: %w", p, err)
					}
				}
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("stat %s: %w", paths.DBFile, err)
			}
			if err := os.MkdirAll(paths.DBDir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}

			genCfg := seed.DefaultConfig(paths.DBFile)
			genCfg.Devices = cfg.Simulation.Devices
			genCfg.Seed = cfg.Simulation.Seed
			genCfg.Workers = cfg.WorkerPoolSize
			if cmd.Flags().Changed("devices") {
				genCfg.Devices = devices
			}
			if cmd.Flags().Changed("hours") {
				genCfg.Hours = hours
			}
			if cmd.Flags().Changed("seed") {
				genCfg.Seed = seedVal
			}
			if cmd.Flags().Changed("workers") {
				genCfg.Workers = workers
			}

			gen, err := seed.New(genCfg)
			if err != nil {
				return err
			}
			defer gen.Close()

			return gen.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&devices, "devices", 20, "number of simulated devices")
	cmd.Flags().IntVar(&hours, "hours", 24, "hours of history to generate")
	cmd.Flags().Int64Var(&seedVal, "seed", 0, "simulation seed (0 picks one)")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent backfill workers")
	cmd.Flags().BoolVar(&force, "force", false, "recreate the database if it already exists")

	return cmd
}
