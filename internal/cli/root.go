// Package cli implements the twinspect command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twinspect/twinspect/internal/config"
)

// rootOptions carries the build identity and the persistent flags shared by
// every subcommand.
type rootOptions struct {
	build      BuildInfo
	configPath string
	dataDir    string
}

// loadConfig resolves the effective configuration for a command run: the
// config file (when given), TWINSPECT_* environment overrides, then the
// --data-dir flag on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigFileNotFound) {
			fmt.Fprintf(os.Stderr, "Copy the example config to get started:\n")
			fmt.Fprintf(os.Stderr, "  cp twinspect.example.yml %s\n\n", o.configPath)
		}
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

// NewRootCmd builds the twinspect root command tree.
func NewRootCmd(build BuildInfo) *cobra.Command {
	opts := &rootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "twinspect",
		Short: "Digital twin dashboard with a self-bootstrapping environment",
		Long: `twinspect simulates an industrial device fleet and serves a live
dashboard over it. "twinspect up" prepares the on-disk environment
(directories, sample data, keys, schema, web assets) and launches the
server in one go; the other commands run the pieces separately.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to twinspect.yml config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override the configured data root")

	cmd.AddCommand(newUpCmd(opts))
	cmd.AddCommand(newSetupCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newVersionCmd(build))

	return cmd
}
