package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/twinspect/twinspect/internal/alerter"
	"github.com/twinspect/twinspect/internal/config"
	"github.com/twinspect/twinspect/internal/scoring"
	"github.com/twinspect/twinspect/internal/secret"
	"github.com/twinspect/twinspect/internal/seed"
	"github.com/twinspect/twinspect/internal/store"
	"github.com/twinspect/twinspect/internal/webassets"
)

// Bootstrap wires the environment steps for one run.
type Bootstrap struct {
	cfg    *config.Config
	paths  config.Paths
	runner CommandRunner
}

// New creates a Bootstrap for the given configuration.
func New(cfg *config.Config, runner CommandRunner) *Bootstrap {
	return &Bootstrap{cfg: cfg, paths: cfg.Paths(), runner: runner}
}

// Steps assembles the full sequence. launch runs as the final step; passing
// nil ends the sequence at the health check (setup-only mode).
func (b *Bootstrap) Steps(launch StepFunc) []Step {
	steps := []Step{
		{Name: "provision directories", State: StateDirsReady, Run: b.ProvisionDirs},
		{Name: "generate sample data", State: StateDataReady, Run: b.GenerateSampleData},
		{Name: "initialize keys", State: StateKeysReady, Run: b.InitKeys},
		{Name: "install dependencies", State: StateDepsReady, Run: b.InstallDeps},
		{Name: "apply schema", State: StateSchemaReady, Run: b.ApplySchema},
		{Name: "patch ui", State: StateUIPatched, Run: b.PatchUI},
		{Name: "health check", State: StateHealthChecked, Advisory: true, Run: b.HealthCheck},
	}
	if launch != nil {
		steps = append(steps, Step{Name: "launch", State: StateLaunched, Run: launch})
	}
	return steps
}

// ProvisionDirs creates the environment tree under the data root. Existing
// directories are left alone, except the keys directory whose mode is
// tightened to owner-only even when it already exists.
func (b *Bootstrap) ProvisionDirs(_ context.Context) error {
	dirs := []string{
		b.paths.DBDir,
		b.paths.LogsDir,
		b.paths.AuditDir,
		b.paths.BackupsDir,
		b.paths.AnalyticsCache,
		b.paths.AnalyticsModel,
		b.paths.ReportsDir,
		b.paths.WebStaticDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if err := os.MkdirAll(b.paths.KeysDir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", b.paths.KeysDir, err)
	}
	if err := os.Chmod(b.paths.KeysDir, 0o700); err != nil {
		return fmt.Errorf("restrict %s: %w", b.paths.KeysDir, err)
	}
	return nil
}

// GenerateSampleData seeds the demo history unless the database file is
// already present.
func (b *Bootstrap) GenerateSampleData(ctx context.Context) error {
	if _, err := os.Stat(b.paths.DBFile); err == nil {
		slog.Info("database present, skipping sample data", "db", b.paths.DBFile)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", b.paths.DBFile, err)
	}

	cfg := seed.DefaultConfig(b.paths.DBFile)
	cfg.Devices = b.cfg.Simulation.Devices
	cfg.Seed = b.cfg.Simulation.Seed
	cfg.Workers = b.cfg.WorkerPoolSize

	gen, err := seed.New(cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	if err := gen.Run(ctx); err != nil {
		return fmt.Errorf("generate sample data: %w", err)
	}
	return nil
}

// InitKeys generates the master key material once. Existing keys are never
// rewritten.
func (b *Bootstrap) InitKeys(_ context.Context) error {
	created, err := secret.Init(b.paths.MasterKeyFile, b.paths.MasterSaltFile)
	if err != nil {
		return err
	}
	if created {
		slog.Info("master key material generated", "dir", b.paths.KeysDir)
	} else {
		slog.Info("master key present, keeping existing material", "key", b.paths.MasterKeyFile)
	}
	return nil
}

// InstallDeps runs the configured installer against the dependency
// manifest. With no installer configured, or no manifest file on disk,
// the step skips. A failing install is fatal.
func (b *Bootstrap) InstallDeps(ctx context.Context) error {
	installer := b.cfg.Bootstrap.Installer
	manifest := b.cfg.Bootstrap.Manifest
	if installer == "" || manifest == "" {
		slog.Info("no installer configured, skipping dependency install")
		return nil
	}
	if _, err := os.Stat(manifest); os.IsNotExist(err) {
		slog.Info("dependency manifest absent, skipping install", "manifest", manifest)
		return nil
	}

	args := append(slices.Clone(b.cfg.Bootstrap.InstallerArgs), manifest)
	slog.Info("installing dependencies", "installer", installer, "manifest", manifest)

	stdout, stderr, err := b.runner.Run(ctx, installer, args...)
	if err != nil {
		return fmt.Errorf("install dependencies: %w (stderr: %s)", err, strings.TrimSpace(stderr))
	}
	if out := strings.TrimSpace(stdout); out != "" {
		slog.Debug("installer output", "stdout", out)
	}
	return nil
}

// ApplySchema opens the database, applies the idempotent schema and
// verifies the catalog holds exactly the expected tables.
func (b *Bootstrap) ApplySchema(_ context.Context) error {
	s, err := store.New(b.paths.DBFile)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	defer s.Close()

	names, err := s.TableNames()
	if err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}
	want := []string{"device_data", "energy_data", "system_metrics"}
	if !slices.Equal(names, want) {
		return fmt.Errorf("schema check: catalog lists %v, want %v", names, want)
	}
	return nil
}

// PatchUI renders the dashboard pages into the static directory, seals a
// backup of the effective config, and runs the optional patch hook.
func (b *Bootstrap) PatchUI(ctx context.Context) error {
	if err := webassets.Sync(b.paths); err != nil {
		return fmt.Errorf("sync web assets: %w", err)
	}
	if err := b.sealConfigBackup(); err != nil {
		return fmt.Errorf("seal config backup: %w", err)
	}

	if cmd := b.cfg.Bootstrap.UIPatchCmd; cmd != "" {
		slog.Info("running ui patch hook", "cmd", cmd)
		_, stderr, err := b.runner.Run(ctx, cmd, b.cfg.Bootstrap.UIPatchArgs...)
		if err != nil {
			return fmt.Errorf("ui patch hook: %w (stderr: %s)", err, strings.TrimSpace(stderr))
		}
	}
	return nil
}

// sealConfigBackup encrypts the effective configuration under a subkey of
// the master key and drops it in the backups directory. Requires InitKeys
// to have run.
func (b *Bootstrap) sealConfigBackup() error {
	material, err := secret.Load(b.paths.MasterKeyFile, b.paths.MasterSaltFile)
	if err != nil {
		return fmt.Errorf("load key material: %w", err)
	}
	sealer, err := secret.NewSealer(material.DeriveKey("config-backup", 32))
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(b.cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	sealed, err := sealer.Seal(raw)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("config-%s.sealed", time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(b.paths.BackupsDir, name)
	if err := os.WriteFile(path, []byte(sealed), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Debug("config backup sealed", "path", path)
	return nil
}

// HealthCheck probes the optional subsystems and configured external
// tools. It reports degradation through its error, but its step is
// advisory: the sequence proceeds regardless.
func (b *Bootstrap) HealthCheck(ctx context.Context) error {
	type probe struct {
		name  string
		check func() error
	}
	probes := []probe{
		{"scoring engine", scoring.SelfTest},
		{"alert manager", alerter.SelfTest},
		{"configuration", b.cfg.Validate},
	}
	for _, tool := range b.cfg.Bootstrap.Tools {
		probes = append(probes, probe{"tool " + tool, func() error {
			_, err := exec.LookPath(tool)
			return err
		}})
	}

	degraded := 0
	for _, p := range probes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.check(); err != nil {
			degraded++
			slog.Warn("health probe failed", "probe", p.name, "error", err)
			continue
		}
		slog.Info("health probe ok", "probe", p.name)
	}
	if degraded > 0 {
		return fmt.Errorf("%d of %d probes failed", degraded, len(probes))
	}
	return nil
}
