package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/twinspect/twinspect/internal/alerter"
	"github.com/twinspect/twinspect/internal/api"
	"github.com/twinspect/twinspect/internal/bootstrap"
	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/config"
	"github.com/twinspect/twinspect/internal/notify"
	"github.com/twinspect/twinspect/internal/seed"
	"github.com/twinspect/twinspect/internal/simulator"
	"github.com/twinspect/twinspect/internal/store"
)

// launch wraps runApp as the final bootstrap step.
func launch(cfg *config.Config) bootstrap.StepFunc {
	return func(ctx context.Context) error {
		return runApp(ctx, cfg)
	}
}

// runApp assembles and supervises the runtime: the simulated collectors,
// the history pruner, the alerter and the HTTP server, all under one
// errgroup. It blocks until the context is cancelled or a component fails;
// a cancellation-driven shutdown returns nil.
func runApp(ctx context.Context, cfg *config.Config) error {
	paths := cfg.Paths()
	sim := cfg.Simulation

	st, err := store.New(paths.DBFile)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	c := cache.New()

	// One rng per collector goroutine, derived from the same seed so a
	// seeded run replays identically regardless of scheduling.
	base := simulator.EffectiveSeed(sim.Seed)
	devices := simulator.NewDeviceCollector(sim.Devices, rand.New(rand.NewSource(base)), sim.DeviceInterval.Duration, c, st)
	system := simulator.NewSystemCollector(sim.Devices, rand.New(rand.NewSource(base+1)), sim.SystemInterval.Duration, c, st)
	energy := simulator.NewEnergyCollector(rand.New(rand.NewSource(base+2)), sim.EnergyInterval.Duration, c, st)

	// Prime the alert feed so the dashboard has history on first paint.
	// SampleAlerts returns newest first; push oldest first so the cache
	// keeps that order.
	feed := seed.SampleAlerts(rand.New(rand.NewSource(base+3)), devices.DeviceIDs(), time.Now())
	for i := len(feed) - 1; i >= 0; i-- {
		c.PushAlert(feed[i])
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return simulator.Run(ctx, devices) })
	g.Go(func() error { return simulator.Run(ctx, system) })
	g.Go(func() error { return simulator.Run(ctx, energy) })

	pruner := store.NewPruner(st, store.DefaultRetention())
	g.Go(func() error { return pruner.Run(ctx) })

	var providers []notify.Provider
	for _, ncfg := range cfg.Notifications {
		switch ncfg.Type {
		case "ntfy":
			providers = append(providers, notify.NewNtfy(ncfg.URL, ncfg.Topic))
		case "webhook":
			method := ncfg.Method
			if method == "" {
				method = "POST"
			}
			providers = append(providers, notify.NewWebhook(ncfg.URL, method, ncfg.Headers))
		}
	}

	a := alerter.NewAlerter(c, providers, alertConfig(cfg))
	g.Go(func() error { return a.Run(ctx) })

	server := api.NewServer(cfg.Listen, c, st, paths.WebStaticDir)
	g.Go(func() error { return server.Run(ctx) })

	slog.Info("all components started",
		"devices", devices.FleetSize(),
		"collectors", 3,
		"notifications", len(providers),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// alertConfig overlays the configured alert thresholds onto the defaults.
// A rule block that is absent from the config keeps its default tuning;
// severity is only overridden when set.
func alertConfig(cfg *config.Config) alerter.AlertConfig {
	alertCfg := alerter.DefaultAlertConfig()
	if cfg.Alerts.DeviceCritical != nil {
		alertCfg.DeviceCritical.Cooldown = cfg.Alerts.DeviceCritical.Cooldown.Duration
		if cfg.Alerts.DeviceCritical.Severity != "" {
			alertCfg.DeviceCritical.Severity = cfg.Alerts.DeviceCritical.Severity
		}
	}
	if cfg.Alerts.ReadingOutOfRange != nil {
		alertCfg.ReadingOutOfRange.Duration = cfg.Alerts.ReadingOutOfRange.Duration.Duration
		if cfg.Alerts.ReadingOutOfRange.Severity != "" {
			alertCfg.ReadingOutOfRange.Severity = cfg.Alerts.ReadingOutOfRange.Severity
		}
	}
	if cfg.Alerts.DeviceStale != nil {
		alertCfg.DeviceStale.GracePeriod = cfg.Alerts.DeviceStale.GracePeriod.Duration
		if cfg.Alerts.DeviceStale.Severity != "" {
			alertCfg.DeviceStale.Severity = cfg.Alerts.DeviceStale.Severity
		}
	}
	if cfg.Alerts.EnergyOverBudget != nil {
		alertCfg.EnergyOverBudget.ThresholdKW = cfg.Alerts.EnergyOverBudget.ThresholdKW
		if cfg.Alerts.EnergyOverBudget.Severity != "" {
			alertCfg.EnergyOverBudget.Severity = cfg.Alerts.EnergyOverBudget.Severity
		}
	}
	return alertCfg
}
