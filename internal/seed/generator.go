// Package seed fabricates a plausible window of history for a fresh
// environment so the dashboard has data before the first live collection.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/simulator"
	"github.com/twinspect/twinspect/internal/store"
)

// Backfill spacing per series.
const (
	deviceStep = 5 * time.Minute
	systemStep = 10 * time.Minute
	energyStep = 30 * time.Minute
)

// Config holds configuration for the generator.
type Config struct {
	DBPath  string
	Devices int
	Hours   int
	Seed    int64
	Workers int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:  dbPath,
		Devices: 20,
		Hours:   24,
		Seed:    0,
		Workers: 4,
	}
}

// Generator walks a simulated fleet backwards through history and persists
// the resulting series.
type Generator struct {
	config Config
	seed   int64
	rng    *rand.Rand
	store  *store.Store
	pool   *simulator.WorkerPool
}

// New creates a new Generator with the given configuration. It opens (and
// if needed creates) the database at cfg.DBPath.
func New(cfg Config) (*Generator, error) {
	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	seed := simulator.EffectiveSeed(cfg.Seed)
	return &Generator{
		config: cfg,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		store:  s,
		pool:   simulator.NewWorkerPool(cfg.Workers),
	}, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return g.store.Close()
}

// Run generates the full backfill: one reading series per device plus the
// system and energy series. Device series run through the worker pool, each
// on its own derived rng so results do not depend on scheduling.
func (g *Generator) Run(ctx context.Context) error {
	now := time.Now()
	start := now.Add(-time.Duration(g.config.Hours) * time.Hour)

	fleet := simulator.NewFleet(g.config.Devices, g.rng, start)
	ids := make([]string, 0, len(fleet))
	for id := range fleet {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var wg sync.WaitGroup
	errCh := make(chan error, len(ids))
	for i, id := range ids {
		dev := fleet[id]
		devRNG := rand.New(rand.NewSource(g.seed + int64(i) + 1))

		wg.Add(1)
		if err := g.pool.Submit(ctx, func() {
			defer wg.Done()
			if err := g.backfillDevice(dev, devRNG, start, now); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit device backfill: %w", err)
		}
	}
	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
	}

	if err := g.backfillSystem(ctx, start, now); err != nil {
		return err
	}
	if err := g.backfillEnergy(ctx, start, now); err != nil {
		return err
	}

	total, err := g.store.CountDeviceReadings()
	if err != nil {
		return fmt.Errorf("count readings: %w", err)
	}
	slog.Info("seed complete",
		"devices", len(ids),
		"hours", g.config.Hours,
		"readings", total,
		"seed", g.seed,
	)
	return nil
}

func (g *Generator) backfillDevice(dev *model.Device, rnd *rand.Rand, start, end time.Time) error {
	batch := make([]model.DeviceReading, 0, int(end.Sub(start)/deviceStep)+1)
	for ts := start; ts.Before(end); ts = ts.Add(deviceStep) {
		simulator.StepDevice(dev, rnd, ts)
		batch = append(batch, simulator.ReadingFrom(dev, ts))
	}
	if err := g.store.InsertDeviceReadings(batch); err != nil {
		return fmt.Errorf("backfill %s: %w", dev.ID, err)
	}
	return nil
}

func (g *Generator) backfillSystem(ctx context.Context, start, end time.Time) error {
	for ts := start; ts.Before(end); ts = ts.Add(systemStep) {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := simulator.SystemSample(g.rng, g.config.Devices, ts)
		if err := g.store.InsertSystemMetrics(m); err != nil {
			return fmt.Errorf("backfill system metrics: %w", err)
		}
	}
	return nil
}

func (g *Generator) backfillEnergy(ctx context.Context, start, end time.Time) error {
	for ts := start; ts.Before(end); ts = ts.Add(energyStep) {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := simulator.EnergySampleAt(g.rng, energyStep, ts)
		if err := g.store.InsertEnergySample(e); err != nil {
			return fmt.Errorf("backfill energy: %w", err)
		}
	}
	return nil
}
