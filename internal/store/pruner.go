package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetentionConfig defines how long to keep data in each table.
type RetentionConfig struct {
	DeviceData    time.Duration // default 48h
	SystemMetrics time.Duration // default 48h
	EnergyData    time.Duration // default 7d
}

// DefaultRetention returns the default retention periods.
func DefaultRetention() RetentionConfig {
	return RetentionConfig{
		DeviceData:    48 * time.Hour,
		SystemMetrics: 48 * time.Hour,
		EnergyData:    7 * 24 * time.Hour,
	}
}

// Pruner periodically removes old rows from the store. It only ever
// deletes rows; tables are permanent.
type Pruner struct {
	store     *Store
	retention RetentionConfig
	interval  time.Duration
}

// NewPruner creates a pruner with the given retention config.
func NewPruner(store *Store, retention RetentionConfig) *Pruner {
	return &Pruner{
		store:     store,
		retention: retention,
		interval:  1 * time.Hour,
	}
}

// Run starts the pruner loop. It blocks until the context is cancelled.
func (p *Pruner) Run(ctx context.Context) error {
	slog.Info("pruner started", "interval", p.interval)

	// Run once at startup
	p.prune()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("pruner stopped")
			return ctx.Err()
		case <-ticker.C:
			p.prune()
		}
	}
}

func (p *Pruner) prune() {
	now := time.Now()
	tables := []struct {
		name      string
		retention time.Duration
	}{
		{"device_data", p.retention.DeviceData},
		{"system_metrics", p.retention.SystemMetrics},
		{"energy_data", p.retention.EnergyData},
	}

	for _, t := range tables {
		cutoff := formatTime(now.Add(-t.retention))
		result, err := p.store.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE timestamp < ?", t.name), cutoff)
		if err != nil {
			slog.Error("pruning failed", "table", t.name, "error", err)
			continue
		}
		rows, _ := result.RowsAffected()
		if rows > 0 {
			slog.Info("pruned old data", "table", t.name, "rows", rows)
		}
	}
}
