package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/scoring"
	"github.com/twinspect/twinspect/internal/store"
)

// DeviceCollector advances the simulated fleet each cycle and publishes the
// result to the cache and the store.
type DeviceCollector struct {
	interval time.Duration
	fleet    map[string]*model.Device
	rnd      *rand.Rand
	cache    *cache.Cache
	store    *store.Store
}

// NewDeviceCollector builds a fleet of n devices and wires it to the cache
// and store.
func NewDeviceCollector(n int, rnd *rand.Rand, interval time.Duration, c *cache.Cache, s *store.Store) *DeviceCollector {
	return &DeviceCollector{
		interval: interval,
		fleet:    NewFleet(n, rnd, time.Now()),
		rnd:      rnd,
		cache:    c,
		store:    s,
	}
}

func (d *DeviceCollector) Name() string {
	return "devices"
}

func (d *DeviceCollector) Interval() time.Duration {
	return d.interval
}

// Collect mutates every device in place, replaces the cached fleet and
// persists one reading per device.
func (d *DeviceCollector) Collect(_ context.Context) error {
	now := time.Now()

	// Walk the fleet in id order so a seeded run replays identically.
	ids := d.DeviceIDs()

	snapshot := make(map[string]*model.Device, len(d.fleet))
	readings := make([]model.DeviceReading, 0, len(d.fleet))
	for _, id := range ids {
		dev := d.fleet[id]
		StepDevice(dev, d.rnd, now)

		cp := *dev
		snapshot[id] = &cp
		readings = append(readings, ReadingFrom(dev, now))
	}

	d.cache.UpdateDevices(snapshot)
	d.cache.SetLastPoll(d.Name(), now)

	if err := d.store.InsertDeviceReadings(readings); err != nil {
		return fmt.Errorf("persist device readings: %w", err)
	}
	return nil
}

// StepDevice applies one simulation step: the reading drifts by up to 10%,
// the status occasionally rerolls, and the scores follow the status band.
// The seed backfill walks devices through history with the same rules.
func StepDevice(dev *model.Device, rnd *rand.Rand, now time.Time) {
	variation := (rnd.Float64()*0.2 - 0.1) * dev.Value
	dev.Value = round2(dev.Value + variation)
	if dev.Value < 0 {
		dev.Value = 0
	}

	if rnd.Float64() < 0.05 {
		dev.Status = rerollStatus(rnd)
	}

	dev.HealthScore = scoring.HealthScore(dev.Status, rnd)
	dev.EfficiencyScore = scoring.EfficiencyScore(dev.HealthScore, classFor(dev.Type).loadFactor(dev.Value))
	dev.LastUpdated = now
}

// ReadingFrom flattens a device's current state into a history row.
func ReadingFrom(dev *model.Device, ts time.Time) model.DeviceReading {
	return model.DeviceReading{
		Timestamp:       ts,
		DeviceID:        dev.ID,
		DeviceName:      dev.Name,
		DeviceType:      dev.Type,
		Value:           dev.Value,
		Unit:            dev.Unit,
		HealthScore:     dev.HealthScore,
		EfficiencyScore: dev.EfficiencyScore,
		Status:          dev.Status,
		Location:        dev.Location,
	}
}

// FleetSize reports how many devices the collector simulates.
func (d *DeviceCollector) FleetSize() int {
	return len(d.fleet)
}

// DeviceIDs returns the fleet ids in sorted order.
func (d *DeviceCollector) DeviceIDs() []string {
	ids := make([]string, 0, len(d.fleet))
	for id := range d.fleet {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
