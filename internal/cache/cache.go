package cache

import (
	"maps"
	"sync"
	"time"

	"github.com/twinspect/twinspect/internal/model"
)

// maxAlerts caps the in-memory alert feed. Older alerts fall off the end;
// nothing is persisted.
const maxAlerts = 50

// Cache is a thread-safe in-memory store for the live twin state.
type Cache struct {
	mu sync.RWMutex

	Devices  map[string]*model.Device
	System   *model.SystemMetrics
	Energy   *model.EnergySample
	Alerts   []model.Alert
	LastPoll map[string]time.Time
}

// Snapshot is a read-only deep copy of the cache state.
type Snapshot struct {
	Devices  map[string]*model.Device
	System   *model.SystemMetrics
	Energy   *model.EnergySample
	Alerts   []model.Alert
	LastPoll map[string]time.Time
}

// New returns an initialized Cache.
func New() *Cache {
	return &Cache{
		Devices:  make(map[string]*model.Device),
		LastPoll: make(map[string]time.Time),
	}
}

// Snapshot returns a deep copy of the cache contents.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Devices:  make(map[string]*model.Device, len(c.Devices)),
		LastPoll: make(map[string]time.Time, len(c.LastPoll)),
	}

	for id, d := range c.Devices {
		cp := *d
		snap.Devices[id] = &cp
	}
	if c.System != nil {
		cp := *c.System
		snap.System = &cp
	}
	if c.Energy != nil {
		cp := *c.Energy
		snap.Energy = &cp
	}
	if len(c.Alerts) > 0 {
		snap.Alerts = make([]model.Alert, len(c.Alerts))
		copy(snap.Alerts, c.Alerts)
	}
	maps.Copy(snap.LastPoll, c.LastPoll)

	return snap
}

// UpdateDevices replaces the whole device fleet.
func (c *Cache) UpdateDevices(devices map[string]*model.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Devices = devices
}

// UpdateSystemMetrics stores the latest host resource sample.
func (c *Cache) UpdateSystemMetrics(m model.SystemMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.System = &m
}

// UpdateEnergy stores the latest energy sample.
func (c *Cache) UpdateEnergy(e model.EnergySample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Energy = &e
}

// PushAlert prepends an alert to the feed, newest first, dropping the
// oldest entries beyond the cap.
func (c *Cache) PushAlert(a model.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Alerts = append([]model.Alert{a}, c.Alerts...)
	if len(c.Alerts) > maxAlerts {
		c.Alerts = c.Alerts[:maxAlerts]
	}
}

// RecentAlerts returns up to limit alerts, newest first.
func (c *Cache) RecentAlerts(limit int) []model.Alert {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if limit <= 0 || limit > len(c.Alerts) {
		limit = len(c.Alerts)
	}
	out := make([]model.Alert, limit)
	copy(out, c.Alerts[:limit])
	return out
}

// SetLastPoll records the last poll time for a collector.
func (c *Cache) SetLastPoll(collectorID string, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastPoll[collectorID] = t
}
