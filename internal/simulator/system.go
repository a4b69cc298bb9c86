package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/store"
)

// SystemCollector samples host-level metrics for the twin: utilisation
// percentages, network throughput and the connection count.
type SystemCollector struct {
	interval    time.Duration
	connections int
	rnd         *rand.Rand
	cache       *cache.Cache
	store       *store.Store
}

func NewSystemCollector(connections int, rnd *rand.Rand, interval time.Duration, c *cache.Cache, s *store.Store) *SystemCollector {
	return &SystemCollector{
		interval:    interval,
		connections: connections,
		rnd:         rnd,
		cache:       c,
		store:       s,
	}
}

func (s *SystemCollector) Name() string {
	return "system"
}

func (s *SystemCollector) Interval() time.Duration {
	return s.interval
}

func (s *SystemCollector) Collect(_ context.Context) error {
	now := time.Now()
	m := SystemSample(s.rnd, s.connections, now)

	s.cache.UpdateSystemMetrics(m)
	s.cache.SetLastPoll(s.Name(), now)

	if err := s.store.InsertSystemMetrics(m); err != nil {
		return fmt.Errorf("persist system metrics: %w", err)
	}
	return nil
}

// SystemSample draws one host-level sample. Utilisation stays in realistic
// operating bands rather than spanning 0-100.
func SystemSample(rnd *rand.Rand, connections int, now time.Time) model.SystemMetrics {
	return model.SystemMetrics{
		Timestamp:         now,
		CPUUsagePct:       round2(20 + rnd.Float64()*60),
		MemoryUsagePct:    round2(40 + rnd.Float64()*35),
		DiskUsagePct:      round2(45 + rnd.Float64()*40),
		NetworkIOMbps:     round2(50 + rnd.Float64()*200),
		ActiveConnections: connections,
	}
}
