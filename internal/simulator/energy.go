package simulator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/store"
)

const energyCostPerKWh = 0.12

// EnergyCollector models plant power draw as a daily sine wave with noise
// and derives consumption and cost per sampling interval.
type EnergyCollector struct {
	interval time.Duration
	rnd      *rand.Rand
	cache    *cache.Cache
	store    *store.Store
}

func NewEnergyCollector(rnd *rand.Rand, interval time.Duration, c *cache.Cache, s *store.Store) *EnergyCollector {
	return &EnergyCollector{
		interval: interval,
		rnd:      rnd,
		cache:    c,
		store:    s,
	}
}

func (e *EnergyCollector) Name() string {
	return "energy"
}

func (e *EnergyCollector) Interval() time.Duration {
	return e.interval
}

func (e *EnergyCollector) Collect(_ context.Context) error {
	now := time.Now()
	sample := EnergySampleAt(e.rnd, e.interval, now)

	e.cache.UpdateEnergy(sample)
	e.cache.SetLastPoll(e.Name(), now)

	if err := e.store.InsertEnergySample(sample); err != nil {
		return fmt.Errorf("persist energy sample: %w", err)
	}
	return nil
}

// EnergySampleAt draws the plant's energy state at a point in time. The
// interval scales consumption and cost, so backfills and live sampling use
// the same formula.
func EnergySampleAt(rnd *rand.Rand, interval time.Duration, now time.Time) model.EnergySample {
	hour := float64(now.Hour()) + float64(now.Minute())/60

	// Power follows a daily sine wave; efficiency runs in counter-phase
	// so the plant is least efficient at peak load.
	power := 1200 + math.Sin(2*math.Pi*hour/24)*300 + (rnd.Float64()*100 - 50)
	efficiency := 85 + 10*math.Sin(2*math.Pi*hour/24+math.Pi) + (rnd.Float64()*4 - 2)

	consumed := power * interval.Hours()

	return model.EnergySample{
		Timestamp:         now,
		PowerKW:           round2(power),
		EnergyConsumedKWh: round2(consumed),
		EfficiencyPct:     round2(efficiency),
		CostUSD:           round2(consumed * energyCostPerKWh),
	}
}
