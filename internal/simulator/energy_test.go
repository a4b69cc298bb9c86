package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twinspect/twinspect/internal/cache"
)

func TestNewEnergyCollector(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	ec := NewEnergyCollector(NewSeededRNG(1), 30*time.Second, c, s)

	assert.Equal(t, "energy", ec.Name())
	assert.Equal(t, 30*time.Second, ec.Interval())
}

func TestEnergySampleAt_WithinDailyEnvelope(t *testing.T) {
	rnd := NewSeededRNG(2)

	for hour := range 24 {
		ts := time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
		sample := EnergySampleAt(rnd, 30*time.Second, ts)

		// Sine base 1200 kW, amplitude 300, noise +-50
		assert.GreaterOrEqual(t, sample.PowerKW, 850.0)
		assert.LessOrEqual(t, sample.PowerKW, 1550.0)

		// Efficiency base 85%, amplitude 10, noise +-2
		assert.GreaterOrEqual(t, sample.EfficiencyPct, 73.0)
		assert.LessOrEqual(t, sample.EfficiencyPct, 97.0)
	}
}

func TestEnergySampleAt_ConsumptionMatchesInterval(t *testing.T) {
	interval := 30 * time.Second

	sample := EnergySampleAt(NewSeededRNG(3), interval, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	assert.InDelta(t, sample.PowerKW*interval.Hours(), sample.EnergyConsumedKWh, 0.02)
	assert.InDelta(t, sample.EnergyConsumedKWh*energyCostPerKWh, sample.CostUSD, 0.01)
}

func TestEnergySampleAt_DailyWavePhase(t *testing.T) {
	rnd := NewSeededRNG(4)

	// Average a handful of draws to wash out the +-50 kW noise.
	avg := func(hour int) float64 {
		var sum float64
		for range 20 {
			sum += EnergySampleAt(rnd, time.Minute, time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)).PowerKW
		}
		return sum / 20
	}

	peak := avg(6)
	trough := avg(18)
	assert.Greater(t, peak, trough,
		"power wave crests a quarter period into the day and bottoms out half a day later")
}

func TestEnergyCollect_UpdatesCacheAndStore(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	ec := NewEnergyCollector(NewSeededRNG(5), 30*time.Second, c, s)

	require.NoError(t, ec.Collect(context.Background()))

	snap := c.Snapshot()
	require.NotNil(t, snap.Energy)
	assert.Greater(t, snap.Energy.PowerKW, 0.0)
	_, ok := snap.LastPoll["energy"]
	assert.True(t, ok)

	rows, err := s.QueryEnergySeries(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
