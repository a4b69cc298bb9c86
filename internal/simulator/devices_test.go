package simulator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/store"
)

// newSimTestStore opens a store backed by a throwaway database file.
func newSimTestStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "twinspect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewDeviceCollector(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	dc := NewDeviceCollector(10, NewSeededRNG(1), 5*time.Second, c, s)

	assert.Equal(t, "devices", dc.Name())
	assert.Equal(t, 5*time.Second, dc.Interval())
	assert.Equal(t, 10, dc.FleetSize())
}

func TestDeviceCollect_UpdatesCache(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	dc := NewDeviceCollector(8, NewSeededRNG(2), time.Second, c, s)

	require.NoError(t, dc.Collect(context.Background()))

	snap := c.Snapshot()
	assert.Len(t, snap.Devices, 8)
	_, ok := snap.LastPoll["devices"]
	assert.True(t, ok, "last poll timestamp should be recorded")
}

func TestDeviceCollect_PersistsOneReadingPerDevice(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	dc := NewDeviceCollector(6, NewSeededRNG(3), time.Second, c, s)

	require.NoError(t, dc.Collect(context.Background()))
	require.NoError(t, dc.Collect(context.Background()))

	n, err := s.CountDeviceReadings()
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestDeviceCollect_CacheHoldsCopies(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	dc := NewDeviceCollector(3, NewSeededRNG(4), time.Second, c, s)

	require.NoError(t, dc.Collect(context.Background()))
	before := c.Snapshot()

	// A second cycle mutates the collector's fleet; the earlier snapshot
	// must not change under the reader.
	require.NoError(t, dc.Collect(context.Background()))
	after := c.Snapshot()

	changed := false
	for id, d := range before.Devices {
		if d.Value != after.Devices[id].Value || d.HealthScore != after.Devices[id].HealthScore {
			changed = true
		}
	}
	assert.True(t, changed, "expected at least one device to drift between cycles")
}

func TestStepDevice_ValueStaysNonNegative(t *testing.T) {
	rnd := NewSeededRNG(5)
	dev := NewFleet(1, rnd, time.Now())["DEVICE_001"]

	dev.Value = 0.01
	for range 200 {
		StepDevice(dev, rnd, time.Now())
		assert.GreaterOrEqual(t, dev.Value, 0.0)
	}
}

func TestStepDevice_JitterBounded(t *testing.T) {
	rnd := NewSeededRNG(6)
	dev := NewFleet(1, rnd, time.Now())["DEVICE_001"]

	for range 500 {
		prev := dev.Value
		StepDevice(dev, rnd, time.Now())
		// Rounding to two decimals adds at most half a cent on top of
		// the 10% drift bound.
		assert.LessOrEqual(t, dev.Value, prev*1.1+0.005, "value jumped more than 10%%")
		assert.GreaterOrEqual(t, dev.Value, prev*0.9-0.005, "value dropped more than 10%%")
	}
}

func TestStepDevice_ScoresTrackStatusBand(t *testing.T) {
	rnd := NewSeededRNG(7)
	dev := NewFleet(1, rnd, time.Now())["DEVICE_001"]

	for range 300 {
		StepDevice(dev, rnd, time.Now())
		switch dev.Status {
		case model.StatusNormal:
			assert.GreaterOrEqual(t, dev.HealthScore, 0.80)
		case model.StatusWarning:
			assert.GreaterOrEqual(t, dev.HealthScore, 0.50)
			assert.Less(t, dev.HealthScore, 0.80)
		case model.StatusCritical:
			assert.GreaterOrEqual(t, dev.HealthScore, 0.10)
			assert.Less(t, dev.HealthScore, 0.50)
		}
		assert.LessOrEqual(t, dev.EfficiencyScore, dev.HealthScore,
			"efficiency is health discounted by load and can never exceed it")
	}
}

func TestReadingFrom(t *testing.T) {
	ts := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	dev := &model.Device{
		ID: "DEVICE_009", Name: "Flow Meter 9", Type: "flow_meter",
		Location: "Warehouse B", Status: model.StatusNormal,
		Value: 31.4, Unit: "L/min", HealthScore: 0.9, EfficiencyScore: 0.81,
	}

	r := ReadingFrom(dev, ts)
	assert.Equal(t, ts, r.Timestamp)
	assert.Equal(t, "DEVICE_009", r.DeviceID)
	assert.Equal(t, "Flow Meter 9", r.DeviceName)
	assert.Equal(t, "flow_meter", r.DeviceType)
	assert.Equal(t, 31.4, r.Value)
	assert.Equal(t, "L/min", r.Unit)
	assert.Equal(t, 0.9, r.HealthScore)
	assert.Equal(t, 0.81, r.EfficiencyScore)
	assert.Equal(t, model.StatusNormal, r.Status)
	assert.Equal(t, "Warehouse B", r.Location)
}

func TestDeviceCollect_ReadingsCarryDeviceFields(t *testing.T) {
	c := cache.New()
	s := newSimTestStore(t)
	dc := NewDeviceCollector(4, NewSeededRNG(8), time.Second, c, s)

	require.NoError(t, dc.Collect(context.Background()))

	rows, err := s.QueryDeviceHistory("DEVICE_002", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	dev := dc.fleet["DEVICE_002"]
	got := rows[0]
	assert.Equal(t, dev.Name, got.DeviceName)
	assert.Equal(t, dev.Type, got.DeviceType)
	assert.Equal(t, dev.Unit, got.Unit)
	assert.Equal(t, dev.Status, got.Status)
	assert.Equal(t, dev.Location, got.Location)
	assert.InDelta(t, dev.Value, got.Value, 0.001)
}
