package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twinspect/twinspect/internal/model"
)

func newTestStore(t testing.TB) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testReading(deviceID string, ts time.Time, value float64) model.DeviceReading {
	return model.DeviceReading{
		Timestamp:       ts,
		DeviceID:        deviceID,
		DeviceName:      "Temperature Sensor 1",
		DeviceType:      "temperature_sensor",
		Value:           value,
		Unit:            "°C",
		HealthScore:     0.92,
		EfficiencyScore: 0.85,
		Status:          model.StatusNormal,
		Location:        "Production Line 1",
	}
}

func TestNew(t *testing.T) {
	s := newTestStore(t)
	assert.NotNil(t, s)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/dir/test.db")
	assert.Error(t, err)
}

func TestNew_WritesToDisk(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", time.Now(), 23.5)))
	require.NoError(t, s.Close())

	// Opening an existing database reapplies the schema without touching rows.
	s, err = New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountDeviceReadings()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTableNames_ExactlyThree(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	// Apply the schema several times; the catalog must not grow.
	for range 3 {
		s, err := New(dbPath)
		require.NoError(t, err)

		names, err := s.TableNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"device_data", "energy_data", "system_metrics"}, names)

		require.NoError(t, s.Close())
	}
}

func TestTableNames_ExcludesInternalTables(t *testing.T) {
	s := newTestStore(t)

	// AUTOINCREMENT creates sqlite_sequence once a row is inserted.
	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", time.Now(), 23.5)))

	names, err := s.TableNames()
	require.NoError(t, err)
	assert.Len(t, names, 3)
	assert.NotContains(t, names, "sqlite_sequence")
}

func TestInsertDeviceReading(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertDeviceReading(testReading("DEVICE_001", time.Now(), 23.5))
	assert.NoError(t, err)
}

func TestInsertDeviceReadings_Batch(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	readings := make([]model.DeviceReading, 0, 10)
	for i := range 10 {
		readings = append(readings, testReading("DEVICE_001", now.Add(time.Duration(i)*time.Minute), 20+float64(i)))
	}

	require.NoError(t, s.InsertDeviceReadings(readings))

	n, err := s.CountDeviceReadings()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestInsertDeviceReadings_Empty(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.InsertDeviceReadings(nil))
}

func TestQueryDeviceHistory(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	for i := range 5 {
		err := s.InsertDeviceReading(testReading("DEVICE_001", now.Add(-time.Duration(4-i)*time.Minute), float64(20+i)))
		require.NoError(t, err)
	}
	// A different device must not appear in the result.
	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_002", now, 99)))

	readings, err := s.QueryDeviceHistory("DEVICE_001", now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Len(t, readings, 5)
	assert.Equal(t, float64(20), readings[0].Value)
	assert.Equal(t, float64(24), readings[4].Value)
	assert.Equal(t, "DEVICE_001", readings[0].DeviceID)
}

func TestQueryDeviceHistory_SinceFilter(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", now.Add(-2*time.Hour), 20)))
	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", now, 25)))

	readings, err := s.QueryDeviceHistory("DEVICE_001", now.Add(-1*time.Hour))
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, float64(25), readings[0].Value)
}

func TestQueryDeviceHistory_Empty(t *testing.T) {
	s := newTestStore(t)
	readings, err := s.QueryDeviceHistory("DEVICE_999", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestQueryDeviceHistory_RoundTripsTimestamps(t *testing.T) {
	s := newTestStore(t)
	ts := time.Date(2025, 6, 1, 12, 30, 45, 500*int(time.Millisecond), time.UTC)

	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", ts, 23.5)))

	readings, err := s.QueryDeviceHistory("DEVICE_001", ts.Add(-time.Second))
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.True(t, readings[0].Timestamp.Equal(ts))
}

func TestInsertSystemMetrics(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertSystemMetrics(model.SystemMetrics{
		Timestamp:         time.Now(),
		CPUUsagePct:       42.5,
		MemoryUsagePct:    61.0,
		DiskUsagePct:      48.2,
		NetworkIOMbps:     125.4,
		ActiveConnections: 20,
	})
	assert.NoError(t, err)
}

func TestQuerySystemMetrics(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	for i := range 3 {
		err := s.InsertSystemMetrics(model.SystemMetrics{
			Timestamp:         now.Add(-time.Duration(2-i) * time.Minute),
			CPUUsagePct:       float64(30 + i*10),
			MemoryUsagePct:    60,
			DiskUsagePct:      50,
			NetworkIOMbps:     100,
			ActiveConnections: 20,
		})
		require.NoError(t, err)
	}

	samples, err := s.QuerySystemMetrics(now.Add(-5 * time.Minute))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, float64(30), samples[0].CPUUsagePct)
	assert.Equal(t, float64(50), samples[2].CPUUsagePct)
	assert.Equal(t, 20, samples[0].ActiveConnections)
}

func TestInsertEnergySample(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertEnergySample(model.EnergySample{
		Timestamp:         time.Now(),
		PowerKW:           1350.5,
		EnergyConsumedKWh: 22.5,
		EfficiencyPct:     87.2,
		CostUSD:           2.70,
	})
	assert.NoError(t, err)
}

func TestQueryEnergySeries(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	for i := range 4 {
		err := s.InsertEnergySample(model.EnergySample{
			Timestamp:         now.Add(-time.Duration(3-i) * time.Hour),
			PowerKW:           1200 + float64(i)*50,
			EnergyConsumedKWh: float64(i),
			EfficiencyPct:     85,
			CostUSD:           0.12 * float64(i),
		})
		require.NoError(t, err)
	}

	samples, err := s.QueryEnergySeries(now.Add(-2 * time.Hour).Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 1250.0, samples[0].PowerKW)
}

func TestCountDeviceReadings(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CountDeviceReadings()
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.InsertDeviceReading(testReading("DEVICE_001", time.Now(), 23.5)))

	n, err = s.CountDeviceReadings()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// ---------------------------------------------------------------------------
// Error paths: closed DB triggers all error returns
// ---------------------------------------------------------------------------

func closedTestStore(t testing.TB) *Store {
	t.Helper()
	s := newTestStore(t)
	s.Close()
	return s
}

func TestInsertDeviceReading_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	err := s.InsertDeviceReading(testReading("DEVICE_001", time.Now(), 1))
	assert.Error(t, err)
}

func TestInsertDeviceReadings_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	err := s.InsertDeviceReadings([]model.DeviceReading{testReading("DEVICE_001", time.Now(), 1)})
	assert.Error(t, err)
}

func TestInsertSystemMetrics_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	err := s.InsertSystemMetrics(model.SystemMetrics{Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestInsertEnergySample_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	err := s.InsertEnergySample(model.EnergySample{Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestQueryDeviceHistory_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	_, err := s.QueryDeviceHistory("DEVICE_001", time.Time{})
	assert.Error(t, err)
}

func TestQuerySystemMetrics_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	_, err := s.QuerySystemMetrics(time.Time{})
	assert.Error(t, err)
}

func TestQueryEnergySeries_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	_, err := s.QueryEnergySeries(time.Time{})
	assert.Error(t, err)
}

func TestTableNames_ClosedDB(t *testing.T) {
	s := closedTestStore(t)
	_, err := s.TableNames()
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

func BenchmarkInsertDeviceReading(b *testing.B) {
	s := newTestStore(b)
	r := testReading("DEVICE_001", time.Now(), 23.5)
	b.ResetTimer()
	for b.Loop() {
		_ = s.InsertDeviceReading(r)
	}
}

func BenchmarkQueryDeviceHistory(b *testing.B) {
	s := newTestStore(b)
	now := time.Now()
	for i := range 200 {
		_ = s.InsertDeviceReading(testReading("DEVICE_001", now.Add(-time.Duration(200-i)*time.Minute), float64(20+(i%10))))
	}
	b.ResetTimer()
	for b.Loop() {
		_, _ = s.QueryDeviceHistory("DEVICE_001", now.Add(-time.Hour))
	}
}
