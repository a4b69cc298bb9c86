// Package store provides SQLite persistence for twinspect.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/twinspect/twinspect/internal/model"
	_ "modernc.org/sqlite"
)

// timeFormat is the fixed-width UTC layout used for DATETIME columns so
// string comparison matches chronological order.
const timeFormat = "2006-01-02 15:04:05.000"

// Store wraps a SQLite database for twinspect data persistence.
type Store struct {
	db *sql.DB
}

// New opens or creates a SQLite database at the given path and applies the
// schema. The schema is idempotent, so calling New against an existing
// database leaves its contents untouched.
func New(dbPath string) (*Store, error) {
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TableNames returns the user tables in the database catalog, sorted by
// name. SQLite-internal tables (sqlite_sequence etc.) are excluded.
func (s *Store) TableNames() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// InsertDeviceReading records one device measurement.
func (s *Store) InsertDeviceReading(r model.DeviceReading) error {
	_, err := s.db.Exec(`
		INSERT INTO device_data
		(device_id, device_name, device_type, timestamp, value, unit,
		 health_score, efficiency_score, status, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.DeviceID, r.DeviceName, r.DeviceType, formatTime(r.Timestamp),
		r.Value, r.Unit, r.HealthScore, r.EfficiencyScore, r.Status, r.Location,
	)
	if err != nil {
		return fmt.Errorf("inserting device reading: %w", err)
	}
	return nil
}

// InsertDeviceReadings records a batch of device measurements in one
// transaction. Used by the seed generator where per-row commits would be
// far too slow.
func (s *Store) InsertDeviceReadings(readings []model.DeviceReading) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO device_data
		(device_id, device_name, device_type, timestamp, value, unit,
		 health_score, efficiency_score, status, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.Exec(
			r.DeviceID, r.DeviceName, r.DeviceType, formatTime(r.Timestamp),
			r.Value, r.Unit, r.HealthScore, r.EfficiencyScore, r.Status, r.Location,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting device reading for %s: %w", r.DeviceID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing device readings: %w", err)
	}
	return nil
}

// InsertSystemMetrics records one host resource sample.
func (s *Store) InsertSystemMetrics(m model.SystemMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO system_metrics
		(timestamp, cpu_usage_percent, memory_usage_percent, disk_usage_percent,
		 network_io_mbps, active_connections)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(m.Timestamp), m.CPUUsagePct, m.MemoryUsagePct,
		m.DiskUsagePct, m.NetworkIOMbps, m.ActiveConnections,
	)
	if err != nil {
		return fmt.Errorf("inserting system metrics: %w", err)
	}
	return nil
}

// InsertEnergySample records one plant-wide energy sample.
func (s *Store) InsertEnergySample(e model.EnergySample) error {
	_, err := s.db.Exec(`
		INSERT INTO energy_data
		(timestamp, power_consumption_kw, energy_consumed_kwh,
		 efficiency_percent, cost_usd)
		VALUES (?, ?, ?, ?, ?)`,
		formatTime(e.Timestamp), e.PowerKW, e.EnergyConsumedKWh,
		e.EfficiencyPct, e.CostUSD,
	)
	if err != nil {
		return fmt.Errorf("inserting energy sample: %w", err)
	}
	return nil
}

// QueryDeviceHistory returns readings for one device since the given time,
// oldest first.
func (s *Store) QueryDeviceHistory(deviceID string, since time.Time) ([]model.DeviceReading, error) {
	rows, err := s.db.Query(`
		SELECT device_id, device_name, device_type, timestamp, value, unit,
		       health_score, efficiency_score, status, location
		FROM device_data
		WHERE device_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, deviceID, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying device history: %w", err)
	}
	defer rows.Close()

	var readings []model.DeviceReading
	for rows.Next() {
		var r model.DeviceReading
		var ts string
		if err := rows.Scan(
			&r.DeviceID, &r.DeviceName, &r.DeviceType, &ts, &r.Value, &r.Unit,
			&r.HealthScore, &r.EfficiencyScore, &r.Status, &r.Location,
		); err != nil {
			return nil, fmt.Errorf("scanning device reading: %w", err)
		}
		r.Timestamp, err = parseTime(ts)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// QuerySystemMetrics returns host samples since the given time, oldest first.
func (s *Store) QuerySystemMetrics(since time.Time) ([]model.SystemMetrics, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, cpu_usage_percent, memory_usage_percent,
		       disk_usage_percent, network_io_mbps, active_connections
		FROM system_metrics
		WHERE timestamp >= ?
		ORDER BY timestamp ASC`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying system metrics: %w", err)
	}
	defer rows.Close()

	var samples []model.SystemMetrics
	for rows.Next() {
		var m model.SystemMetrics
		var ts string
		if err := rows.Scan(
			&ts, &m.CPUUsagePct, &m.MemoryUsagePct, &m.DiskUsagePct,
			&m.NetworkIOMbps, &m.ActiveConnections,
		); err != nil {
			return nil, fmt.Errorf("scanning system metrics: %w", err)
		}
		m.Timestamp, err = parseTime(ts)
		if err != nil {
			return nil, err
		}
		samples = append(samples, m)
	}
	return samples, rows.Err()
}

// QueryEnergySeries returns energy samples since the given time, oldest first.
func (s *Store) QueryEnergySeries(since time.Time) ([]model.EnergySample, error) {
	rows, err := s.db.Query(`
		SELECT timestamp, power_consumption_kw, energy_consumed_kwh,
		       efficiency_percent, cost_usd
		FROM energy_data
		WHERE timestamp >= ?
		ORDER BY timestamp ASC`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying energy series: %w", err)
	}
	defer rows.Close()

	var samples []model.EnergySample
	for rows.Next() {
		var e model.EnergySample
		var ts string
		if err := rows.Scan(
			&ts, &e.PowerKW, &e.EnergyConsumedKWh, &e.EfficiencyPct, &e.CostUSD,
		); err != nil {
			return nil, fmt.Errorf("scanning energy sample: %w", err)
		}
		e.Timestamp, err = parseTime(ts)
		if err != nil {
			return nil, err
		}
		samples = append(samples, e)
	}
	return samples, rows.Err()
}

// CountDeviceReadings returns the total number of persisted device rows.
func (s *Store) CountDeviceReadings() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM device_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting device readings: %w", err)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
