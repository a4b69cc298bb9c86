// Package model defines all shared domain types for twinspect.
package model

import "time"

// Device statuses as reported by the fleet.
const (
	StatusNormal   = "normal"
	StatusWarning  = "warning"
	StatusCritical = "critical"
	StatusOffline  = "offline"
)

// Alert severities, ordered by urgency.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Device represents the live state of one twinned device.
type Device struct {
	ID              string    `json:"device_id"`
	Name            string    `json:"device_name"`
	Type            string    `json:"device_type"` // "temperature_sensor", "pressure_sensor", ...
	Location        string    `json:"location"`
	Status          string    `json:"status"` // "normal", "warning", "critical", "offline"
	Value           float64   `json:"value"`
	Unit            string    `json:"unit"`
	HealthScore     float64   `json:"health_score"`     // 0.0-1.0
	EfficiencyScore float64   `json:"efficiency_score"` // 0.0-1.0
	LastUpdated     time.Time `json:"last_updated"`
}

// SystemMetrics is a sample of host-level resource usage.
type SystemMetrics struct {
	Timestamp         time.Time `json:"timestamp"`
	CPUUsagePct       float64   `json:"cpu_usage_percent"`
	MemoryUsagePct    float64   `json:"memory_usage_percent"`
	DiskUsagePct      float64   `json:"disk_usage_percent"`
	NetworkIOMbps     float64   `json:"network_io_mbps"`
	ActiveConnections int       `json:"active_connections"`
}

// EnergySample is one reading of plant-wide energy state.
type EnergySample struct {
	Timestamp         time.Time `json:"timestamp"`
	PowerKW           float64   `json:"power_consumption_kw"`
	EnergyConsumedKWh float64   `json:"energy_consumed_kwh"`
	EfficiencyPct     float64   `json:"efficiency_percent"`
	CostUSD           float64   `json:"cost_usd"`
}

// Alert is a fired alert in the in-memory feed. Alerts are never persisted.
type Alert struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Severity     string    `json:"severity"` // "info", "warning", "critical"
	Category     string    `json:"category"` // "environmental", "safety", "maintenance", "connectivity", "performance"
	DeviceID     string    `json:"device_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
	Resolved     bool      `json:"resolved"`
}

// DeviceReading is a time-series record of one device measurement.
type DeviceReading struct {
	Timestamp       time.Time `json:"timestamp"`
	DeviceID        string    `json:"device_id"`
	DeviceName      string    `json:"device_name"`
	DeviceType      string    `json:"device_type"`
	Value           float64   `json:"value"`
	Unit            string    `json:"unit"`
	HealthScore     float64   `json:"health_score"`
	EfficiencyScore float64   `json:"efficiency_score"`
	Status          string    `json:"status"`
	Location        string    `json:"location"`
}

// TrendPoint is a single data point for trend chart rendering.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// SensorSeries is a 24h analytics series for one sensor class.
type SensorSeries struct {
	Sensor       string       `json:"sensor"`
	Unit         string       `json:"unit"`
	Points       []TrendPoint `json:"points"`
	ThresholdLow float64      `json:"threshold_low"`
	ThresholdHi  float64      `json:"threshold_high"`
}

// FleetSummary aggregates the current device fleet for the dashboard.
type FleetSummary struct {
	TotalDevices  int            `json:"total_devices"`
	ByStatus      map[string]int `json:"by_status"`
	AvgHealth     float64        `json:"avg_health"`
	AvgEfficiency float64        `json:"avg_efficiency"`
}

// Notification is the structured message handed to notify providers.
type Notification struct {
	AlertType string            `json:"alert_type"`
	Severity  string            `json:"severity"` // "info", "warning", "critical"
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	DeviceID  string            `json:"device_id"`
	Subject   string            `json:"subject"`
	Timestamp time.Time         `json:"timestamp"`
	Resolved  bool              `json:"resolved"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
