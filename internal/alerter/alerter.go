// Package alerter evaluates alert rules against cached state.
package alerter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/metrics"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/notify"
	"github.com/twinspect/twinspect/internal/scoring"
)

// AlertConfig holds configuration for alert rules.
type AlertConfig struct {
	DeviceCritical    *SimpleAlert    `yaml:"device_critical"`
	ReadingOutOfRange *SustainedAlert `yaml:"reading_out_of_range"`
	DeviceStale       *StaleAlert     `yaml:"device_stale"`
	EnergyOverBudget  *BudgetAlert    `yaml:"energy_over_budget"`
}

// SimpleAlert triggers on a boolean condition.
type SimpleAlert struct {
	Severity string        `yaml:"severity"`
	Cooldown time.Duration `yaml:"cooldown"`
}

// SustainedAlert triggers when a condition holds for a duration.
type SustainedAlert struct {
	Duration time.Duration `yaml:"duration"`
	Severity string        `yaml:"severity"`
	Cooldown time.Duration `yaml:"cooldown"`
}

// StaleAlert triggers when a device has not reported for too long.
type StaleAlert struct {
	GracePeriod time.Duration `yaml:"grace_period"`
	Severity    string        `yaml:"severity"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// BudgetAlert triggers when power draw exceeds a budget.
type BudgetAlert struct {
	ThresholdKW float64       `yaml:"threshold_kw"`
	Severity    string        `yaml:"severity"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// DefaultAlertConfig returns sensible alert defaults.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		DeviceCritical: &SimpleAlert{
			Severity: "critical", Cooldown: 15 * time.Minute,
		},
		ReadingOutOfRange: &SustainedAlert{
			Duration: 2 * time.Minute, Severity: "warning", Cooldown: 30 * time.Minute,
		},
		DeviceStale: &StaleAlert{
			GracePeriod: 2 * time.Minute, Severity: "critical", Cooldown: 30 * time.Minute,
		},
		EnergyOverBudget: &BudgetAlert{
			ThresholdKW: 1600, Severity: "warning", Cooldown: 1 * time.Hour,
		},
	}
}

// categories maps device types onto the taxonomy the dashboard groups alerts
// by. Unknown types land in "system".
var categories = map[string]string{
	"temperature_sensor": "environmental",
	"pressure_sensor":    "safety",
	"vibration_sensor":   "maintenance",
	"humidity_sensor":    "environmental",
	"flow_meter":         "performance",
}

func categoryForType(deviceType string) string {
	if c, ok := categories[deviceType]; ok {
		return c
	}
	return "system"
}

// Alerter evaluates rules and sends notifications.
type Alerter struct {
	cache     *cache.Cache
	providers []notify.Provider
	config    AlertConfig
	interval  time.Duration

	// Deduplication: maps alert key → last fired time
	lastFired map[string]time.Time

	// Track sustained conditions: maps alert key → first observed time
	sustained map[string]time.Time
}

// NewAlerter creates a new alerter.
func NewAlerter(c *cache.Cache, providers []notify.Provider, cfg AlertConfig) *Alerter {
	return &Alerter{
		cache:     c,
		providers: providers,
		config:    cfg,
		interval:  30 * time.Second,
		lastFired: make(map[string]time.Time),
		sustained: make(map[string]time.Time),
	}
}

// Run starts the alerter evaluation loop.
func (a *Alerter) Run(ctx context.Context) error {
	slog.Info("alerter started", "interval", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("alerter stopped")
			return ctx.Err()
		case <-ticker.C:
			a.evaluate(ctx)
		}
	}
}

func (a *Alerter) cleanup(now time.Time) {
	const maxAge = 6 * time.Hour
	for key, t := range a.lastFired {
		if now.Sub(t) > maxAge {
			delete(a.lastFired, key)
		}
	}
	for key, t := range a.sustained {
		if now.Sub(t) > maxAge {
			delete(a.sustained, key)
		}
	}
}

func (a *Alerter) evaluate(ctx context.Context) {
	snap := a.cache.Snapshot()
	now := time.Now()

	a.cleanup(now)

	for id, dev := range snap.Devices {
		// Device reporting critical status
		if a.config.DeviceCritical != nil && dev.Status == model.StatusCritical {
			a.fire(ctx, now, "device_critical:"+id, a.config.DeviceCritical.Cooldown, model.Notification{
				AlertType: "device_critical",
				Severity:  a.config.DeviceCritical.Severity,
				Title:     fmt.Sprintf("Device Critical: %s", dev.Name),
				Message:   fmt.Sprintf("[%s] %s reports critical status (health %.2f)", id, dev.Name, dev.HealthScore),
				DeviceID:  id,
				Subject:   dev.Name,
				Timestamp: now,
				Metadata: map[string]string{
					"location": dev.Location,
					"health":   fmt.Sprintf("%.2f", dev.HealthScore),
				},
			}, categoryForType(dev.Type))
		}

		// Reading outside the normal band for the device type
		if a.config.ReadingOutOfRange != nil {
			a.checkSustainedRange(ctx, now, id, dev)
		}

		// Device gone silent
		if a.config.DeviceStale != nil && now.Sub(dev.LastUpdated) > a.config.DeviceStale.GracePeriod {
			age := now.Sub(dev.LastUpdated)
			a.fire(ctx, now, "device_stale:"+id, a.config.DeviceStale.Cooldown, model.Notification{
				AlertType: "device_stale",
				Severity:  a.config.DeviceStale.Severity,
				Title:     fmt.Sprintf("Device Communication Lost: %s", dev.Name),
				Message:   fmt.Sprintf("[%s] %s last reported %.0fs ago", id, dev.Name, age.Seconds()),
				DeviceID:  id,
				Subject:   dev.Name,
				Timestamp: now,
				Metadata:  map[string]string{"last_updated": dev.LastUpdated.Format(time.RFC3339)},
			}, "connectivity")
		}
	}

	// Power draw over budget
	if a.config.EnergyOverBudget != nil && snap.Energy != nil &&
		snap.Energy.PowerKW >= a.config.EnergyOverBudget.ThresholdKW {
		a.fire(ctx, now, "energy_budget", a.config.EnergyOverBudget.Cooldown, model.Notification{
			AlertType: "energy_over_budget",
			Severity:  a.config.EnergyOverBudget.Severity,
			Title:     "Energy Budget Exceeded",
			Message: fmt.Sprintf("Power draw at %.0f kW exceeds the %.0f kW budget",
				snap.Energy.PowerKW, a.config.EnergyOverBudget.ThresholdKW),
			Subject:   "energy",
			Timestamp: now,
			Metadata:  map[string]string{"power_kw": fmt.Sprintf("%.0f", snap.Energy.PowerKW)},
		}, "performance")
	}
}

// checkSustainedRange fires once a reading has sat outside its type's normal
// band for the configured duration.
func (a *Alerter) checkSustainedRange(ctx context.Context, now time.Time, id string, dev *model.Device) {
	cfg := a.config.ReadingOutOfRange
	key := "reading_range:" + id

	if scoring.Classify(dev.Type, dev.Value) == model.StatusNormal {
		delete(a.sustained, key)
		return
	}

	first, ok := a.sustained[key]
	if !ok {
		a.sustained[key] = now
		return
	}
	if now.Sub(first) < cfg.Duration {
		return
	}

	th, _ := scoring.LookupThreshold(dev.Type)
	a.fire(ctx, now, key, cfg.Cooldown, model.Notification{
		AlertType: "reading_out_of_range",
		Severity:  cfg.Severity,
		Title:     fmt.Sprintf("Reading Out of Range: %s", dev.Name),
		Message: fmt.Sprintf("[%s] %.2f %s outside normal band %g-%g %s",
			id, dev.Value, dev.Unit, th.NormalLow, th.NormalHigh, th.Unit),
		DeviceID:  id,
		Subject:   dev.Name,
		Timestamp: now,
		Metadata:  map[string]string{"value": fmt.Sprintf("%.2f", dev.Value)},
	}, categoryForType(dev.Type))
}

func (a *Alerter) fire(ctx context.Context, now time.Time, key string, cooldown time.Duration, notif model.Notification, category string) {
	if last, ok := a.lastFired[key]; ok && now.Sub(last) < cooldown {
		return // still in cooldown
	}
	a.lastFired[key] = now

	// Publish to the in-memory feed the dashboard reads
	a.cache.PushAlert(model.Alert{
		ID:        uuid.New().String(),
		Title:     notif.Title,
		Message:   notif.Message,
		Severity:  notif.Severity,
		Category:  category,
		DeviceID:  notif.DeviceID,
		Timestamp: now,
	})

	metrics.RecordAlert(notif.Severity, category)

	// Send to all providers
	for _, p := range a.providers {
		if err := p.Send(ctx, notif); err != nil {
			slog.Error("sending notification", "provider", p.Name(), "alert", notif.AlertType, "error", err)
		}
	}

	slog.Warn("alert fired",
		"type", notif.AlertType,
		"severity", notif.Severity,
		"device", notif.DeviceID,
		"title", notif.Title,
	)
}

// SelfTest evaluates the default rules against a synthetic fleet and reports
// whether the expected alerts reach the feed.
func SelfTest() error {
	c := cache.New()
	now := time.Now()
	c.UpdateDevices(map[string]*model.Device{
		"SELFTEST_001": {
			ID:          "SELFTEST_001",
			Name:        "Self Test Sensor",
			Type:        "temperature_sensor",
			Status:      model.StatusCritical,
			Value:       22,
			Unit:        "°C",
			HealthScore: 0.2,
			LastUpdated: now,
		},
	})
	c.UpdateEnergy(model.EnergySample{Timestamp: now, PowerKW: 99999})

	a := NewAlerter(c, nil, DefaultAlertConfig())
	a.evaluate(context.Background())

	alerts := c.RecentAlerts(0)
	if len(alerts) == 0 {
		return errors.New("no alert fired for a critical device")
	}
	seen := make(map[string]bool, len(alerts))
	for _, al := range alerts {
		seen[al.Title] = true
	}
	if !seen["Device Critical: Self Test Sensor"] {
		return errors.New("device critical rule did not fire")
	}
	if !seen["Energy Budget Exceeded"] {
		return errors.New("energy budget rule did not fire")
	}
	return nil
}
