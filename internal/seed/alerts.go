package seed

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/twinspect/twinspect/internal/model"
)

// SampleAlertCount is how many historical alerts SampleAlerts fabricates.
const SampleAlertCount = 15

type alertTemplate struct {
	title    string
	message  string
	severity string
	category string
}

var sampleTemplates = []alertTemplate{
	{"High Temperature Alert", "Temperature sensor reading above normal threshold", "warning", "environmental"},
	{"Pressure Anomaly Detected", "Unusual pressure readings detected on production line", "critical", "safety"},
	{"Vibration Level Elevated", "Machine vibration levels exceeding normal parameters", "warning", "maintenance"},
	{"Device Communication Lost", "Lost communication with sensor device", "critical", "connectivity"},
	{"Efficiency Drop Detected", "System efficiency has dropped below optimal levels", "info", "performance"},
}

var randomTemplates = []alertTemplate{
	{title: "Sensor Reading Anomaly", severity: "warning"},
	{title: "System Performance Alert", severity: "info"},
	{title: "Connection Timeout", severity: "critical"},
	{title: "Maintenance Required", severity: "warning"},
}

// SampleAlerts fabricates a feed of historical alerts spread over the last
// day, newest first. Returns nil when there are no devices to pin them to.
func SampleAlerts(rnd *rand.Rand, deviceIDs []string, now time.Time) []model.Alert {
	if len(deviceIDs) == 0 {
		return nil
	}

	alerts := make([]model.Alert, 0, SampleAlertCount)
	for range SampleAlertCount {
		tpl := sampleTemplates[rnd.Intn(len(sampleTemplates))]
		device := deviceIDs[rnd.Intn(len(deviceIDs))]
		age := time.Duration(1+rnd.Intn(1440)) * time.Minute
		alerts = append(alerts, model.Alert{
			ID:        uuid.New().String(),
			Title:     tpl.title,
			Message:   tpl.message + " - " + device,
			Severity:  tpl.severity,
			Category:  tpl.category,
			DeviceID:  device,
			Timestamp: now.Add(-age),
		})
	}
	slices.SortFunc(alerts, func(a, b model.Alert) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return alerts
}

// RandomAlert fabricates a single live alert of the sort that occasionally
// surfaces while the feed is being read.
func RandomAlert(rnd *rand.Rand, deviceIDs []string, now time.Time) model.Alert {
	tpl := randomTemplates[rnd.Intn(len(randomTemplates))]
	device := "SYSTEM"
	if len(deviceIDs) > 0 {
		device = deviceIDs[rnd.Intn(len(deviceIDs))]
	}
	return model.Alert{
		ID:        uuid.New().String(),
		Title:     tpl.title,
		Message:   fmt.Sprintf("%s detected on %s", tpl.title, device),
		Severity:  tpl.severity,
		Category:  "system",
		DeviceID:  device,
		Timestamp: now,
	}
}
