package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/scoring"
)

// deviceClass describes one simulated device type and the range its raw
// readings are drawn from.
type deviceClass struct {
	Type    string
	Label   string
	GenLow  float64
	GenHigh float64
}

var deviceClasses = []deviceClass{
	{Type: "temperature_sensor", Label: "Temperature Sensor", GenLow: 18, GenHigh: 35},
	{Type: "pressure_sensor", Label: "Pressure Sensor", GenLow: 900, GenHigh: 1100},
	{Type: "vibration_sensor", Label: "Vibration Sensor", GenLow: 0.1, GenHigh: 0.5},
	{Type: "humidity_sensor", Label: "Humidity Sensor", GenLow: 35, GenHigh: 75},
	{Type: "flow_meter", Label: "Flow Meter", GenLow: 10, GenHigh: 50},
}

var locations = []string{
	"Production Line 1",
	"Production Line 2",
	"Quality Control",
	"Warehouse A",
	"Warehouse B",
	"Maintenance Shop",
}

// classFor returns the device class for a type, defaulting to the first
// class for unknown types.
func classFor(deviceType string) deviceClass {
	for _, c := range deviceClasses {
		if c.Type == deviceType {
			return c
		}
	}
	return deviceClasses[0]
}

// loadFactor maps a reading onto 0..1 within its class generation range.
func (c deviceClass) loadFactor(value float64) float64 {
	if c.GenHigh <= c.GenLow {
		return 0
	}
	load := (value - c.GenLow) / (c.GenHigh - c.GenLow)
	if load < 0 {
		return 0
	}
	if load > 1 {
		return 1
	}
	return load
}

// initialStatus draws a device status with the fleet's base failure rates:
// 85% normal, 10% warning, 5% critical.
func initialStatus(rnd *rand.Rand) string {
	r := rnd.Float64()
	switch {
	case r > 0.15:
		return model.StatusNormal
	case r > 0.05:
		return model.StatusWarning
	default:
		return model.StatusCritical
	}
}

// rerollStatus draws a fresh status with weights 70/25/5.
func rerollStatus(rnd *rand.Rand) string {
	r := rnd.Float64()
	switch {
	case r < 0.70:
		return model.StatusNormal
	case r < 0.95:
		return model.StatusWarning
	default:
		return model.StatusCritical
	}
}

// NewFleet builds n simulated devices with ids DEVICE_001..DEVICE_n.
func NewFleet(n int, rnd *rand.Rand, now time.Time) map[string]*model.Device {
	fleet := make(map[string]*model.Device, n)
	for i := 1; i <= n; i++ {
		class := deviceClasses[rnd.Intn(len(deviceClasses))]
		th, _ := scoring.LookupThreshold(class.Type)

		status := initialStatus(rnd)
		health := scoring.HealthScore(status, rnd)
		value := round2(class.GenLow + rnd.Float64()*(class.GenHigh-class.GenLow))

		d := &model.Device{
			ID:              fmt.Sprintf("DEVICE_%03d", i),
			Name:            fmt.Sprintf("%s %d", class.Label, i),
			Type:            class.Type,
			Location:        locations[rnd.Intn(len(locations))],
			Status:          status,
			Value:           value,
			Unit:            th.Unit,
			HealthScore:     health,
			EfficiencyScore: scoring.EfficiencyScore(health, class.loadFactor(value)),
			LastUpdated:     now,
		}
		fleet[d.ID] = d
	}
	return fleet
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
