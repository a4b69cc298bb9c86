package simulator

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/twinspect/twinspect/internal/model"
)

// SensorPattern describes the synthetic daily curve for one analytics
// sensor class.
type SensorPattern struct {
	Sensor       string
	Unit         string
	Base         float64
	Amplitude    float64
	Frequency    float64
	ThresholdLow float64
	ThresholdHi  float64
}

// Ordered for stable page and API output.
var analyticsPatterns = []SensorPattern{
	{Sensor: "temperature", Unit: "°C", Base: 22, Amplitude: 3, Frequency: 0.1, ThresholdLow: 18, ThresholdHi: 28},
	{Sensor: "pressure", Unit: "hPa", Base: 1013, Amplitude: 20, Frequency: 0.05, ThresholdLow: 980, ThresholdHi: 1040},
	{Sensor: "vibration", Unit: "mm/s", Base: 0.25, Amplitude: 0.1, Frequency: 0.2, ThresholdLow: 0, ThresholdHi: 0.5},
	{Sensor: "power", Unit: "kW", Base: 1200, Amplitude: 300, Frequency: 0.08, ThresholdLow: 800, ThresholdHi: 1800},
	{Sensor: "humidity", Unit: "%RH", Base: 55, Amplitude: 15, Frequency: 0.12, ThresholdLow: 40, ThresholdHi: 70},
}

// AnalyticsPatterns returns the sensor patterns in display order.
func AnalyticsPatterns() []SensorPattern {
	return slices.Clone(analyticsPatterns)
}

// AnalyticsSeries samples a pattern hourly over the 24 hours ending at end:
// a sine wave around the base plus gaussian noise, with two sensor quirks.
// Vibration occasionally spikes; power carries a working-hours load bump.
func AnalyticsSeries(rnd *rand.Rand, p SensorPattern, end time.Time) []model.TrendPoint {
	points := make([]model.TrendPoint, 0, 24)
	for i := range 24 {
		ts := end.Add(-time.Duration(23-i) * time.Hour)
		value := p.Base +
			p.Amplitude*math.Sin(2*math.Pi*float64(i)/24*p.Frequency) +
			rnd.NormFloat64()*p.Amplitude*0.1

		switch p.Sensor {
		case "vibration":
			if rnd.Float64() < 0.05 {
				value += rnd.ExpFloat64() * 0.1
			}
		case "power":
			if h := ts.Hour(); h >= 8 && h <= 18 {
				value += p.Amplitude * 0.3
			}
		}

		points = append(points, model.TrendPoint{Timestamp: ts, Value: round2(value)})
	}
	return points
}
