package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twinspect/twinspect/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		deviceType string
		value      float64
		want       string
	}{
		{"temperature mid band", "temperature_sensor", 22, model.StatusNormal},
		{"temperature normal edge", "temperature_sensor", 28, model.StatusNormal},
		{"temperature above normal", "temperature_sensor", 30, model.StatusWarning},
		{"temperature above critical", "temperature_sensor", 33, model.StatusCritical},
		{"temperature below critical", "temperature_sensor", 14, model.StatusCritical},
		{"pressure normal", "pressure_sensor", 1013, model.StatusNormal},
		{"pressure low warning", "pressure_sensor", 960, model.StatusWarning},
		{"pressure low critical", "pressure_sensor", 940, model.StatusCritical},
		{"vibration normal", "vibration_sensor", 0.25, model.StatusNormal},
		{"vibration warning", "vibration_sensor", 0.40, model.StatusWarning},
		{"vibration critical", "vibration_sensor", 0.48, model.StatusCritical},
		{"humidity normal", "humidity_sensor", 55, model.StatusNormal},
		{"flow warning", "flow_meter", 13, model.StatusWarning},
		{"unknown type", "plasma_sensor", 9999, model.StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.deviceType, tt.value))
		})
	}
}

func TestHealthBand(t *testing.T) {
	low, high := HealthBand(model.StatusNormal)
	assert.Equal(t, 0.80, low)
	assert.Equal(t, 1.0, high)

	low, high = HealthBand(model.StatusWarning)
	assert.Equal(t, 0.50, low)
	assert.Equal(t, 0.80, high)

	low, high = HealthBand(model.StatusCritical)
	assert.Equal(t, 0.10, low)
	assert.Equal(t, 0.50, high)
}

func TestHealthScore_WithinBand(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, status := range []string{model.StatusNormal, model.StatusWarning, model.StatusCritical} {
		low, high := HealthBand(status)
		for range 100 {
			score := HealthScore(status, rnd)
			assert.GreaterOrEqual(t, score, low, status)
			assert.LessOrEqual(t, score, high, status)
		}
	}
}

func TestEfficiencyScore(t *testing.T) {
	assert.Equal(t, 1.0, EfficiencyScore(1.0, 0))
	assert.InDelta(t, 0.70, EfficiencyScore(1.0, 1.0), 0.001)
	assert.InDelta(t, 0.425, EfficiencyScore(0.5, 0.5), 0.001)
}

func TestEfficiencyScore_ClampsLoad(t *testing.T) {
	assert.Equal(t, EfficiencyScore(0.9, 0), EfficiencyScore(0.9, -3))
	assert.Equal(t, EfficiencyScore(0.9, 1), EfficiencyScore(0.9, 42))
}

func TestLookupThreshold(t *testing.T) {
	th, ok := LookupThreshold("temperature_sensor")
	require.True(t, ok)
	assert.Equal(t, "°C", th.Unit)
	assert.Equal(t, 18.0, th.NormalLow)
	assert.Equal(t, 28.0, th.NormalHigh)

	_, ok = LookupThreshold("unknown")
	assert.False(t, ok)
}

func TestDeviceTypes(t *testing.T) {
	types := DeviceTypes()
	assert.Len(t, types, 5)
	assert.Contains(t, types, "temperature_sensor")
	assert.Contains(t, types, "flow_meter")
}

func TestSelfTest(t *testing.T) {
	assert.NoError(t, SelfTest())
}

func FuzzClassify(f *testing.F) {
	f.Add("temperature_sensor", 22.0)
	f.Add("pressure_sensor", 9999.0)
	f.Add("flow_meter", -50.0)
	f.Add("unknown_type", 0.0)
	f.Fuzz(func(t *testing.T, deviceType string, value float64) {
		status := Classify(deviceType, value)
		switch status {
		case model.StatusNormal, model.StatusWarning, model.StatusCritical:
		default:
			t.Fatalf("Classify(%q, %v) = %q, not a reading status", deviceType, value, status)
		}
	})
}
