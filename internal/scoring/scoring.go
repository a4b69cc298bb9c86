// Package scoring classifies device readings against per-type operating
// bands and derives health and efficiency scores from the result.
package scoring

import (
	"fmt"
	"math/rand"

	"github.com/twinspect/twinspect/internal/model"
)

// Health score bands per status. A device's health score is always drawn
// from the band matching its status.
const (
	healthNormalLow   = 0.80
	healthWarningLow  = 0.50
	healthCriticalLow = 0.10
	healthCriticalTop = 0.50
)

// Classify maps a reading to a device status using the type's operating
// bands. Unknown device types classify as normal.
func Classify(deviceType string, value float64) string {
	t, ok := LookupThreshold(deviceType)
	if !ok {
		return model.StatusNormal
	}
	if value < t.CritLow || value > t.CritHigh {
		return model.StatusCritical
	}
	if value >= t.NormalLow && value <= t.NormalHigh {
		return model.StatusNormal
	}
	return model.StatusWarning
}

// HealthBand returns the inclusive health score range for a status.
func HealthBand(status string) (low, high float64) {
	switch status {
	case model.StatusCritical:
		return healthCriticalLow, healthCriticalTop
	case model.StatusWarning:
		return healthWarningLow, healthNormalLow
	default:
		return healthNormalLow, 1.0
	}
}

// HealthScore draws a health score from the band for the given status.
func HealthScore(status string, rnd *rand.Rand) float64 {
	low, high := HealthBand(status)
	return low + rnd.Float64()*(high-low)
}

// EfficiencyScore blends device health with the current load factor
// (0 idle, 1 fully loaded). A fully loaded healthy device still runs at
// about 70% efficiency.
func EfficiencyScore(health, load float64) float64 {
	if load < 0 {
		load = 0
	} else if load > 1 {
		load = 1
	}
	e := health * (1 - 0.3*load)
	if e < 0 {
		return 0
	}
	if e > 1 {
		return 1
	}
	return e
}

// SelfTest verifies the threshold table and classification behave sanely.
// It backs the advisory health check and returns the first inconsistency
// found.
func SelfTest() error {
	for _, deviceType := range DeviceTypes() {
		t, _ := LookupThreshold(deviceType)
		if t.Unit == "" {
			return fmt.Errorf("%s: missing unit", deviceType)
		}
		if t.NormalLow > t.NormalHigh {
			return fmt.Errorf("%s: inverted normal band", deviceType)
		}
		if t.CritLow > t.NormalLow || t.CritHigh < t.NormalHigh {
			return fmt.Errorf("%s: critical bounds inside normal band", deviceType)
		}
		mid := (t.NormalLow + t.NormalHigh) / 2
		if got := Classify(deviceType, mid); got != model.StatusNormal {
			return fmt.Errorf("%s: mid-band value classified %s", deviceType, got)
		}
		if got := Classify(deviceType, t.CritHigh+1); got != model.StatusCritical {
			return fmt.Errorf("%s: out-of-bounds value classified %s", deviceType, got)
		}
	}

	for _, status := range []string{model.StatusNormal, model.StatusWarning, model.StatusCritical} {
		low, high := HealthBand(status)
		if low >= high {
			return fmt.Errorf("health band for %s is empty", status)
		}
	}
	if e := EfficiencyScore(1.0, 0); e != 1.0 {
		return fmt.Errorf("idle healthy device scored %.2f efficiency", e)
	}
	return nil
}
