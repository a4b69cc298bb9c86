package simulator

import (
	"log/slog"
	"math/rand"
	"time"
)

// EffectiveSeed resolves a configured seed. A zero seed means "pick one":
// the current time is used and the chosen value is logged so a run can be
// replayed.
func EffectiveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	seed = time.Now().UnixNano()
	slog.Debug("using generated simulation seed", "seed", seed)
	return seed
}

// NewSeededRNG creates a seeded random number generator.
func NewSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(EffectiveSeed(seed)))
}
