// Package bootstrap provisions the twinspect on-disk environment and runs
// the startup sequence: directories, sample data, key material, external
// dependencies, database schema, web assets and health probes, in that
// order, ending in the server launch.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twinspect/twinspect/internal/metrics"
)

// State names the stage the sequence has reached. Each successful step
// advances the state; the first fatal failure moves it to StateFailed.
type State string

const (
	StateInit          State = "INIT"
	StateDirsReady     State = "DIRS_READY"
	StateDataReady     State = "DATA_READY"
	StateKeysReady     State = "KEYS_READY"
	StateDepsReady     State = "DEPS_READY"
	StateSchemaReady   State = "SCHEMA_READY"
	StateUIPatched     State = "UI_PATCHED"
	StateHealthChecked State = "HEALTH_CHECKED"
	StateLaunched      State = "LAUNCHED"
	StateFailed        State = "FAILED"
)

// StepFunc is one bootstrap action.
type StepFunc func(ctx context.Context) error

// Step is a named stage of the sequence. Advisory steps log their failure
// and let the sequence continue; all others abort it.
type Step struct {
	Name     string
	State    State
	Advisory bool
	Run      StepFunc
}

// Sequence executes steps strictly in order. There is no concurrency
// between steps and no retry: a fatal error surfaces immediately with the
// failing step named in the wrap.
type Sequence struct {
	steps []Step
	state State
}

// NewSequence creates a sequence in StateInit.
func NewSequence(steps []Step) *Sequence {
	return &Sequence{steps: steps, state: StateInit}
}

// State reports the stage the sequence has reached.
func (s *Sequence) State() State {
	return s.state
}

// Run executes every step in order. Context cancellation between steps
// aborts the sequence; cancellation during a step is the step's job to
// honor (subprocess steps kill the child via CommandContext).
func (s *Sequence) Run(ctx context.Context) error {
	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.state = StateFailed
			return fmt.Errorf("interrupted before %s: %w", step.Name, err)
		}

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			if step.Advisory {
				metrics.RecordBootstrapStep(step.Name, "degraded")
				slog.Warn("bootstrap step degraded", "step", step.Name, "error", err)
				s.state = step.State
				continue
			}
			metrics.RecordBootstrapStep(step.Name, "failed")
			s.state = StateFailed
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		metrics.RecordBootstrapStep(step.Name, "ok")
		s.state = step.State
		slog.Info("bootstrap step complete",
			"step", step.Name,
			"state", string(s.state),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
	return nil
}
