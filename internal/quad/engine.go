package quad

import (
	"fmt"

	"github.com/eli-will-2656/quadsim/internal/dynamo"
)

const (
	defaultTolerance = 1e-6
	defaultMinDt     = 1e-8
)

// Engine owns the current vehicle state and advances it one timestep at a
// time. The state field is the only persistent mutable state in the core;
// an engine must not be shared between concurrent runs.
type Engine struct {
	dyn        *Dynamics
	integrator dynamo.Integrator
	state      State
	steps      int
	t          float64
	tolerance  float64
	minDt      float64
}

func NewEngine(dyn *Dynamics, integrator dynamo.Integrator, initial State) *Engine {
	return &Engine{
		dyn:        dyn,
		integrator: integrator,
		state:      initial,
		tolerance:  defaultTolerance,
		minDt:      defaultMinDt,
	}
}

// State returns a snapshot of the current state.
func (e *Engine) State() State { return e.state }

// Dynamics exposes the underlying model for metrics and display.
func (e *Engine) Dynamics() *Dynamics { return e.dyn }

// Reset rewinds the engine to a fresh state and zero time.
func (e *Engine) Reset(s State) {
	e.state = s
	e.steps = 0
	e.t = 0
}

// Step integrates the equations of motion over [t, t+dt] under constant
// rotor commands, stores the result as the new current state and returns
// it. The orientation quaternion is renormalized after every step; the raw
// ODE solution does not preserve unit norm exactly.
//
// A diverged or non-finite solution is reported as an error wrapping
// dynamo.ErrUnstable (or dynamo.ErrStepTooSmall when the adaptive step
// collapses); the stored state is left at its pre-step value so the caller
// can inspect it.
func (e *Engine) Step(c Commands, dt float64) (State, error) {
	if dt <= 0 {
		return e.state, fmt.Errorf("quad: dt must be positive, got %g", dt)
	}

	y := e.state.Vector()
	u := c.Control()

	var err error
	if adaptive, ok := e.integrator.(dynamo.AdaptiveIntegrator); ok {
		y, err = e.integrateAdaptive(adaptive, y, u, dt)
	} else {
		y = e.integrator.Step(e.dyn, y, u, e.t, dt)
	}
	if err == nil && !y.IsValid() {
		err = dynamo.ErrUnstable
	}
	if err != nil {
		return e.state, &dynamo.StepError{Step: e.steps, Time: e.t, Wrapped: err}
	}

	next := StateFromVector(y)
	next.Orientation = next.Orientation.Normalized()

	e.state = next
	e.steps++
	e.t += dt
	return next, nil
}

// integrateAdaptive covers [0, dt] with error-controlled substeps. The
// trial step shrinks on rejection; if it falls below the floor the
// problem is too stiff for the solver and the step fails.
func (e *Engine) integrateAdaptive(integ dynamo.AdaptiveIntegrator, y dynamo.State, u dynamo.Control, dt float64) (dynamo.State, error) {
	elapsed := 0.0
	h := dt

	for elapsed < dt {
		if h > dt-elapsed {
			h = dt - elapsed
		}

		yNext, hNext, err := integ.StepAdaptive(e.dyn, y, u, e.t+elapsed, h, e.tolerance)
		if err != nil {
			return y, err
		}

		if hNext < h {
			// rejected: retry from the same point with the smaller step
			if hNext < e.minDt {
				return y, dynamo.ErrStepTooSmall
			}
			h = hNext
			continue
		}

		if !yNext.IsValid() {
			return y, dynamo.ErrUnstable
		}

		elapsed += h
		y = yNext
		h = hNext
	}

	return y, nil
}
