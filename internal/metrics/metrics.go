// Package metrics provides run-level scalar metrics over simulation
// samples, implementing the [quad.Metric] interface.
package metrics

import (
	"math"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

// ControlEffort is the mean absolute rotor rate over a run.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s quad.State, cmd quad.Commands, t float64) {
	for _, w := range cmd {
		c.sum += math.Abs(w)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(4*c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// NormDrift tracks the worst deviation of the orientation quaternion from
// unit norm seen during a run.
type NormDrift struct {
	maxDrift float64
}

func NewNormDrift() *NormDrift {
	return &NormDrift{}
}

func (n *NormDrift) Name() string { return "norm_drift" }

func (n *NormDrift) Observe(s quad.State, cmd quad.Commands, t float64) {
	drift := math.Abs(s.Orientation.Norm() - 1)
	if drift > n.maxDrift {
		n.maxDrift = drift
	}
}

func (n *NormDrift) Value() float64 { return n.maxDrift }
func (n *NormDrift) Reset()         { n.maxDrift = 0 }

// TrackingError is the mean distance between the vehicle and the
// trajectory setpoint.
type TrackingError struct {
	traj    quad.Trajectory
	sum     float64
	samples int
}

func NewTrackingError(traj quad.Trajectory) *TrackingError {
	return &TrackingError{traj: traj}
}

func (e *TrackingError) Name() string { return "tracking_error" }

func (e *TrackingError) Observe(s quad.State, cmd quad.Commands, t float64) {
	target := e.traj.Eval(t)
	e.sum += s.Position.Sub(target.Position).Norm()
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *TrackingError) Reset() {
	e.sum = 0
	e.samples = 0
}

// Energy averages the total mechanical energy reported by the dynamics.
type Energy struct {
	dyn     *quad.Dynamics
	sum     float64
	samples int
}

func NewEnergy(dyn *quad.Dynamics) *Energy {
	return &Energy{dyn: dyn}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(s quad.State, cmd quad.Commands, t float64) {
	e.sum += e.dyn.Energy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}
