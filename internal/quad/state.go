package quad

import (
	"github.com/golang/geo/r3"

	"github.com/eli-will-2656/quadsim/internal/dynamo"
	"github.com/eli-will-2656/quadsim/internal/rotation"
)

// StateDim is the flat-vector size of a State: position (3), velocity (3),
// orientation quaternion (4), body angular velocity (3).
const StateDim = 13

// State is the full rigid-body state of the vehicle. Position and velocity
// are world-frame, angular velocity is body-frame.
type State struct {
	Position        r3.Vector
	Velocity        r3.Vector
	Orientation     rotation.Rotation
	AngularVelocity r3.Vector
}

// Vector flattens the state for the integrator. The layout is fixed:
// [px py pz vx vy vz qw qx qy qz wx wy wz].
func (s State) Vector() dynamo.State {
	qw, qx, qy, qz := s.Orientation.Components()
	return dynamo.State{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		qw, qx, qy, qz,
		s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
	}
}

// StateFromVector is the exact inverse of Vector. The quaternion is taken
// as-is; renormalization is a separate, explicit engine step.
func StateFromVector(x dynamo.State) State {
	return State{
		Position:        r3.Vector{X: x[0], Y: x[1], Z: x[2]},
		Velocity:        r3.Vector{X: x[3], Y: x[4], Z: x[5]},
		Orientation:     rotation.FromComponents(x[6], x[7], x[8], x[9]),
		AngularVelocity: r3.Vector{X: x[10], Y: x[11], Z: x[12]},
	}
}

// Commands carries one angular rate per rotor, rad/s. Values are not
// clamped or validated: negative or extreme rates square into thrust
// unchanged, the engine trusts its caller.
type Commands [4]float64

func (c Commands) Control() dynamo.Control {
	return dynamo.Control{c[0], c[1], c[2], c[3]}
}

// Setpoint is the desired state a trajectory hands to a controller.
type Setpoint struct {
	Position r3.Vector
	Velocity r3.Vector
	Yaw      float64
}

// Controller turns the current state and a desired setpoint into rotor
// commands. Implementations are swappable policy, not part of the physics.
type Controller interface {
	Step(t float64, s State, target Setpoint) Commands
}

// Trajectory is a pure, restartable function of time.
type Trajectory interface {
	Eval(t float64) Setpoint
}

// Metric accumulates a scalar over a simulation run.
type Metric interface {
	Name() string
	Observe(s State, c Commands, t float64)
	Value() float64
	Reset()
}
