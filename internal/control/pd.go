package control

import (
	"math"

	"github.com/eli-will-2656/quadsim/internal/quad"
	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

// Gains holds the PD loop gains. Position gains map position/velocity
// error to desired acceleration; attitude gains map angle error and body
// rate directly to torque.
type Gains struct {
	KpPos float64
	KdPos float64
	KpAtt float64
	KdAtt float64
	KpYaw float64
	KdYaw float64
}

// DefaultGains are hand-tuned for the reference airframe in vehicle.Default.
func DefaultGains() Gains {
	return Gains{
		KpPos: 4.0,
		KdPos: 2.8,
		KpAtt: 0.23,
		KdAtt: 0.032,
		KpYaw: 0.10,
		KdYaw: 0.02,
	}
}

// PD is a cascaded hover controller: an outer position loop produces a
// desired acceleration, which sets collective thrust and small-angle tilt
// targets for an inner attitude loop. The resulting generalized forces are
// inverted through the mixing geometry into per-rotor rates.
type PD struct {
	params *vehicle.Params
	gains  Gains
	kt     float64
	ratio  float64 // torque/thrust ratio K
}

func NewPD(p *vehicle.Params, g Gains) *PD {
	return &PD{
		params: p,
		gains:  g,
		kt:     p.ThrustCoefficient(),
		ratio:  p.TorqueCoefficient() / p.ThrustCoefficient(),
	}
}

func (c *PD) Step(t float64, s quad.State, target quad.Setpoint) quad.Commands {
	g := c.params.Gravity

	adx := c.gains.KpPos*(target.Position.X-s.Position.X) + c.gains.KdPos*(target.Velocity.X-s.Velocity.X)
	ady := c.gains.KpPos*(target.Position.Y-s.Position.Y) + c.gains.KdPos*(target.Velocity.Y-s.Velocity.Y)
	adz := c.gains.KpPos*(target.Position.Z-s.Position.Z) + c.gains.KdPos*(target.Velocity.Z-s.Velocity.Z)

	thrust := c.params.Mass * (g + adz)
	if thrust < 0 {
		thrust = 0
	}

	// small-angle tilt targets for the lateral acceleration
	pitchDes := adx / g
	rollDes := -ady / g

	roll, pitch, yaw := s.Orientation.Euler()
	w := s.AngularVelocity

	tauRoll := c.gains.KpAtt*(rollDes-roll) - c.gains.KdAtt*w.X
	tauPitch := c.gains.KpAtt*(pitchDes-pitch) - c.gains.KdAtt*w.Y
	tauYaw := c.gains.KpYaw*wrapAngle(target.Yaw-yaw) - c.gains.KdYaw*w.Z

	l := c.params.ArmLength
	base := thrust / 4
	forces := [4]float64{
		base - tauPitch/(2*l) + tauYaw/(4*c.ratio),
		base + tauRoll/(2*l) - tauYaw/(4*c.ratio),
		base + tauPitch/(2*l) + tauYaw/(4*c.ratio),
		base - tauRoll/(2*l) - tauYaw/(4*c.ratio),
	}

	var cmd quad.Commands
	for i, f := range forces {
		if f < 0 {
			f = 0
		}
		cmd[i] = math.Sqrt(f / c.kt)
	}
	return cmd
}

func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
