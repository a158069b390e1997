package quad

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/eli-will-2656/quadsim/internal/dynamo"
	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

// Dynamics is the 6-DOF rigid-body model. It implements dynamo.System over
// the 13-element flat state and is free of internal mutable state.
type Dynamics struct {
	params     *vehicle.Params
	kt         float64
	mix        *mat.Dense
	inertiaInv *mat.SymDense
}

// NewDynamics validates the parameters and precomputes the mixing matrix
// and the inverse inertia tensor, both constant for the life of the model.
func NewDynamics(p *vehicle.Params) (*Dynamics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	inv, err := p.InertiaInverse()
	if err != nil {
		return nil, err
	}
	return &Dynamics{
		params:     p,
		kt:         p.ThrustCoefficient(),
		mix:        MixingMatrix(p),
		inertiaInv: inv,
	}, nil
}

func (d *Dynamics) Params() *vehicle.Params { return d.params }

func (d *Dynamics) StateDim() int   { return StateDim }
func (d *Dynamics) ControlDim() int { return 4 }

// Thrusts applies the disc model F_i = k_t w_i^2 to each rotor rate.
func (d *Dynamics) Thrusts(c Commands) [4]float64 {
	var f [4]float64
	for i, w := range c {
		f[i] = d.kt * w * w
	}
	return f
}

// Mix maps per-rotor thrusts to total vertical thrust u1 and the net
// body-frame torque u2 through the fixed mixing matrix.
func (d *Dynamics) Mix(f [4]float64) (u1 float64, u2 r3.Vector) {
	var out mat.VecDense
	out.MulVec(d.mix, mat.NewVecDense(4, f[:]))
	return out.AtVec(0), r3.Vector{X: out.AtVec(1), Y: out.AtVec(2), Z: out.AtVec(3)}
}

// Derive is the equations of motion. Translational: gravity plus body-z
// thrust rotated into the world frame. Rotational: the Euler rigid-body
// equation wdot = I^-1 (u2 - w x Iw). Attitude: the quaternion kinematic
// relation. Position derivative is the current velocity.
func (d *Dynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	s := StateFromVector(x)

	var c Commands
	copy(c[:], u)

	u1, u2 := d.Mix(d.Thrusts(c))

	acc := s.Orientation.Rotate(r3.Vector{Z: u1 / d.params.Mass})
	acc.Z -= d.params.Gravity

	iw := mulSym(d.params.Inertia, s.AngularVelocity)
	wdot := mulSym(d.inertiaInv, u2.Sub(s.AngularVelocity.Cross(iw)))

	dq := s.Orientation.Derivative(s.AngularVelocity)

	return dynamo.State{
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		acc.X, acc.Y, acc.Z,
		dq[0], dq[1], dq[2], dq[3],
		wdot.X, wdot.Y, wdot.Z,
	}
}

// Energy is the total mechanical energy of the state, used by metrics and
// the live view.
func (d *Dynamics) Energy(s State) float64 {
	ke := 0.5 * d.params.Mass * s.Velocity.Norm2()
	pe := d.params.Mass * d.params.Gravity * s.Position.Z
	rot := 0.5 * s.AngularVelocity.Dot(mulSym(d.params.Inertia, s.AngularVelocity))
	return ke + pe + rot
}

func mulSym(m *mat.SymDense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}
