// Package rotation provides a unit-quaternion representation of 3D
// orientation with the kinematic derivative needed to integrate attitude.
package rotation

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation represents an orientation as a quaternion. All constructors
// except FromComponents return unit quaternions; FromComponents preserves
// its input exactly so that vector round trips through an integrator are
// lossless.
type Rotation struct {
	q quat.Number
}

func Identity() Rotation {
	return Rotation{quat.Number{Real: 1}}
}

// New builds a rotation from quaternion components and normalizes it.
func New(w, x, y, z float64) Rotation {
	return Rotation{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}.Normalized()
}

// FromComponents rebuilds a rotation without renormalizing.
func FromComponents(w, x, y, z float64) Rotation {
	return Rotation{quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

func FromAxisAngle(axis r3.Vector, angle float64) Rotation {
	n := axis.Norm()
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Rotation{quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}}
}

// FromEuler builds the rotation for intrinsic Z-Y-X (yaw, pitch, roll)
// Tait-Bryan angles.
func FromEuler(roll, pitch, yaw float64) Rotation {
	cr, sr := math.Cos(roll/2), math.Sin(roll/2)
	cp, sp := math.Cos(pitch/2), math.Sin(pitch/2)
	cy, sy := math.Cos(yaw/2), math.Sin(yaw/2)

	return Rotation{quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}}
}

// Components returns (w, x, y, z) exactly as stored.
func (r Rotation) Components() (w, x, y, z float64) {
	return r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag
}

// Euler returns the Z-Y-X Tait-Bryan angles (roll, pitch, yaw).
func (r Rotation) Euler() (roll, pitch, yaw float64) {
	w, x, y, z := r.Components()

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sp := 2 * (w*y - z*x)
	switch {
	case sp >= 1:
		pitch = math.Pi / 2
	case sp <= -1:
		pitch = -math.Pi / 2
	default:
		pitch = math.Asin(sp)
	}

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return
}

// Rotate applies the rotation to a vector: q v q*.
func (r Rotation) Rotate(v r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(r.q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(r.q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// Derivative returns dq/dt = 1/2 q (0, w) for a body-frame angular
// velocity w, as (dw, dx, dy, dz). This is the attitude kinematic
// relation; it is a first-order ODE in the quaternion itself.
func (r Rotation) Derivative(w r3.Vector) [4]float64 {
	dq := quat.Scale(0.5, quat.Mul(r.q, quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z}))
	return [4]float64{dq.Real, dq.Imag, dq.Jmag, dq.Kmag}
}

func (r Rotation) Mul(other Rotation) Rotation {
	return Rotation{quat.Mul(r.q, other.q)}
}

func (r Rotation) Conj() Rotation {
	return Rotation{quat.Conj(r.q)}
}

func (r Rotation) Norm() float64 {
	return quat.Abs(r.q)
}

// Normalized returns the unit quaternion, countering integration drift.
func (r Rotation) Normalized() Rotation {
	n := quat.Abs(r.q)
	if n == 0 {
		return Identity()
	}
	return Rotation{quat.Scale(1/n, r.q)}
}
