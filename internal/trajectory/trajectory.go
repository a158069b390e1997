// Package trajectory provides desired-state generators consumed by
// controllers. Each is a pure function of time: evaluating the same
// instant twice yields the same setpoint, so runs are restartable.
package trajectory

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

// Hover pins the setpoint to a single point.
type Hover struct {
	Point r3.Vector
}

func (h Hover) Eval(t float64) quad.Setpoint {
	return quad.Setpoint{Position: h.Point}
}

// Line moves from one point toward another at constant speed, then holds
// the endpoint.
type Line struct {
	From  r3.Vector
	To    r3.Vector
	Speed float64
}

func (l Line) Eval(t float64) quad.Setpoint {
	dir := l.To.Sub(l.From)
	dist := dir.Norm()
	if dist == 0 || l.Speed <= 0 {
		return quad.Setpoint{Position: l.From}
	}
	dir = dir.Mul(1 / dist)

	travelled := l.Speed * t
	if travelled >= dist {
		return quad.Setpoint{Position: l.To}
	}
	return quad.Setpoint{
		Position: l.From.Add(dir.Mul(travelled)),
		Velocity: dir.Mul(l.Speed),
	}
}

// Circle orbits a center at fixed radius and angular rate, yaw tangent to
// the path.
type Circle struct {
	Center r3.Vector
	Radius float64
	Omega  float64
}

func (c Circle) Eval(t float64) quad.Setpoint {
	a := c.Omega * t
	sin, cos := math.Sin(a), math.Cos(a)
	return quad.Setpoint{
		Position: c.Center.Add(r3.Vector{X: c.Radius * cos, Y: c.Radius * sin}),
		Velocity: r3.Vector{X: -c.Radius * c.Omega * sin, Y: c.Radius * c.Omega * cos},
		Yaw:      math.Mod(a+math.Pi/2, 2*math.Pi),
	}
}
