package trajectory

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestHoverConstant(t *testing.T) {
	h := Hover{Point: r3.Vector{X: 1, Y: 2, Z: 3}}
	for _, tt := range []float64{0, 1.5, 100} {
		sp := h.Eval(tt)
		if sp.Position != h.Point {
			t.Errorf("t=%f: expected %v, got %v", tt, h.Point, sp.Position)
		}
		if sp.Velocity.Norm() != 0 {
			t.Errorf("t=%f: hover should have zero velocity", tt)
		}
	}
}

func TestLineReachesEndpoint(t *testing.T) {
	l := Line{From: r3.Vector{}, To: r3.Vector{X: 10}, Speed: 2}

	sp := l.Eval(2.5)
	if math.Abs(sp.Position.X-5) > 1e-12 {
		t.Errorf("expected midpoint x=5, got %f", sp.Position.X)
	}
	if math.Abs(sp.Velocity.X-2) > 1e-12 {
		t.Errorf("expected velocity 2, got %f", sp.Velocity.X)
	}

	sp = l.Eval(100)
	if sp.Position != l.To {
		t.Errorf("expected hold at endpoint, got %v", sp.Position)
	}
	if sp.Velocity.Norm() != 0 {
		t.Error("expected zero velocity at endpoint")
	}
}

func TestLineRestartable(t *testing.T) {
	l := Line{From: r3.Vector{}, To: r3.Vector{X: 4, Y: 3}, Speed: 1}
	a := l.Eval(2)
	l.Eval(4)
	b := l.Eval(2)
	if a != b {
		t.Error("same time must yield same setpoint")
	}
}

func TestCircleGeometry(t *testing.T) {
	c := Circle{Center: r3.Vector{Z: 5}, Radius: 2, Omega: 1}

	sp := c.Eval(0)
	if math.Abs(sp.Position.X-2) > 1e-12 || math.Abs(sp.Position.Z-5) > 1e-12 {
		t.Errorf("unexpected start point %v", sp.Position)
	}

	// velocity is tangent and has magnitude R*omega everywhere
	for _, tt := range []float64{0, 0.7, 3.0} {
		sp := c.Eval(tt)
		radial := sp.Position.Sub(c.Center)
		if math.Abs(radial.Dot(sp.Velocity)) > 1e-9 {
			t.Errorf("t=%f: velocity not tangent", tt)
		}
		if math.Abs(sp.Velocity.Norm()-2) > 1e-9 {
			t.Errorf("t=%f: expected speed 2, got %f", tt, sp.Velocity.Norm())
		}
	}
}
