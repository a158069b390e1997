package integrators

import (
	"math"
	"testing"

	"github.com/eli-will-2656/quadsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int   { return 2 }
func (h *harmonicOscillator) ControlDim() int { return 0 }

func (h *harmonicOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	u := dynamo.Control{}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewEuler()

	x := dynamo.State{1.0, 0.0}
	dx := integ.Step(dyn, x, nil, 0, 0.1)

	// one explicit Euler step: x + dt*f(x)
	if math.Abs(dx[0]-1.0) > 1e-12 {
		t.Errorf("expected x0 unchanged after one step from rest, got %f", dx[0])
	}
	if math.Abs(dx[1]+0.1) > 1e-12 {
		t.Errorf("expected v=-0.1, got %f", dx[1])
	}
}
