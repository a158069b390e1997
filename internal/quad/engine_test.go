package quad

import (
	"errors"
	"math"
	"testing"

	"github.com/eli-will-2656/quadsim/internal/dynamo"
	"github.com/eli-will-2656/quadsim/internal/integrators"
)

func TestEngineHoverEquilibrium(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	r := d.Params().HoverRate()
	c := Commands{r, r, r, r}

	var s State
	var err error
	for i := 0; i < 100; i++ {
		s, err = e.Step(c, 0.01)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	if s.Position.Norm() > 1e-4 {
		t.Errorf("hover drifted %e m from origin", s.Position.Norm())
	}
	if s.Velocity.Norm() > 1e-4 {
		t.Errorf("hover picked up %e m/s", s.Velocity.Norm())
	}
	if s.AngularVelocity.Norm() > 1e-4 {
		t.Errorf("hover picked up %e rad/s", s.AngularVelocity.Norm())
	}
}

func TestEngineHoverFiveSeconds(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	r := d.Params().HoverRate()
	c := Commands{r, r, r, r}

	for i := 0; i < 500; i++ {
		s, err := e.Step(c, 0.01)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if s.Position.Norm() > 0.05 {
			t.Fatalf("step %d: drifted %f m from origin", i, s.Position.Norm())
		}
	}
}

func TestEngineOrientationStaysUnit(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	// asymmetric commands tumble the vehicle
	r := d.Params().HoverRate()
	c := Commands{1.1 * r, 0.9 * r, 1.05 * r, 0.95 * r}

	for i := 0; i < 1000; i++ {
		s, err := e.Step(c, 0.001)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if math.Abs(s.Orientation.Norm()-1) > 1e-6 {
			t.Fatalf("step %d: orientation norm %e", i, s.Orientation.Norm())
		}
	}
}

func TestEngineFreeFall(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		if _, err := e.Step(Commands{}, dt); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	g := d.Params().Gravity
	tTotal := float64(steps) * dt
	wantV := -g * tTotal
	wantZ := -0.5 * g * tTotal * tTotal

	s := e.State()
	if math.Abs(s.Velocity.Z-wantV) > 1e-6 {
		t.Errorf("expected vz=%f, got %f", wantV, s.Velocity.Z)
	}
	if math.Abs(s.Position.Z-wantZ) > 1e-6 {
		t.Errorf("expected z=%f, got %f", wantZ, s.Position.Z)
	}
}

func TestEngineAdaptiveMatchesFixedStep(t *testing.T) {
	d := newTestDynamics(t)
	r := d.Params().HoverRate()
	c := Commands{1.02 * r, 0.98 * r, 1.02 * r, 0.98 * r}

	fixed := NewEngine(d, integrators.NewRK4(), restState())
	adaptive := NewEngine(d, integrators.NewRK45(), restState())

	for i := 0; i < 200; i++ {
		if _, err := fixed.Step(c, 0.01); err != nil {
			t.Fatalf("fixed step failed: %v", err)
		}
		if _, err := adaptive.Step(c, 0.01); err != nil {
			t.Fatalf("adaptive step failed: %v", err)
		}
	}

	a := fixed.State().Vector()
	b := adaptive.State().Vector()
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-4 {
			t.Errorf("component %d: fixed %f vs adaptive %f", i, a[i], b[i])
		}
	}
}

func TestEngineRejectsNonPositiveDt(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	if _, err := e.Step(Commands{}, 0); err == nil {
		t.Error("expected error for dt=0")
	}
	if _, err := e.Step(Commands{}, -0.01); err == nil {
		t.Error("expected error for negative dt")
	}
}

func TestEngineReportsDivergence(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewEuler(), restState())

	before := e.State()

	// an absurd rotor rate under a coarse Euler step overflows quickly
	c := Commands{1e160, 0, 1e160, 0}
	var err error
	for i := 0; i < 50 && err == nil; i++ {
		_, err = e.Step(c, 1.0)
	}

	if err == nil {
		t.Fatal("expected integration failure")
	}
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}

	var stepErr *dynamo.StepError
	if !errors.As(err, &stepErr) {
		t.Error("failure should carry step context")
	}

	// failed step must not corrupt the stored state
	if !e.State().Vector().IsValid() && before.Vector().IsValid() {
		t.Error("engine state corrupted by failed step")
	}
}

func TestEngineReset(t *testing.T) {
	d := newTestDynamics(t)
	e := NewEngine(d, integrators.NewRK4(), restState())

	if _, err := e.Step(Commands{}, 0.01); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if e.State().Velocity.Norm() == 0 {
		t.Fatal("free-fall step should change velocity")
	}

	e.Reset(restState())
	if e.State().Velocity.Norm() != 0 {
		t.Error("reset should restore the initial state")
	}
}
