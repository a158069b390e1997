package quad

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/eli-will-2656/quadsim/internal/rotation"
	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

func newTestDynamics(t *testing.T) *Dynamics {
	t.Helper()
	d, err := NewDynamics(vehicle.Default())
	if err != nil {
		t.Fatalf("NewDynamics: %v", err)
	}
	return d
}

func restState() State {
	return State{Orientation: rotation.Identity()}
}

func TestNewDynamicsRejectsBadParams(t *testing.T) {
	p := vehicle.Default()
	p.Mass = -1
	if _, err := NewDynamics(p); err == nil {
		t.Error("expected error for negative mass")
	}
}

func TestMixEqualThrust(t *testing.T) {
	d := newTestDynamics(t)

	for _, f := range []float64{0, 0.5, 1.25, 10} {
		u1, u2 := d.Mix([4]float64{f, f, f, f})

		if math.Abs(u1-4*f) > 1e-12 {
			t.Errorf("thrust %f: expected u1=%f, got %f", f, 4*f, u1)
		}
		if u2.Norm() > 1e-12 {
			t.Errorf("thrust %f: expected zero torque, got %v", f, u2)
		}
	}
}

func TestMixRollPitchTorque(t *testing.T) {
	d := newTestDynamics(t)
	l := d.Params().ArmLength

	// extra thrust on rotor 2 (right arm) rolls about +x
	_, u2 := d.Mix([4]float64{1, 2, 1, 1})
	if math.Abs(u2.X-l) > 1e-12 || math.Abs(u2.Y) > 1e-12 {
		t.Errorf("expected roll torque %f, got %v", l, u2)
	}

	// extra thrust on rotor 3 (back arm) pitches about +y
	_, u2 = d.Mix([4]float64{1, 1, 2, 1})
	if math.Abs(u2.Y-l) > 1e-12 || math.Abs(u2.X) > 1e-12 {
		t.Errorf("expected pitch torque %f, got %v", l, u2)
	}
}

func TestYawTorqueSignConvention(t *testing.T) {
	d := newTestDynamics(t)
	p := d.Params()
	kt := p.ThrustCoefficient()
	k := p.TorqueCoefficient() / kt

	r := p.HoverRate()
	s := 5.0

	// speed up rotors 1 and 3, slow rotors 2 and 4 by the differential s
	_, u2 := d.Mix(d.Thrusts(Commands{r + s, r - s, r + s, r - s}))

	want := 4 * k * kt * s * (2 * r)
	if math.Abs(u2.Z-want) > 1e-9*math.Abs(want) {
		t.Errorf("expected yaw torque %e, got %e", want, u2.Z)
	}
	if u2.Z <= 0 {
		t.Error("speeding rotors 1 and 3 must yaw positive")
	}

	// the opposite differential flips the sign
	_, u2 = d.Mix(d.Thrusts(Commands{r - s, r + s, r - s, r + s}))
	if u2.Z >= 0 {
		t.Error("speeding rotors 2 and 4 must yaw negative")
	}
}

func TestHoverDerivativeIsZero(t *testing.T) {
	d := newTestDynamics(t)
	r := d.Params().HoverRate()

	dx := d.Derive(restState().Vector(), Commands{r, r, r, r}.Control(), 0)

	for i, v := range dx {
		if math.Abs(v) > 1e-9 {
			t.Errorf("hover derivative component %d = %e, expected 0", i, v)
		}
	}
}

func TestFreeFall(t *testing.T) {
	d := newTestDynamics(t)

	dx := d.Derive(restState().Vector(), Commands{}.Control(), 0)

	g := d.Params().Gravity
	if math.Abs(dx[5]+g) > 1e-9 {
		t.Errorf("expected vertical acceleration -g=%f, got %f", -g, dx[5])
	}
	for _, i := range []int{10, 11, 12} {
		if math.Abs(dx[i]) > 1e-12 {
			t.Errorf("expected zero angular acceleration, component %d = %e", i, dx[i])
		}
	}
}

func TestTiltedThrustDirection(t *testing.T) {
	d := newTestDynamics(t)
	r := d.Params().HoverRate()

	// rolled 90 degrees, body-z thrust points along world -y
	s := restState()
	s.Orientation = rotation.FromEuler(math.Pi/2, 0, 0)

	dx := d.Derive(s.Vector(), Commands{r, r, r, r}.Control(), 0)

	g := d.Params().Gravity
	if math.Abs(dx[4]+g) > 1e-9 {
		t.Errorf("expected lateral acceleration -g, got %f", dx[4])
	}
	if math.Abs(dx[5]+g) > 1e-9 {
		t.Errorf("expected free-fall vertical acceleration, got %f", dx[5])
	}
}

func TestGyroscopicCoupling(t *testing.T) {
	d := newTestDynamics(t)

	// spin about two principal axes with distinct inertias: the cross
	// term w x Iw must induce acceleration about the third axis
	s := restState()
	s.AngularVelocity = r3.Vector{X: 2, Z: 3}

	dx := d.Derive(s.Vector(), Commands{}.Control(), 0)

	ixx := d.Params().Inertia.At(0, 0)
	izz := d.Params().Inertia.At(2, 2)
	iyy := d.Params().Inertia.At(1, 1)
	want := (izz - ixx) * 2 * 3 / iyy
	if math.Abs(dx[11]-want) > 1e-9 {
		t.Errorf("expected gyroscopic wydot %e, got %e", want, dx[11])
	}
}

func TestNegativeRatesSquareToThrust(t *testing.T) {
	d := newTestDynamics(t)

	pos := d.Thrusts(Commands{100, 100, 100, 100})
	neg := d.Thrusts(Commands{-100, -100, -100, -100})
	for i := range pos {
		if pos[i] != neg[i] {
			t.Errorf("rotor %d: rate sign must not affect disc-model thrust", i)
		}
	}
}

func TestPositionDerivativeIsVelocity(t *testing.T) {
	d := newTestDynamics(t)

	s := restState()
	s.Velocity = r3.Vector{X: 1, Y: -2, Z: 3}

	dx := d.Derive(s.Vector(), Commands{}.Control(), 0)
	if dx[0] != 1 || dx[1] != -2 || dx[2] != 3 {
		t.Errorf("position derivative must equal velocity, got %v", dx[:3])
	}
}
