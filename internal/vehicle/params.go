// Package vehicle holds the physical constants of the simulated airframe
// and the rotor coefficients derived from them.
package vehicle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Reference airframe: a 500 g "+"-configuration quadrotor with 8-inch
// props. Values are in SI units throughout.
const (
	DefaultMass          = 0.5
	DefaultArmLength     = 0.125
	DefaultRotorDiameter = 0.2032
	DefaultThrustConst   = 0.1   // static thrust coefficient of the rotor disc
	DefaultTorqueConst   = 0.004 // static torque coefficient
	DefaultAirDensity    = 1.225
	DefaultGravity       = 9.81
)

// Params is the immutable parameter set shared by every component that
// needs physical constants. Construct once, validate, then treat as
// read-only; concurrent simulation runs may share one instance.
type Params struct {
	Mass          float64
	Inertia       *mat.SymDense // 3x3, symmetric positive-definite
	ArmLength     float64
	RotorDiameter float64
	ThrustConst   float64
	TorqueConst   float64
	AirDensity    float64
	Gravity       float64
}

func Default() *Params {
	return &Params{
		Mass: DefaultMass,
		Inertia: mat.NewSymDense(3, []float64{
			2.32e-3, 0, 0,
			0, 2.32e-3, 0,
			0, 0, 4.00e-3,
		}),
		ArmLength:     DefaultArmLength,
		RotorDiameter: DefaultRotorDiameter,
		ThrustConst:   DefaultThrustConst,
		TorqueConst:   DefaultTorqueConst,
		AirDensity:    DefaultAirDensity,
		Gravity:       DefaultGravity,
	}
}

// Validate fails fast on parameters that would later surface as NaNs.
func (p *Params) Validate() error {
	switch {
	case p.Mass <= 0:
		return fmt.Errorf("vehicle: mass must be positive, got %g", p.Mass)
	case p.ArmLength <= 0:
		return fmt.Errorf("vehicle: arm length must be positive, got %g", p.ArmLength)
	case p.RotorDiameter <= 0:
		return fmt.Errorf("vehicle: rotor diameter must be positive, got %g", p.RotorDiameter)
	case p.ThrustConst <= 0:
		return fmt.Errorf("vehicle: thrust constant must be positive, got %g", p.ThrustConst)
	case p.TorqueConst <= 0:
		return fmt.Errorf("vehicle: torque constant must be positive, got %g", p.TorqueConst)
	case p.AirDensity <= 0:
		return fmt.Errorf("vehicle: air density must be positive, got %g", p.AirDensity)
	case p.Gravity <= 0:
		return fmt.Errorf("vehicle: gravity must be positive, got %g", p.Gravity)
	}

	if p.Inertia == nil {
		return fmt.Errorf("vehicle: inertia tensor is required")
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(p.Inertia); !ok {
		return fmt.Errorf("vehicle: inertia tensor is not positive-definite")
	}
	return nil
}

// ThrustCoefficient returns k_t of the rotor disc model,
// k_t = rho * c_t * D^4 / (4 pi^2), so that F = k_t * w^2.
func (p *Params) ThrustCoefficient() float64 {
	d2 := p.RotorDiameter * p.RotorDiameter
	return p.AirDensity * p.ThrustConst * d2 * d2 / (4 * math.Pi * math.Pi)
}

// TorqueCoefficient returns k_m of the rotor disc model,
// k_m = rho * c_q * D^5 / (4 pi^2), so that M = k_m * w^2.
func (p *Params) TorqueCoefficient() float64 {
	d2 := p.RotorDiameter * p.RotorDiameter
	return p.AirDensity * p.TorqueConst * d2 * d2 * p.RotorDiameter / (4 * math.Pi * math.Pi)
}

// HoverRate is the per-rotor angular rate that exactly cancels gravity.
func (p *Params) HoverRate() float64 {
	return math.Sqrt(p.Mass * p.Gravity / (4 * p.ThrustCoefficient()))
}

// InertiaInverse computes the inverse tensor. The tensor is constant, so
// callers cache the result.
func (p *Params) InertiaInverse() (*mat.SymDense, error) {
	var ch mat.Cholesky
	if ok := ch.Factorize(p.Inertia); !ok {
		return nil, fmt.Errorf("vehicle: inertia tensor is not positive-definite")
	}
	var inv mat.SymDense
	if err := ch.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("vehicle: inverting inertia tensor: %w", err)
	}
	return &inv, nil
}
