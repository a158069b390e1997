package quad

import (
	"gonum.org/v1/gonum/mat"

	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

// MixingMatrix builds the fixed 4x4 map from per-rotor thrust to
// (total thrust, roll torque, pitch torque, yaw torque), in that row
// order. It encodes the "+"-configuration arm geometry with rotors
// indexed front(1), right(2), back(3), left(4) and alternating spin
// directions. The layout is a design constant: changing any entry means
// re-deriving it from the airframe geometry.
func MixingMatrix(p *vehicle.Params) *mat.Dense {
	l := p.ArmLength
	k := p.TorqueCoefficient() / p.ThrustCoefficient()
	return mat.NewDense(4, 4, []float64{
		1, 1, 1, 1,
		0, l, 0, -l,
		-l, 0, l, 0,
		k, -k, k, -k,
	})
}
