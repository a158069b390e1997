package control

import (
	"github.com/eli-will-2656/quadsim/internal/quad"
	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

// OpenLoop ignores state and target and emits a constant command.
type OpenLoop struct {
	Rates quad.Commands
}

func NewOpenLoop(rates quad.Commands) *OpenLoop {
	return &OpenLoop{Rates: rates}
}

// NewHover returns an open-loop controller at the exact hover rate.
func NewHover(p *vehicle.Params) *OpenLoop {
	r := p.HoverRate()
	return NewOpenLoop(quad.Commands{r, r, r, r})
}

func (o *OpenLoop) Step(t float64, s quad.State, target quad.Setpoint) quad.Commands {
	return o.Rates
}
