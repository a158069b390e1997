// Package sim drives a simulation run: it closes the loop between the
// trajectory generator, the controller and the physics engine, and records
// the resulting state sequence.
package sim

import (
	"context"
	"fmt"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

type Config struct {
	Dt       float64
	Duration float64
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", c.Duration)
	}
	return nil
}

// Result is the recorded output of one run: one (time, state) sample per
// tick plus the command that produced each transition.
type Result struct {
	Times      []float64
	States     []quad.State
	Commands   []quad.Commands
	Metrics    map[string]float64
	StepsTaken int
}

type Observer interface {
	OnStep(s quad.State, c quad.Commands, t float64)
}

// Simulator owns one engine and the policies that feed it. The loop is
// strictly sequential: commands at tick t are computed from the state at
// tick t, producing the state at t+dt.
type Simulator struct {
	engine     *quad.Engine
	controller quad.Controller
	trajectory quad.Trajectory
	metrics    []quad.Metric
	observers  []Observer
}

func New(engine *quad.Engine, controller quad.Controller, traj quad.Trajectory) *Simulator {
	return &Simulator{
		engine:     engine,
		controller: controller,
		trajectory: traj,
	}
}

func (s *Simulator) AddMetric(m quad.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }

func (s *Simulator) Engine() *quad.Engine        { return s.engine }
func (s *Simulator) Trajectory() quad.Trajectory { return s.trajectory }

// Run executes the loop until the duration is covered, the context is
// canceled, or a step fails. A step failure terminates the run and is
// returned alongside the partial result recorded so far.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		Times:    make([]float64, 0, steps+1),
		States:   make([]quad.State, 0, steps+1),
		Commands: make([]quad.Commands, 0, steps),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := s.engine.State()
	result.Times = append(result.Times, t)
	result.States = append(result.States, x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		target := s.trajectory.Eval(t)
		c := s.controller.Step(t, x, target)

		for _, m := range s.metrics {
			m.Observe(x, c, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, c, t)
		}

		next, err := s.engine.Step(c, cfg.Dt)
		if err != nil {
			s.collect(result)
			return result, err
		}

		x = next
		t += cfg.Dt
		result.StepsTaken++

		result.Times = append(result.Times, t)
		result.States = append(result.States, x)
		result.Commands = append(result.Commands, c)
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
