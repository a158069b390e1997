// Package store exports complete runs as JSON for downstream analysis or
// animation tooling.
package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/eli-will-2656/quadsim/internal/sim"
)

type ExportData struct {
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Trajectory string             `json:"trajectory"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Commands   [][]float64        `json:"commands"`
	Metrics    map[string]float64 `json:"metrics"`
}

func build(integrator, controller, traj string, dt, duration float64, result *sim.Result) ExportData {
	data := ExportData{
		Integrator: integrator,
		Controller: controller,
		Trajectory: traj,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Commands:   make([][]float64, len(result.Commands)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.States {
		data.States[i] = s.Vector()
	}
	for i, c := range result.Commands {
		data.Commands[i] = []float64{c[0], c[1], c[2], c[3]}
	}
	return data
}

func ExportJSON(path, integrator, controller, traj string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, integrator, controller, traj, dt, duration, result)
}

func ExportJSONStdout(integrator, controller, traj string, dt, duration float64, result *sim.Result) error {
	return writeJSON(os.Stdout, integrator, controller, traj, dt, duration, result)
}

func writeJSON(w io.Writer, integrator, controller, traj string, dt, duration float64, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(build(integrator, controller, traj, dt, duration, result))
}
