package config

import (
	"fmt"
	"sort"
)

// Presets are ready-made scenarios selectable by name from the CLI.
var Presets = map[string]*Config{
	"hover": {
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "hover",
		Dt:         0.01,
		Duration:   10,
	},
	"drop": {
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "hover",
		Dt:         0.005,
		Duration:   8,
		InitState:  InitStateConfig{Z: 5},
	},
	"climb": {
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "line",
		Dt:         0.01,
		Duration:   15,
		Target:     TargetConfig{Z: 3, Speed: 0.5},
	},
	"yaw": {
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "hover",
		Dt:         0.005,
		Duration:   6,
		InitState:  InitStateConfig{Yaw: 1.2},
	},
	"tilt": {
		Integrator: "rk45",
		Controller: "pd",
		Trajectory: "hover",
		Dt:         0.005,
		Duration:   8,
		InitState:  InitStateConfig{Roll: 0.3, Pitch: -0.2},
	},
	"circle": {
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "circle",
		Dt:         0.01,
		Duration:   20,
		Target:     TargetConfig{Z: 2, Radius: 2, Omega: 0.5},
	},
	"ballistic": {
		Integrator: "rk45",
		Controller: "off",
		Trajectory: "hover",
		Dt:         0.01,
		Duration:   1,
		InitState:  InitStateConfig{Z: 10, VX: 2},
	},
}

// GetPreset returns a copy of the named preset with default gains filled in.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	cfg := *p
	if cfg.Gains == (GainsConfig{}) {
		cfg.Gains = Default().Gains
	}
	return &cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
