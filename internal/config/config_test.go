package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Integrator != "rk4" {
		t.Errorf("default integrator = %s, want rk4", cfg.Integrator)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("default dt = %f, want %f", cfg.Dt, DefaultDt)
	}
	if cfg.Gains.KpPos <= 0 {
		t.Error("default gains not populated")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadsim.yaml")

	cfg := Default()
	cfg.Dt = 0.002
	cfg.Duration = 3.5
	cfg.Vehicle.Mass = 0.75
	cfg.InitState.Z = 2
	cfg.InitState.Yaw = 0.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Dt != cfg.Dt {
		t.Errorf("dt = %f, want %f", loaded.Dt, cfg.Dt)
	}
	if loaded.Vehicle.Mass != cfg.Vehicle.Mass {
		t.Errorf("mass = %f, want %f", loaded.Vehicle.Mass, cfg.Vehicle.Mass)
	}
	if loaded.InitState.Yaw != cfg.InitState.Yaw {
		t.Errorf("yaw = %f, want %f", loaded.InitState.Yaw, cfg.InitState.Yaw)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParamsOverrides(t *testing.T) {
	cfg := Default()
	cfg.Vehicle.Mass = 1.2
	cfg.Vehicle.Ixx = 3e-3
	cfg.Vehicle.Iyy = 3e-3
	cfg.Vehicle.Izz = 5e-3

	p := cfg.Params()
	if p.Mass != 1.2 {
		t.Errorf("mass = %f, want 1.2", p.Mass)
	}
	if p.Inertia.At(2, 2) != 5e-3 {
		t.Errorf("izz = %f, want 5e-3", p.Inertia.At(2, 2))
	}
	// Untouched fields keep defaults.
	if p.ArmLength != 0.125 {
		t.Errorf("arm length = %f, want 0.125", p.ArmLength)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("overridden params invalid: %v", err)
	}
}

func TestInitialState(t *testing.T) {
	cfg := Default()
	cfg.InitState.Z = 4
	cfg.InitState.VX = 1.5

	s := cfg.InitialState()
	if s.Position.Z != 4 {
		t.Errorf("z = %f, want 4", s.Position.Z)
	}
	if s.Velocity.X != 1.5 {
		t.Errorf("vx = %f, want 1.5", s.Velocity.X)
	}
	if math.Abs(s.Orientation.Norm()-1) > 1e-12 {
		t.Errorf("orientation norm = %f, want 1", s.Orientation.Norm())
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		cfg, err := GetPreset(name)
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if cfg.Dt <= 0 || cfg.Duration <= 0 {
			t.Errorf("preset %s has invalid timing", name)
		}
		if cfg.Controller == "pd" && cfg.Gains.KpPos <= 0 {
			t.Errorf("preset %s missing gains", name)
		}
		if err := cfg.Params().Validate(); err != nil {
			t.Errorf("preset %s params invalid: %v", name, err)
		}
	}
}

func TestGetPresetUnknown(t *testing.T) {
	if _, err := GetPreset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
