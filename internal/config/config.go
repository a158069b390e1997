// Package config loads and saves simulation configuration as YAML and
// carries the named presets.
package config

import (
	"os"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/eli-will-2656/quadsim/internal/control"
	"github.com/eli-will-2656/quadsim/internal/quad"
	"github.com/eli-will-2656/quadsim/internal/rotation"
	"github.com/eli-will-2656/quadsim/internal/vehicle"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Controller string          `yaml:"controller"`
	Trajectory string          `yaml:"trajectory"`
	Dt         float64         `yaml:"dt"`
	Duration   float64         `yaml:"duration"`
	Vehicle    VehicleConfig   `yaml:"vehicle"`
	InitState  InitStateConfig `yaml:"init_state"`
	Gains      GainsConfig     `yaml:"gains"`
	Target     TargetConfig    `yaml:"target"`
}

// VehicleConfig overrides the reference airframe; zero fields keep their
// defaults.
type VehicleConfig struct {
	Mass          float64 `yaml:"mass"`
	ArmLength     float64 `yaml:"arm_length"`
	RotorDiameter float64 `yaml:"rotor_diameter"`
	ThrustConst   float64 `yaml:"thrust_const"`
	TorqueConst   float64 `yaml:"torque_const"`
	AirDensity    float64 `yaml:"air_density"`
	Gravity       float64 `yaml:"gravity"`
	Ixx           float64 `yaml:"ixx"`
	Iyy           float64 `yaml:"iyy"`
	Izz           float64 `yaml:"izz"`
}

type InitStateConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	VZ    float64 `yaml:"vz"`
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	WX    float64 `yaml:"wx"`
	WY    float64 `yaml:"wy"`
	WZ    float64 `yaml:"wz"`
}

type GainsConfig struct {
	KpPos float64 `yaml:"kp_pos"`
	KdPos float64 `yaml:"kd_pos"`
	KpAtt float64 `yaml:"kp_att"`
	KdAtt float64 `yaml:"kd_att"`
	KpYaw float64 `yaml:"kp_yaw"`
	KdYaw float64 `yaml:"kd_yaw"`
}

// TargetConfig parameterizes the chosen trajectory.
type TargetConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Omega  float64 `yaml:"omega"`
	Speed  float64 `yaml:"speed"`
}

func Default() *Config {
	g := control.DefaultGains()
	return &Config{
		Integrator: "rk4",
		Controller: "pd",
		Trajectory: "hover",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gains: GainsConfig{
			KpPos: g.KpPos,
			KdPos: g.KdPos,
			KpAtt: g.KpAtt,
			KdAtt: g.KdAtt,
			KpYaw: g.KpYaw,
			KdYaw: g.KdYaw,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params materializes vehicle parameters, filling zero overrides from the
// reference airframe.
func (c *Config) Params() *vehicle.Params {
	p := vehicle.Default()

	v := c.Vehicle
	if v.Mass > 0 {
		p.Mass = v.Mass
	}
	if v.ArmLength > 0 {
		p.ArmLength = v.ArmLength
	}
	if v.RotorDiameter > 0 {
		p.RotorDiameter = v.RotorDiameter
	}
	if v.ThrustConst > 0 {
		p.ThrustConst = v.ThrustConst
	}
	if v.TorqueConst > 0 {
		p.TorqueConst = v.TorqueConst
	}
	if v.AirDensity > 0 {
		p.AirDensity = v.AirDensity
	}
	if v.Gravity > 0 {
		p.Gravity = v.Gravity
	}
	if v.Ixx > 0 && v.Iyy > 0 && v.Izz > 0 {
		p.Inertia = mat.NewSymDense(3, []float64{
			v.Ixx, 0, 0,
			0, v.Iyy, 0,
			0, 0, v.Izz,
		})
	}
	return p
}

// InitialState builds the starting vehicle state.
func (c *Config) InitialState() quad.State {
	i := c.InitState
	return quad.State{
		Position:        r3.Vector{X: i.X, Y: i.Y, Z: i.Z},
		Velocity:        r3.Vector{X: i.VX, Y: i.VY, Z: i.VZ},
		Orientation:     rotation.FromEuler(i.Roll, i.Pitch, i.Yaw),
		AngularVelocity: r3.Vector{X: i.WX, Y: i.WY, Z: i.WZ},
	}
}

// ControlGains converts the YAML gains to the controller's type.
func (c *Config) ControlGains() control.Gains {
	return control.Gains{
		KpPos: c.Gains.KpPos,
		KdPos: c.Gains.KdPos,
		KpAtt: c.Gains.KpAtt,
		KdAtt: c.Gains.KdAtt,
		KpYaw: c.Gains.KpYaw,
		KdYaw: c.Gains.KdYaw,
	}
}
