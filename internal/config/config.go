package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

const DefaultOutput = "rocket_simulation.csv"

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Dt           float64        `yaml:"dt"`
	MaxSteps     int            `yaml:"max_steps"`
	LaunchHeight float64        `yaml:"launch_height"`
	Output       string         `yaml:"output"`
	Physics      PhysicsConfig  `yaml:"physics"`
	Controls     ControlsConfig `yaml:"controls"`
}

type PhysicsConfig struct {
	Gravity             float64 `yaml:"gravity"`
	DryMass             float64 `yaml:"dry_mass"`
	FuelMassRatio       float64 `yaml:"fuel_mass_ratio"`
	FuelConsumptionRate float64 `yaml:"fuel_consumption_rate"`
}

// ControlsConfig pre-answers the console prompts. A nil field is asked for.
type ControlsConfig struct {
	Thrust *float64 `yaml:"thrust,omitempty"`
	Angle  *float64 `yaml:"angle,omitempty"`
	Fuel   *float64 `yaml:"fuel,omitempty"`
}

// Float returns a pointer to v for filling ControlsConfig.
func Float(v float64) *float64 { return &v }

func DefaultConfig() *Config {
	return &Config{
		Dt:           sim.DefaultDt,
		MaxSteps:     sim.DefaultMaxSteps,
		LaunchHeight: sim.DefaultLaunchHeight,
		Output:       DefaultOutput,
		Physics: PhysicsConfig{
			Gravity:             rocket.DefaultGravity,
			DryMass:             rocket.DefaultDryMass,
			FuelMassRatio:       rocket.DefaultFuelMassRatio,
			FuelConsumptionRate: rocket.DefaultFuelConsumptionRate,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep the values of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.MaxSteps <= 0:
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrInvalid, c.MaxSteps)
	case c.Physics.DryMass <= 0:
		return fmt.Errorf("%w: dry_mass must be positive, got %g", ErrInvalid, c.Physics.DryMass)
	case c.Physics.FuelMassRatio < 0:
		return fmt.Errorf("%w: fuel_mass_ratio must not be negative, got %g", ErrInvalid, c.Physics.FuelMassRatio)
	case c.Physics.FuelConsumptionRate < 0:
		return fmt.Errorf("%w: fuel_consumption_rate must not be negative, got %g", ErrInvalid, c.Physics.FuelConsumptionRate)
	case c.Controls.Fuel != nil && *c.Controls.Fuel < 0:
		return fmt.Errorf("%w: fuel must not be negative, got %g", ErrInvalid, *c.Controls.Fuel)
	}
	return nil
}

func (c *Config) Params() rocket.Params {
	return rocket.Params{
		Gravity:             c.Physics.Gravity,
		DryMass:             c.Physics.DryMass,
		FuelMassRatio:       c.Physics.FuelMassRatio,
		FuelConsumptionRate: c.Physics.FuelConsumptionRate,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:           c.Dt,
		MaxSteps:     c.MaxSteps,
		LaunchHeight: c.LaunchHeight,
	}
}

// Merge overlays the non-zero fields and non-nil controls of o onto c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Dt != 0 {
		c.Dt = o.Dt
	}
	if o.MaxSteps != 0 {
		c.MaxSteps = o.MaxSteps
	}
	if o.LaunchHeight != 0 {
		c.LaunchHeight = o.LaunchHeight
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Physics.Gravity != 0 {
		c.Physics.Gravity = o.Physics.Gravity
	}
	if o.Physics.DryMass != 0 {
		c.Physics.DryMass = o.Physics.DryMass
	}
	if o.Physics.FuelMassRatio != 0 {
		c.Physics.FuelMassRatio = o.Physics.FuelMassRatio
	}
	if o.Physics.FuelConsumptionRate != 0 {
		c.Physics.FuelConsumptionRate = o.Physics.FuelConsumptionRate
	}
	if o.Controls.Thrust != nil {
		c.Controls.Thrust = Float(*o.Controls.Thrust)
	}
	if o.Controls.Angle != nil {
		c.Controls.Angle = Float(*o.Controls.Angle)
	}
	if o.Controls.Fuel != nil {
		c.Controls.Fuel = Float(*o.Controls.Fuel)
	}
}

// Clone copies c including the control pointers.
func (c *Config) Clone() *Config {
	out := *c
	out.Controls = ControlsConfig{}
	out.Merge(&Config{Controls: c.Controls})
	return &out
}
