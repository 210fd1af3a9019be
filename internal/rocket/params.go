package rocket

import "fmt"

const (
	DefaultGravity             = 9.81
	DefaultDryMass             = 1000.0
	DefaultFuelMassRatio       = 0.0
	DefaultFuelConsumptionRate = 0.01
)

// Params holds the physical constants of a run. A zero FuelMassRatio makes
// fuel mass-neutral.
type Params struct {
	Gravity             float64
	DryMass             float64
	FuelMassRatio       float64
	FuelConsumptionRate float64 // fuel units per newton-second
}

func DefaultParams() Params {
	return Params{
		Gravity:             DefaultGravity,
		DryMass:             DefaultDryMass,
		FuelMassRatio:       DefaultFuelMassRatio,
		FuelConsumptionRate: DefaultFuelConsumptionRate,
	}
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":    p.Gravity,
		"dry_mass":   p.DryMass,
		"fuel_ratio": p.FuelMassRatio,
		"burn_rate":  p.FuelConsumptionRate,
	}
}

// SetParam returns a copy of p with the named constant replaced.
func (p Params) SetParam(name string, value float64) (Params, error) {
	switch name {
	case "gravity":
		p.Gravity = value
	case "dry_mass":
		p.DryMass = value
	case "fuel_ratio":
		p.FuelMassRatio = value
	case "burn_rate":
		p.FuelConsumptionRate = value
	default:
		return p, fmt.Errorf("unknown param: %s", name)
	}
	return p, nil
}
