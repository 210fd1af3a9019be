package rocket

import "math"

// State is the vehicle configuration at one instant. Y is height above the
// ground plane, positive up.
type State struct {
	X, Y                 float64
	VelocityX, VelocityY float64
	Fuel                 float64
}

// Controls are fixed for a whole run.
type Controls struct {
	Thrust   float64 // newtons
	AngleDeg float64 // degrees from horizontal
}

// Launch returns the resting state at (0, height) carrying fuel.
func Launch(height, fuel float64) State {
	return State{Y: height, Fuel: fuel}
}

// TotalMass is recomputed from Fuel on every call.
func (s State) TotalMass(p Params) float64 {
	return p.DryMass + s.Fuel*p.FuelMassRatio
}

func (s State) Speed() float64 {
	return math.Hypot(s.VelocityX, s.VelocityY)
}

func (s State) Grounded() bool {
	return s.Y < 0
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.VelocityX, s.VelocityY, s.Fuel} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
