package rocket

import "math"

// Thrust returns the thrust force components applied during a step that
// starts in s. The engine is off once fuel is exhausted.
func Thrust(s State, c Controls) (fx, fy float64) {
	if s.Fuel <= 0 {
		return 0, 0
	}
	rad := c.AngleDeg * math.Pi / 180.0
	return c.Thrust * math.Cos(rad), c.Thrust * math.Sin(rad)
}

// Acceleration evaluates thrust and mass at s. Gravity always acts.
func Acceleration(p Params, s State, c Controls) (ax, ay float64) {
	mass := s.TotalMass(p)
	fx, fy := Thrust(s, c)
	return fx / mass, fy/mass - p.Gravity
}

// Burn is the fuel consumed by one powered step. Reverse thrust burns fuel
// like forward thrust and the result is never negative.
func Burn(p Params, c Controls, dt float64) float64 {
	return math.Max(0, math.Abs(c.Thrust)*p.FuelConsumptionRate*dt)
}

// Step advances s by dt and returns the new state.
func Step(p Params, s State, c Controls, dt float64) State {
	next := s

	if s.Fuel > 0 {
		next.Fuel = math.Max(0, s.Fuel-Burn(p, c, dt))
	}

	ax, ay := Acceleration(p, s, c)

	next.VelocityX = s.VelocityX + ax*dt
	next.VelocityY = s.VelocityY + ay*dt

	// position uses the updated velocity
	next.X = s.X + next.VelocityX*dt
	next.Y = s.Y + next.VelocityY*dt

	return next
}
