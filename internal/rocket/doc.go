// Package rocket models a thrust-propelled vehicle moving in a vertical
// plane under constant gravity.
//
// The package is pure: [State] is a value type and [Step] returns the next
// state without touching its input. Physical constants live in [Params]
// and are passed explicitly, so a run is fully described by
// (Params, initial State, Controls, dt).
//
// # Integration
//
// [Step] is a semi-implicit Euler update. Mass and thrust are evaluated
// from the state entering the step; velocity is advanced first and the
// new velocity is used to advance position:
//
//	p := rocket.DefaultParams()
//	s := rocket.Launch(63780, 50)
//	c := rocket.Controls{Thrust: 20000, AngleDeg: 80}
//	for i := 0; i < 100; i++ {
//	    s = rocket.Step(p, s, c, 0.1)
//	}
package rocket
