package rocket

import (
	"math"
	"testing"
)

func TestTotalMass(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		fuel   float64
		want   float64
	}{
		{"mass-neutral fuel", Params{DryMass: 1000, FuelMassRatio: 0}, 50, 1000},
		{"unit ratio", Params{DryMass: 1000, FuelMassRatio: 1}, 50, 1050},
		{"half ratio", Params{DryMass: 800, FuelMassRatio: 0.5}, 40, 820},
		{"empty tank", Params{DryMass: 1000, FuelMassRatio: 2}, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Launch(0, tt.fuel)
			if got := s.TotalMass(tt.params); got != tt.want {
				t.Errorf("TotalMass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalMassTracksFuel(t *testing.T) {
	p := Params{DryMass: 1000, FuelMassRatio: 1}
	s := Launch(0, 10)
	before := s.TotalMass(p)
	s.Fuel = 4
	if after := s.TotalMass(p); after != before-6 {
		t.Errorf("expected mass %v after burning 6, got %v", before-6, after)
	}
}

func TestLaunch(t *testing.T) {
	s := Launch(63780, 25)
	if s.X != 0 || s.Y != 63780 {
		t.Errorf("expected position (0, 63780), got (%v, %v)", s.X, s.Y)
	}
	if s.VelocityX != 0 || s.VelocityY != 0 {
		t.Errorf("expected zero velocity, got (%v, %v)", s.VelocityX, s.VelocityY)
	}
	if s.Fuel != 25 {
		t.Errorf("expected fuel 25, got %v", s.Fuel)
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{Y: -0.01, VelocityX: 3, VelocityY: 4}
	if !s.Grounded() {
		t.Error("negative height should be grounded")
	}
	if math.Abs(s.Speed()-5) > 1e-12 {
		t.Errorf("expected speed 5, got %v", s.Speed())
	}
	if (State{Y: 0}).Grounded() {
		t.Error("zero height is not below ground")
	}
	if !s.IsValid() {
		t.Error("finite state should be valid")
	}
	if (State{Fuel: math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
}

func TestParamsSetParam(t *testing.T) {
	p := DefaultParams()

	q, err := p.SetParam("gravity", 1.62)
	if err != nil {
		t.Fatalf("set gravity: %v", err)
	}
	if q.Gravity != 1.62 {
		t.Errorf("expected gravity 1.62, got %v", q.Gravity)
	}
	if p.Gravity != DefaultGravity {
		t.Error("SetParam modified the receiver")
	}

	if _, err := p.SetParam("drag", 1); err == nil {
		t.Error("expected error for unknown param")
	}

	for name, v := range q.GetParams() {
		r, err := DefaultParams().SetParam(name, v)
		if err != nil {
			t.Fatalf("param %s not settable: %v", name, err)
		}
		if r.GetParams()[name] != v {
			t.Errorf("param %s: expected %v, got %v", name, v, r.GetParams()[name])
		}
	}
}
