package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/sim"
)

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(r sim.Record) {
	m.max = math.Max(m.max, r.State.Speed())
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// ImpactSpeed is the speed at the first below-ground record, 0 if the
// vehicle never touched down.
type ImpactSpeed struct {
	name   string
	speed  float64
	landed bool
}

func NewImpactSpeed() *ImpactSpeed {
	return &ImpactSpeed{name: "impact_speed"}
}

func (m *ImpactSpeed) Name() string { return m.name }

func (m *ImpactSpeed) Observe(r sim.Record) {
	if m.landed || !r.State.Grounded() {
		return
	}
	m.speed = r.State.Speed()
	m.landed = true
}

func (m *ImpactSpeed) Value() float64 { return m.speed }

func (m *ImpactSpeed) Reset() {
	m.speed = 0
	m.landed = false
}
