package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/sim"
)

type MaxAltitude struct {
	name    string
	max     float64
	samples int
}

func NewMaxAltitude() *MaxAltitude {
	return &MaxAltitude{name: "max_altitude"}
}

func (m *MaxAltitude) Name() string { return m.name }

func (m *MaxAltitude) Observe(r sim.Record) {
	if m.samples == 0 {
		m.max = r.State.Y
	} else {
		m.max = math.Max(m.max, r.State.Y)
	}
	m.samples++
}

func (m *MaxAltitude) Value() float64 { return m.max }

func (m *MaxAltitude) Reset() {
	m.max = 0
	m.samples = 0
}

// Range is the horizontal distance from the launch point at the last
// observed record.
type Range struct {
	name   string
	origin float64
	last   float64
	seen   bool
}

func NewRange() *Range {
	return &Range{name: "range"}
}

func (r *Range) Name() string { return r.name }

func (r *Range) Observe(rec sim.Record) {
	if !r.seen {
		r.origin = rec.State.X
		r.seen = true
	}
	r.last = rec.State.X
}

func (r *Range) Value() float64 { return r.last - r.origin }

func (r *Range) Reset() {
	r.origin, r.last = 0, 0
	r.seen = false
}
