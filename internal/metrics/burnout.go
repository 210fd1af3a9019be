package metrics

import "github.com/san-kum/rocketsim/internal/sim"

// BurnoutTime is the elapsed time of the first record with an empty tank,
// or -1 while fuel remains.
type BurnoutTime struct {
	name string
	t    float64
	done bool
}

func NewBurnoutTime() *BurnoutTime {
	return &BurnoutTime{name: "burnout_time", t: -1}
}

func (b *BurnoutTime) Name() string { return b.name }

func (b *BurnoutTime) Observe(r sim.Record) {
	if b.done || r.State.Fuel > 0 {
		return
	}
	b.t = r.Time
	b.done = true
}

func (b *BurnoutTime) Value() float64 { return b.t }

func (b *BurnoutTime) Reset() {
	b.t = -1
	b.done = false
}

// Flight returns the metrics reported for every run.
func Flight() []sim.Metric {
	return []sim.Metric{
		NewMaxAltitude(),
		NewRange(),
		NewMaxSpeed(),
		NewBurnoutTime(),
		NewImpactSpeed(),
	}
}
