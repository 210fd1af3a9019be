package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
)

// Experiment is one fully specified run: configuration, controls and the
// initial fuel load.
type Experiment struct {
	cfg       *config.Config
	controls  rocket.Controls
	fuel      float64
	simulator *sim.Simulator
}

func New(cfg *config.Config, controls rocket.Controls, fuel float64) *Experiment {
	return &Experiment{cfg: cfg, controls: controls, fuel: fuel}
}

func (e *Experiment) Setup(sinks []sim.Sink, metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if e.fuel < 0 {
		return fmt.Errorf("%w: initial fuel must not be negative, got %g", config.ErrInvalid, e.fuel)
	}

	e.simulator = sim.New(e.cfg.Params(), e.controls)
	for _, k := range sinks {
		e.simulator.AddSink(k)
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	simCfg := e.cfg.SimConfig()
	return e.simulator.Run(ctx, e.simulator.Initial(simCfg, e.fuel), simCfg)
}

// Metadata describes the experiment for the run store.
func (e *Experiment) Metadata(label string) storage.RunMetadata {
	return storage.RunMetadata{
		Label: label,
		Controls: storage.ControlsMeta{
			Thrust: e.controls.Thrust,
			Angle:  e.controls.AngleDeg,
			Fuel:   e.fuel,
		},
		Params:       e.cfg.Params().GetParams(),
		Dt:           e.cfg.Dt,
		MaxSteps:     e.cfg.MaxSteps,
		LaunchHeight: e.cfg.LaunchHeight,
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
