package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/rocketsim/internal/rocket"
)

type Simulator struct {
	params    rocket.Params
	controls  rocket.Controls
	sinks     []Sink
	metrics   []Metric
	observers []Observer
}

func New(params rocket.Params, controls rocket.Controls) *Simulator {
	return &Simulator{
		params:    params,
		controls:  controls,
		sinks:     make([]Sink, 0),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddSink(k Sink)         { s.sinks = append(s.sinks, k) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() rocket.Params     { return s.params }
func (s *Simulator) Controls() rocket.Controls { return s.controls }

// Initial returns the launch state for the configured height and fuel.
func (s *Simulator) Initial(cfg Config, fuel float64) rocket.State {
	return rocket.Launch(cfg.LaunchHeight, fuel)
}

// Run emits x0 and every following state until the vehicle is observed
// below ground or cfg.MaxSteps records have been emitted. The record that
// shows ground contact is emitted before the loop stops. Sinks are closed
// on every return path.
func (s *Simulator) Run(ctx context.Context, x0 rocket.State, cfg Config) (res *Result, err error) {
	defer func() {
		if cerr := s.closeSinks(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	res = &Result{
		Reason:  ReasonMaxSteps,
		Metrics: make(map[string]float64),
	}

	x := x0
	for i := 0; i < cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			res.Reason = ReasonCanceled
			s.collect(res)
			return res, ctx.Err()
		default:
		}

		rec := Record{
			Step:  i,
			Time:  float64(i) * cfg.Dt,
			State: x,
			Mass:  x.TotalMass(s.params),
		}

		if err := s.emit(rec); err != nil {
			res.Reason = ReasonSinkError
			s.collect(res)
			return res, &StepError{Step: i, Time: rec.Time, Err: err}
		}
		res.Steps++
		res.Final = x
		res.FinalTime = rec.Time

		if x.Grounded() {
			res.Reason = ReasonGroundContact
			break
		}

		if i+1 < cfg.MaxSteps {
			x = rocket.Step(s.params, x, s.controls, cfg.Dt)
		}
	}

	s.collect(res)

	if err := s.finish(res); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Simulator) emit(rec Record) error {
	for _, m := range s.metrics {
		m.Observe(rec)
	}
	for _, obs := range s.observers {
		obs.OnStep(rec)
	}
	for _, k := range s.sinks {
		if err := k.Emit(rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) collect(res *Result) {
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) finish(res *Result) error {
	for _, k := range s.sinks {
		if f, ok := k.(Finisher); ok {
			if err := f.Finish(res); err != nil {
				return fmt.Errorf("finish sink: %w", err)
			}
		}
	}
	return nil
}

func (s *Simulator) closeSinks() error {
	var errs []error
	for _, k := range s.sinks {
		if err := k.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.sinks = s.sinks[:0]
	return errors.Join(errs...)
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	return nil
}
