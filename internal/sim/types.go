package sim

import (
	"fmt"

	"github.com/san-kum/rocketsim/internal/rocket"
)

const (
	DefaultDt           = 0.1
	DefaultMaxSteps     = 10000
	DefaultLaunchHeight = 63780.0
)

type Config struct {
	Dt           float64
	MaxSteps     int
	LaunchHeight float64
}

func DefaultConfig() Config {
	return Config{
		Dt:           DefaultDt,
		MaxSteps:     DefaultMaxSteps,
		LaunchHeight: DefaultLaunchHeight,
	}
}

// Record is one emitted row of a run.
type Record struct {
	Step  int
	Time  float64
	State rocket.State
	Mass  float64
}

// Sink receives every record of a run. Run closes its sinks on return.
type Sink interface {
	Emit(r Record) error
	Close() error
}

// Finisher is implemented by sinks that write a trailer once the loop has
// stopped.
type Finisher interface {
	Finish(res *Result) error
}

type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(r Record)
}

type Reason int

const (
	ReasonMaxSteps Reason = iota
	ReasonGroundContact
	ReasonCanceled
	ReasonSinkError
)

func (r Reason) String() string {
	switch r {
	case ReasonMaxSteps:
		return "max_steps"
	case ReasonGroundContact:
		return "ground_contact"
	case ReasonCanceled:
		return "canceled"
	case ReasonSinkError:
		return "sink_error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

type Result struct {
	Reason    Reason
	Steps     int // records emitted
	Final     rocket.State
	FinalTime float64
	Metrics   map[string]float64
}

// Landed reports whether the run stopped on ground contact.
func (r *Result) Landed() bool {
	return r.Reason == ReasonGroundContact
}

// StepError ties a sink failure to the record that triggered it.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
