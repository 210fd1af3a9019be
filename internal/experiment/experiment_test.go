package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

type countSink struct {
	n      int
	closed bool
}

func (c *countSink) Emit(sim.Record) error { c.n++; return nil }
func (c *countSink) Close() error          { c.closed = true; return nil }

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LaunchHeight = 20

	exp := New(cfg, rocket.Controls{Thrust: 0, AngleDeg: 0}, 0)
	sink := &countSink{}
	if err := exp.Setup([]sim.Sink{sink}, metrics.Flight()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Landed() {
		t.Errorf("expected landing, got %v", res.Reason)
	}
	if sink.n != res.Steps {
		t.Errorf("expected %d records, got %d", res.Steps, sink.n)
	}
	if !sink.closed {
		t.Error("sink not closed")
	}
	if res.Metrics["max_altitude"] != 20 {
		t.Errorf("expected max altitude 20, got %v", res.Metrics["max_altitude"])
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(config.DefaultConfig(), rocket.Controls{}, 0)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error when running before setup")
	}
}

func TestExperimentRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	if err := New(cfg, rocket.Controls{}, 0).Setup(nil, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	if err := New(config.DefaultConfig(), rocket.Controls{}, -1).Setup(nil, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for negative fuel, got %v", err)
	}
}

func TestExperimentMetadata(t *testing.T) {
	cfg := config.DefaultConfig()
	meta := New(cfg, rocket.Controls{Thrust: 500, AngleDeg: 12}, 3).Metadata("probe")

	if meta.Label != "probe" || meta.Controls.Thrust != 500 || meta.Controls.Angle != 12 || meta.Controls.Fuel != 3 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Params["dry_mass"] != rocket.DefaultDryMass {
		t.Errorf("expected dry mass in params, got %v", meta.Params)
	}
	if meta.MaxSteps != cfg.MaxSteps || meta.Dt != cfg.Dt {
		t.Errorf("sim settings not carried: %+v", meta)
	}
}
