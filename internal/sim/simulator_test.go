package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

type memorySink struct {
	records  []sim.Record
	closed   int
	finished *sim.Result
	failAt   int
}

func newMemorySink() *memorySink { return &memorySink{failAt: -1} }

func (m *memorySink) Emit(r sim.Record) error {
	if r.Step == m.failAt {
		return errors.New("disk full")
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memorySink) Close() error {
	m.closed++
	return nil
}

func (m *memorySink) Finish(res *sim.Result) error {
	m.finished = res
	return nil
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string         { return "count" }
func (c *countingMetric) Observe(_ sim.Record) { c.n++ }
func (c *countingMetric) Value() float64       { return float64(c.n) }
func (c *countingMetric) Reset()               { c.n = 0 }

type stepObserver struct{ steps []int }

func (o *stepObserver) OnStep(r sim.Record) { o.steps = append(o.steps, r.Step) }

var _ = Describe("Simulator", func() {
	var (
		params rocket.Params
		cfg    sim.Config
		sink   *memorySink
		ctx    context.Context
	)

	BeforeEach(func() {
		params = rocket.DefaultParams()
		cfg = sim.DefaultConfig()
		sink = newMemorySink()
		ctx = context.Background()
	})

	run := func(c rocket.Controls, x0 rocket.State) *sim.Result {
		s := sim.New(params, c)
		s.AddSink(sink)
		res, err := s.Run(ctx, x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Describe("free fall without thrust", func() {
		It("matches the hand-computed first step", func() {
			cfg.MaxSteps = 2
			run(rocket.Controls{}, rocket.Launch(63780, 0))

			Expect(sink.records).To(HaveLen(2))
			first := sink.records[1].State
			Expect(first.VelocityY).To(BeNumerically("~", -0.981, 1e-12))
			Expect(first.Y).To(BeNumerically("~", 63780.0-0.981*0.1, 1e-9))
		})

		It("never moves horizontally and ends on the ground", func() {
			res := run(rocket.Controls{}, rocket.Launch(63780, 0))

			Expect(res.Reason).To(Equal(sim.ReasonGroundContact))
			for _, r := range sink.records {
				Expect(r.State.X).To(BeZero())
			}
			last := sink.records[len(sink.records)-1]
			Expect(last.State.Y).To(BeNumerically("<", 0))
			Expect(res.Final).To(Equal(last.State))
		})
	})

	Describe("termination", func() {
		It("emits the first below-ground record and stops there", func() {
			res := run(rocket.Controls{}, rocket.Launch(10, 0))

			n := len(sink.records)
			Expect(res.Steps).To(Equal(n))
			Expect(sink.records[n-1].State.Grounded()).To(BeTrue())
			for _, r := range sink.records[:n-1] {
				Expect(r.State.Grounded()).To(BeFalse())
			}
		})

		It("emits a single record when launched below ground", func() {
			cfg.LaunchHeight = -1
			s := sim.New(params, rocket.Controls{Thrust: 50000, AngleDeg: 90})
			s.AddSink(sink)

			res, err := s.Run(ctx, s.Initial(cfg, 10), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(1))
			Expect(res.Landed()).To(BeTrue())
			Expect(sink.records).To(HaveLen(1))
			Expect(res.Final.Fuel).To(Equal(10.0))
		})

		It("keeps going at exactly zero height", func() {
			cfg.LaunchHeight = 0
			res := run(rocket.Controls{}, rocket.Launch(cfg.LaunchHeight, 0))

			Expect(res.Steps).To(Equal(2))
			Expect(sink.records[0].State.Y).To(BeZero())
			Expect(sink.records[1].State.Y).To(BeNumerically("<", 0))
		})

		It("stops after max steps when the vehicle stays up", func() {
			cfg.MaxSteps = 50
			res := run(rocket.Controls{Thrust: 1e6, AngleDeg: 90}, rocket.Launch(100, 1e9))

			Expect(res.Reason).To(Equal(sim.ReasonMaxSteps))
			Expect(res.Steps).To(Equal(50))
			Expect(sink.records).To(HaveLen(50))
			Expect(res.FinalTime).To(BeNumerically("~", 4.9, 1e-9))
		})
	})

	Describe("fuel exhaustion", func() {
		It("cuts thrust once the tank is empty", func() {
			cfg.MaxSteps = 20
			run(rocket.Controls{Thrust: 1000, AngleDeg: 30}, rocket.Launch(63780, 5))

			for i := 0; i < 5; i++ {
				Expect(sink.records[i].State.Fuel).To(BeNumerically(">", 0))
			}
			Expect(sink.records[5].State.Fuel).To(BeZero())

			for i := 6; i < len(sink.records); i++ {
				prev, cur := sink.records[i-1].State, sink.records[i].State
				Expect(cur.VelocityX).To(Equal(prev.VelocityX))
				Expect(cur.VelocityY - prev.VelocityY).To(BeNumerically("~", -params.Gravity*cfg.Dt, 1e-9))
				Expect(sink.records[i].Mass).To(Equal(params.DryMass))
			}
		})

		It("never reports increasing or negative fuel", func() {
			params.FuelMassRatio = 1
			run(rocket.Controls{Thrust: 30000, AngleDeg: 70}, rocket.Launch(500, 80))

			for i := 1; i < len(sink.records); i++ {
				Expect(sink.records[i].State.Fuel).To(BeNumerically("<=", sink.records[i-1].State.Fuel))
				Expect(sink.records[i].State.Fuel).To(BeNumerically(">=", 0))
				Expect(sink.records[i].Mass).To(BeNumerically(">=", params.DryMass))
			}
		})
	})

	It("reproduces identical runs", func() {
		c := rocket.Controls{Thrust: 25000, AngleDeg: 63}
		run(c, rocket.Launch(63780, 40))
		first := sink.records

		sink = newMemorySink()
		run(c, rocket.Launch(63780, 40))
		Expect(sink.records).To(Equal(first))
	})

	It("stamps records with step index times dt", func() {
		cfg.MaxSteps = 30
		run(rocket.Controls{Thrust: 12000, AngleDeg: 80}, rocket.Launch(1000, 10))

		for i, r := range sink.records {
			Expect(r.Step).To(Equal(i))
			Expect(r.Time).To(Equal(float64(i) * cfg.Dt))
			Expect(r.Mass).To(Equal(r.State.TotalMass(params)))
		}
	})

	Describe("sinks", func() {
		It("closes and finishes sinks after a normal run", func() {
			res := run(rocket.Controls{}, rocket.Launch(5, 0))
			Expect(sink.closed).To(Equal(1))
			Expect(sink.finished).To(BeIdenticalTo(res))
		})

		It("stops on an emit failure and still closes", func() {
			sink.failAt = 3
			s := sim.New(params, rocket.Controls{})
			s.AddSink(sink)

			res, err := s.Run(ctx, rocket.Launch(63780, 0), cfg)
			Expect(err).To(HaveOccurred())

			var stepErr *sim.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(3))
			Expect(res.Reason).To(Equal(sim.ReasonSinkError))
			Expect(sink.records).To(HaveLen(3))
			Expect(sink.closed).To(Equal(1))
			Expect(sink.finished).To(BeNil())
		})

		It("closes sinks when the config is rejected", func() {
			cfg.Dt = 0
			s := sim.New(params, rocket.Controls{})
			s.AddSink(sink)

			_, err := s.Run(ctx, rocket.Launch(1, 0), cfg)
			Expect(err).To(HaveOccurred())
			Expect(sink.closed).To(Equal(1))
		})
	})

	It("reports metrics", func() {
		m := &countingMetric{}
		s := sim.New(params, rocket.Controls{})
		s.AddMetric(m)
		cfg.MaxSteps = 7

		res, err := s.Run(ctx, rocket.Launch(1e6, 0), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics).To(HaveKeyWithValue("count", 7.0))
	})

	It("notifies observers of every emitted record", func() {
		o := &stepObserver{}
		s := sim.New(params, rocket.Controls{})
		s.AddObserver(o)
		cfg.MaxSteps = 4

		_, err := s.Run(ctx, rocket.Launch(1e6, 0), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(o.steps).To(Equal([]int{0, 1, 2, 3}))
	})

	It("honours a canceled context between steps", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		s := sim.New(params, rocket.Controls{})
		s.AddSink(sink)
		res, err := s.Run(cctx, rocket.Launch(1, 0), cfg)

		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Reason).To(Equal(sim.ReasonCanceled))
		Expect(sink.closed).To(Equal(1))
	})

	It("stays finite over a full run", func() {
		res := run(rocket.Controls{Thrust: 40000, AngleDeg: 45}, rocket.Launch(63780, 100))
		for _, r := range sink.records {
			Expect(r.State.IsValid()).To(BeTrue())
		}
		Expect(math.IsNaN(res.FinalTime)).To(BeFalse())
	})
})
