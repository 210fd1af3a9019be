package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

const (
	historyCapacity = 600
	frameInterval   = time.Second / 30
	maxStepsPerTick = 512
)

type TickMsg time.Time

// Model steps a run on a timer using the same termination rule as
// sim.Simulator.
type Model struct {
	params   rocket.Params
	controls rocket.Controls
	cfg      sim.Config
	initial  rocket.State

	state        rocket.State
	step         int
	running      bool
	done         bool
	reason       sim.Reason
	stepsPerTick int
	altitude     []float64
	maxAltitude  float64
	burnout      float64
}

func NewModel(p rocket.Params, c rocket.Controls, cfg sim.Config, fuel float64) Model {
	m := Model{
		params:       p,
		controls:     c,
		cfg:          cfg,
		initial:      rocket.Launch(cfg.LaunchHeight, fuel),
		stepsPerTick: 4,
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "n":
			m.advance()
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick && !m.done; i++ {
				m.advance()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.state = m.initial
	m.step = 0
	m.running = true
	m.done = false
	m.reason = sim.ReasonMaxSteps
	m.altitude = m.altitude[:0]
	m.maxAltitude = m.initial.Y
	m.burnout = -1
	m.observe()
	if m.state.Grounded() {
		m.finish(sim.ReasonGroundContact)
	}
}

// advance moves one step unless the run is over.
func (m *Model) advance() {
	if m.done {
		return
	}
	if m.step+1 >= m.cfg.MaxSteps {
		m.finish(sim.ReasonMaxSteps)
		return
	}

	m.state = rocket.Step(m.params, m.state, m.controls, m.cfg.Dt)
	m.step++
	m.observe()

	if m.state.Grounded() {
		m.finish(sim.ReasonGroundContact)
	}
}

func (m *Model) observe() {
	m.altitude = append(m.altitude, m.state.Y)
	if len(m.altitude) > historyCapacity {
		m.altitude = m.altitude[1:]
	}
	m.maxAltitude = max(m.maxAltitude, m.state.Y)
	if m.burnout < 0 && m.state.Fuel <= 0 {
		m.burnout = m.elapsed()
	}
}

func (m *Model) finish(reason sim.Reason) {
	m.done = true
	m.running = false
	m.reason = reason
}

func (m Model) elapsed() float64 {
	return float64(m.step) * m.cfg.Dt
}

func (m Model) State() rocket.State { return m.state }
func (m Model) Step() int           { return m.step }
func (m Model) Done() bool          { return m.done }
func (m Model) Reason() sim.Reason  { return m.reason }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("ROCKET  thrust %.0f N @ %.1f°", m.controls.Thrust, m.controls.AngleDeg)) + "\n")

	status := runningStyle.Render("RUNNING")
	switch {
	case m.done && m.reason == sim.ReasonGroundContact:
		status = doneStyle.Render(fmt.Sprintf("LANDED/CRASHED at x = %.2fm", m.state.X))
	case m.done:
		status = doneStyle.Render("MAX STEPS")
	case !m.running:
		status = pausedStyle.Render("PAUSED")
	}

	engine := "off"
	if m.state.Fuel > 0 {
		engine = burnStyle.Render("burning")
	}

	rows := [][2]string{
		{"status", status},
		{"step", fmt.Sprintf("%d / %d", m.step, m.cfg.MaxSteps)},
		{"time", fmt.Sprintf("%.2f s", m.elapsed())},
		{"x", fmt.Sprintf("%.2f m", m.state.X)},
		{"y", fmt.Sprintf("%.2f m", m.state.Y)},
		{"vel-x", fmt.Sprintf("%.2f m/s", m.state.VelocityX)},
		{"vel-y", fmt.Sprintf("%.2f m/s", m.state.VelocityY)},
		{"fuel", fmt.Sprintf("%.2f kg", m.state.Fuel)},
		{"mass", fmt.Sprintf("%.2f kg", m.state.TotalMass(m.params))},
		{"engine", engine},
		{"max alt", fmt.Sprintf("%.2f m", m.maxAltitude)},
		{"speed", fmt.Sprintf("x%d", m.stepsPerTick)},
	}
	var stats strings.Builder
	for i, r := range rows {
		if i > 0 {
			stats.WriteString("\n")
		}
		stats.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]))
	}

	graph := ""
	if len(m.altitude) > 1 {
		graph = asciigraph.Plot(m.altitude,
			asciigraph.Height(12),
			asciigraph.Width(60),
			asciigraph.Caption("altitude (m)"),
		)
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, statsStyle.Render(stats.String()), graphStyle.Render(graph)))
	s.WriteString("\n" + helpStyle.Render("space pause · n step · +/- speed · r reset · q quit"))
	return s.String()
}
