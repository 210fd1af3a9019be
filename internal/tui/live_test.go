package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
)

func drive(m Model, ticks int) Model {
	for i := 0; i < ticks; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	return m
}

func key(m Model, k string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return next.(Model)
}

func TestModelMatchesStepper(t *testing.T) {
	p := rocket.DefaultParams()
	c := rocket.Controls{Thrust: 20000, AngleDeg: 75}
	cfg := sim.DefaultConfig()

	m := drive(NewModel(p, c, cfg, 30), 5)

	want := rocket.Launch(cfg.LaunchHeight, 30)
	for i := 0; i < m.Step(); i++ {
		want = rocket.Step(p, want, c, cfg.Dt)
	}
	if m.Step() != 20 {
		t.Errorf("expected 20 steps after 5 ticks, got %d", m.Step())
	}
	if m.State() != want {
		t.Errorf("expected %+v, got %+v", want, m.State())
	}
}

func TestModelStopsOnGroundContact(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.LaunchHeight = 5
	m := drive(NewModel(rocket.DefaultParams(), rocket.Controls{}, cfg, 0), 100)

	if !m.Done() || m.Reason() != sim.ReasonGroundContact {
		t.Fatalf("expected ground contact, got done=%v reason=%v", m.Done(), m.Reason())
	}
	if !m.State().Grounded() {
		t.Error("final state should be below ground")
	}
	if m.Step() != 10 {
		t.Errorf("expected contact at step 10, got %d", m.Step())
	}
	if !strings.Contains(m.View(), "LANDED") {
		t.Error("view should report the landing")
	}
}

func TestModelStopsAtMaxSteps(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.MaxSteps = 9
	m := drive(NewModel(rocket.DefaultParams(), rocket.Controls{}, cfg, 0), 10)

	if !m.Done() || m.Reason() != sim.ReasonMaxSteps {
		t.Fatalf("expected max steps, got done=%v reason=%v", m.Done(), m.Reason())
	}
	if m.Step() != 8 {
		t.Errorf("expected last step index 8, got %d", m.Step())
	}
}

func TestModelBelowGroundAtLaunch(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.LaunchHeight = -1
	m := drive(NewModel(rocket.DefaultParams(), rocket.Controls{Thrust: 1e5, AngleDeg: 90}, cfg, 10), 3)

	if !m.Done() || m.Step() != 0 {
		t.Errorf("expected no steps, got done=%v step=%d", m.Done(), m.Step())
	}
}

func TestModelKeys(t *testing.T) {
	m := NewModel(rocket.DefaultParams(), rocket.Controls{}, sim.DefaultConfig(), 0)

	m = key(m, " ")
	m = drive(m, 3)
	if m.Step() != 0 {
		t.Errorf("paused model advanced to %d", m.Step())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused")
	}

	m = key(m, "n")
	if m.Step() != 1 {
		t.Errorf("expected single step, got %d", m.Step())
	}

	m = key(m, "+")
	m = key(m, " ")
	m = drive(m, 1)
	if m.Step() != 9 {
		t.Errorf("expected 8 steps per tick after speed up, got step %d", m.Step())
	}

	m = key(m, "r")
	if m.Step() != 0 || m.State() != rocket.Launch(sim.DefaultLaunchHeight, 0) {
		t.Error("reset did not restore the launch state")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("expected quit command")
	}
}
