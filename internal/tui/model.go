// Package tui is an interactive terminal stepper for a run.
//
// Keys:
//
//	space  pause or resume
//	n      advance one tick while paused
//	k      switch between the true map and the fleet's knowledge
//	+ / -  run faster or slower
//	q      quit
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elektrokombinacija/fleet-explore/internal/render"
	"github.com/elektrokombinacija/fleet-explore/internal/sim"
	"github.com/elektrokombinacija/fleet-explore/internal/world"
)

const (
	minInterval = time.Millisecond
	maxInterval = 2 * time.Second
)

// tickMsg asks for the next automatic step. Messages from an older
// generation were scheduled before a pause and are dropped.
type tickMsg struct{ gen int }

// Model drives a runner one tick at a time.
type Model struct {
	runner   *sim.Runner
	render   *render.Renderer
	interval time.Duration

	gen      int
	paused   bool
	known    bool
	done     bool
	quitting bool
}

// New creates a model that steps r every interval. It starts paused when
// paused is true.
func New(r *sim.Runner, rd *render.Renderer, interval time.Duration, paused bool) Model {
	return Model{
		runner:   r,
		render:   rd,
		interval: min(max(interval, minInterval), maxInterval),
		paused:   paused,
		done:     r.Done(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.paused || m.done {
		return nil
	}
	return m.schedule()
}

func (m Model) schedule() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if msg.gen != m.gen || m.paused || m.done {
			return m, nil
		}
		m.step()
		if m.done {
			return m, nil
		}
		return m, m.schedule()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
		m.gen++
		if !m.paused && !m.done {
			return m, m.schedule()
		}
	case "n":
		if m.paused && !m.done {
			m.step()
		}
	case "k":
		m.known = !m.known
	case "+", "=":
		m.interval = max(m.interval/2, minInterval)
	case "-":
		m.interval = min(m.interval*2, maxInterval)
	}
	return m, nil
}

func (m *Model) step() {
	if !m.runner.Step() || m.runner.Done() {
		m.done = true
	}
}

// Paused reports whether automatic stepping is off.
func (m Model) Paused() bool { return m.paused }

// Done reports whether the run has ended.
func (m Model) Done() bool { return m.done }

// Interval is the delay between automatic steps.
func (m Model) Interval() time.Duration { return m.interval }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var board, robots, tasks string
	var now int
	m.runner.View(func(w *world.World, t int) {
		now = t
		if m.known {
			board = m.render.KnownMap(w)
		} else {
			board = m.render.ObjectMap(w)
		}
		robots = m.render.RobotSummary(w)
		tasks = m.render.TaskSummary(w, m.runner.Config().MaxTasks)
	})

	cfg := m.runner.Config()
	state := "running"
	switch {
	case m.done:
		state = "finished: " + m.runner.EndReason()
	case m.paused:
		state = "paused"
	}
	header := m.render.Styles.Title.Render(fmt.Sprintf("fleet %s  tick %d/%d  %s",
		m.runner.Strategy().Name(), now, cfg.TimeMax, state))
	side := lipgloss.JoinVertical(lipgloss.Left, robots, tasks)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.render.Box(board), " ", side)
	help := m.render.Styles.Frame.Render("space pause · n step · k knowledge · +/- speed · q quit")
	return strings.Join([]string{header, body, help}, "\n")
}
