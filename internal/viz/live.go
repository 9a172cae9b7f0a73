// Package viz renders a live terminal view of the free surface while the
// solution is stepped, for watching a case evolve without waiting on
// snapshot files.
package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swe1d/internal/driver"
	"github.com/san-kum/swe1d/internal/swe"
)

const (
	graphHeight   = 15
	graphWidth    = 80
	stepsPerFrame = 5
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the solution between frames and plots the free surface.
type Model struct {
	rhs      swe.RHS
	stepper  swe.Stepper
	field    swe.Field
	topo     []float64
	caseName string
	fluxName string

	t, dt     float64
	steps     int
	frameRate int
	paused    bool
	err       error
}

func NewModel(caseName string, m swe.Mesh, phys swe.Physics, flux swe.FluxAssembler, stepper swe.Stepper, dt float64, frameRate int) Model {
	return Model{
		rhs:       driver.ComposeRHS(m, phys, flux),
		stepper:   stepper,
		field:     phys.InitialCondition(),
		topo:      phys.Topography(),
		caseName:  caseName,
		fluxName:  flux.Name(),
		dt:        dt,
		frameRate: frameRate,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
		return m, nil

	case TickMsg:
		if m.paused || m.err != nil {
			return m, m.tick()
		}
		for i := 0; i < stepsPerFrame; i++ {
			next, err := m.stepper.Step(m.rhs, m.field, m.t, m.dt)
			if err != nil {
				m.err = err
				return m, nil
			}
			if !next.IsValid() {
				m.err = swe.ErrUnstable
				return m, nil
			}
			m.field = next
			m.t += m.dt
			m.steps++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("swe1d live  case=%s flux=%s scheme=%s  t=%.3f  steps=%d",
		m.caseName, m.fluxName, m.stepper.Name(), m.t, m.steps))

	surface := make([]float64, m.field.Len())
	for i := range surface {
		surface[i] = m.field.H[i] + m.topo[i]
	}
	graph := graphStyle.Render(asciigraph.Plot(surface,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("free surface h+z"),
	))

	view := header + "\n" + graph
	if m.err != nil {
		view += "\n" + errorStyle.Render(fmt.Sprintf("run aborted: %v", m.err))
	}
	if m.paused {
		view += "\n" + helpStyle.Render("paused — space to resume, q to quit")
	} else {
		view += "\n" + helpStyle.Render("space to pause, q to quit")
	}
	return view
}
