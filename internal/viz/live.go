package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

const (
	canvasWidth     = 72
	canvasHeight    = 22
	historyCapacity = 600
	frameRate       = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model runs the closed-loop simulation in real time and renders a side
// view of the vehicle alongside live telemetry.
type Model struct {
	engine     *quad.Engine
	controller quad.Controller
	trajectory quad.Trajectory
	dt, t      float64
	running    bool
	failed     error
	canvas     *Canvas
	trail      []struct{ x, y int }
	altHistory []float64
	lastCmd    quad.Commands
	initial    quad.State
}

func NewModel(engine *quad.Engine, ctrl quad.Controller, traj quad.Trajectory, dt float64) Model {
	return Model{
		engine:     engine,
		controller: ctrl,
		trajectory: traj,
		dt:         dt,
		running:    true,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		trail:      make([]struct{ x, y int }, 0, 200),
		altHistory: make([]float64, 0, historyCapacity),
		initial:    engine.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.failed == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			// enough control steps per frame to track wall time
			n := int(1.0/(frameRate*m.dt) + 0.5)
			if n < 1 {
				n = 1
			}
			for i := 0; i < n && m.failed == nil; i++ {
				m.step()
			}
			alt := m.engine.State().Position.Z
			m.altHistory = append(m.altHistory, alt)
			if len(m.altHistory) > historyCapacity {
				m.altHistory = m.altHistory[1:]
			}
		}
		m.draw()
		return m, tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	target := m.trajectory.Eval(m.t)
	cmd := m.controller.Step(m.t, m.engine.State(), target)
	if _, err := m.engine.Step(cmd, m.dt); err != nil {
		m.failed = err
		m.running = false
		return
	}
	m.lastCmd = cmd
	m.t += m.dt
}

func (m *Model) reset() {
	m.engine.Reset(m.initial)
	m.t = 0
	m.failed = nil
	m.running = true
	m.trail = m.trail[:0]
	m.altHistory = m.altHistory[:0]
	m.lastCmd = quad.Commands{}
}

// draw renders the x-z side view: ground line, flight trail, and the
// airframe as a bar tilted by pitch with rotor marks at the tips.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := canvasWidth*2, canvasHeight*4
	cx, cy := cw/2, ch/2

	m.canvas.DrawLine(0, ch-3, cw-1, ch-3)

	s := m.engine.State()
	px := cx + int(s.Position.X*8)
	py := cy - int(s.Position.Z*6)

	m.trail = append(m.trail, struct{ x, y int }{px, py})
	if len(m.trail) > 200 {
		m.trail = m.trail[1:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	_, pitch, _ := s.Orientation.Euler()
	arm := 12.0
	c, sn := math.Cos(pitch), math.Sin(pitch)
	lx, ly := px-int(arm*c), py-int(arm*sn)
	rx, ry := px+int(arm*c), py+int(arm*sn)
	m.canvas.DrawLine(lx, ly, rx, ry)
	m.canvas.DrawLine(lx-3, ly-2, lx+3, ly-2)
	m.canvas.DrawLine(rx-3, ry-2, rx+3, ry-2)
}

func (m Model) View() string {
	s := m.engine.State()
	roll, pitch, yaw := s.Orientation.Euler()

	status := "RUNNING"
	if m.failed != nil {
		status = errorStyle.Render(fmt.Sprintf("FAILED: %v", m.failed))
	} else if !m.running {
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("QUADSIM") + "\n")
	b.WriteString(status + "\n\n")

	if len(m.altHistory) > 1 {
		chart := asciigraph.Plot(m.altHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Altitude [m]"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	b.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", s.Position.X, s.Position.Y, s.Position.Z)) + "\n")
	b.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2f m/s", s.Velocity.Norm())) + "\n")
	b.WriteString(labelStyle.Render("Attitude") + valueStyle.Render(fmt.Sprintf("r%.2f p%.2f y%.2f", roll, pitch, yaw)) + "\n")
	b.WriteString(labelStyle.Render("Rotors") + valueStyle.Render(fmt.Sprintf("%.0f %.0f %.0f %.0f", m.lastCmd[0], m.lastCmd[1], m.lastCmd[2], m.lastCmd[3])) + "\n")
	b.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f J", m.engine.Dynamics().Energy(s))) + "\n")
	b.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
