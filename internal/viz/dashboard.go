package viz

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tractionsim/internal/control"
	"github.com/san-kum/tractionsim/internal/vehicle"
)

const (
	canvasWidth     = 40
	canvasHeight    = 8
	historyCapacity = 120
	barWidth        = 12
)

type snapshotMsg vehicle.Snapshot

// Model is the Bubble Tea model behind the dashboard. It holds no simulation
// state of its own; every frame arrives as a snapshot message.
type Model struct {
	title    string
	target   float64
	maxBrake float64
	maxDrive float64

	theme  Theme
	styles styles
	canvas *Canvas

	snap         vehicle.Snapshot
	frames       int
	speedHistory []float64
	slipHistory  []float64
	showHelp     bool
}

func NewModel(title string, ctrl control.Config) Model {
	return Model{
		title:        title,
		target:       ctrl.DesiredSlip,
		maxBrake:     ctrl.MaxBrakeTorque,
		maxDrive:     ctrl.MaxDriveTorque,
		theme:        ThemeCyberpunk,
		styles:       newStyles(ThemeCyberpunk),
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		speedHistory: make([]float64, 0, historyCapacity),
		slipHistory:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			m.theme = nextTheme(m.theme.Name)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case snapshotMsg:
		m.snap = vehicle.Snapshot(msg)
		m.frames++
		m.speedHistory = pushHistory(m.speedHistory, m.snap.LinearSpeed)
		m.slipHistory = pushHistory(m.slipHistory, m.snap.MeanSlip())
	}
	return m, nil
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) View() string {
	m.canvas.Clear()
	DrawWheels(m.canvas, m.snap.Wheels)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.row("Frame", fmt.Sprintf("%d", m.frames)))
	s.WriteString(m.row("Speed", fmt.Sprintf("%.2f m/s", m.snap.LinearSpeed)))
	mean := m.snap.MeanSlip()
	s.WriteString(m.styles.label.Render("Slip") +
		m.styles.slip(fmt.Sprintf("%+.4f", mean), mean, m.target) +
		m.styles.value.Render(fmt.Sprintf(" (target %.3f)", m.target)) + "\n\n")

	for i, w := range m.snap.Wheels {
		slip := 0.0
		if i < len(m.snap.Slips) {
			slip = m.snap.Slips[i]
		}
		fmt.Fprintf(&s, "W%d %s ω %6.1f\n", i,
			m.styles.slip(fmt.Sprintf("%+.3f", slip), slip, m.target), w.AngularVelocity)
		s.WriteString("  brake " + m.styles.bar(w.BrakeTorque, m.maxBrake, barWidth) +
			fmt.Sprintf(" %6.0f\n", w.BrakeTorque))
		s.WriteString("  drive " + m.styles.bar(w.DriveTorque, m.maxDrive, barWidth) +
			fmt.Sprintf(" %6.0f\n", w.DriveTorque))
	}

	if len(m.slipHistory) > 1 {
		s.WriteString("\n" + asciigraph.Plot(m.slipHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Precision(3),
			asciigraph.Caption("Mean slip")) + "\n")
	}
	if len(m.speedHistory) > 1 {
		s.WriteString("\n" + asciigraph.Plot(m.speedHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed")) + "\n")
	}
	s.WriteString(m.styles.help.Render("Q:Quit  T:Theme (" + m.theme.Name + ")  ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Q / Esc  - Quit                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// Dashboard runs the Bubble Tea program on its own goroutine and satisfies the
// simulation loop's renderer contract. It stops running when the user quits
// or Stop is called.
type Dashboard struct {
	program *tea.Program
	running atomic.Bool
	done    chan struct{}

	mu  sync.Mutex
	err error
}

func NewDashboard(title string, ctrl control.Config, opts ...tea.ProgramOption) *Dashboard {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &Dashboard{
		program: tea.NewProgram(NewModel(title, ctrl), opts...),
		done:    make(chan struct{}),
	}
}

func (d *Dashboard) Start() {
	d.running.Store(true)
	go func() {
		defer close(d.done)
		_, err := d.program.Run()
		d.running.Store(false)
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
	}()
}

func (d *Dashboard) Render(s vehicle.Snapshot) {
	if !d.running.Load() {
		return
	}
	d.program.Send(snapshotMsg(s))
}

func (d *Dashboard) IsRunning() bool { return d.running.Load() }

// Stop asks the program to exit and waits for the terminal to be restored.
func (d *Dashboard) Stop() error {
	d.program.Quit()
	return d.Wait()
}

func (d *Dashboard) Wait() error {
	<-d.done
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
