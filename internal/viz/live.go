package viz

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	eventCapacity   = 6
	defaultFPS      = 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// eventLog keeps the most recent events. It is shared by pointer because
// the world's handler outlives each copy of the Model.
type eventLog struct {
	events []physics.Event
}

func (l *eventLog) add(e physics.Event) {
	l.events = append(l.events, e)
	if len(l.events) > eventCapacity {
		l.events = l.events[1:]
	}
}

// Model is the live view of a running world.
type Model struct {
	world      *physics.World
	scene      *config.Scene
	logger     *log.Logger
	dt         float64
	fps        int
	canvas     *Canvas
	camera     *Camera
	wireframe  *Wireframe
	events     *eventLog
	momentum   []float64
	population []float64
	running    bool
	showGraph  bool
	showHelp   bool
	recorder   *recorder
	err        error
}

type ModelOption func(*Model)

func WithFPS(fps int) ModelOption {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
			m.dt = 1 / float64(fps)
		}
	}
}

func WithModelLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel builds the world from scene and advances it by 1/fps per frame.
func NewModel(scene *config.Scene, opts ...ModelOption) (Model, error) {
	m := Model{
		scene:      scene.Clone(),
		logger:     log.Default(),
		fps:        defaultFPS,
		dt:         1.0 / defaultFPS,
		canvas:     NewCanvas(width, height),
		camera:     NewCamera(),
		events:     &eventLog{},
		momentum:   make([]float64, 0, historyCapacity),
		population: make([]float64, 0, historyCapacity),
		running:    true,
		showGraph:  true,
		recorder:   &recorder{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// rebuild constructs a fresh world. The world never logs while the TUI
// owns the terminal; collisions reach the view through the event log.
func (m *Model) rebuild() error {
	w, err := physics.New(*m.scene,
		physics.WithLogger(log.New(io.Discard)),
		physics.WithEventHandler(m.events.add),
	)
	if err != nil {
		return err
	}
	m.world = w
	m.wireframe = SceneWireframe(w)
	m.events.events = m.events.events[:0]
	m.momentum = m.momentum[:0]
	m.population = m.population[:0]
	return nil
}

func (m Model) World() *physics.World { return m.world }

func (m Model) Running() bool { return m.running }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the world.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.world.ResetAll()
		case "R":
			if err := m.rebuild(); err != nil {
				m.err = err
			}
		case "n":
			if !m.running {
				m.step()
			}
		case "g":
			if m.recorder.active() {
				if path, err := m.recorder.save("ballsim.gif"); err != nil {
					m.err = err
				} else {
					m.logger.Info("recording saved", "path", path)
				}
			} else {
				m.recorder.start()
			}
		case "?":
			m.showHelp = !m.showHelp
		case "m":
			m.showGraph = !m.showGraph
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recorder.active() {
			m.recorder.capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the world one frame and records the traces.
func (m *Model) step() {
	m.world.Advance(m.dt)
	m.momentum = appendCapped(m.momentum, m.world.Momentum())
	m.population = appendCapped(m.population, float64(m.world.Len()))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m Model) draw() {
	m.canvas.Clear()
	Render3D(m.canvas, m.wireframe, m.camera)
	sw, sh := m.canvas.PixelSize()
	for _, b := range m.world.Bodies() {
		x, y, scale, ok := m.camera.Project(b.Position, sw, sh)
		if !ok {
			continue
		}
		r := int(math.Round(b.Radius * scale))
		if b.Static {
			m.canvas.DrawCircle(x, y, r)
		} else {
			m.canvas.FillCircle(x, y, r)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(CurrentTheme.Geometry).Render(m.canvas.String())

	var s strings.Builder
	title := GradientText(strings.ToUpper(m.scene.Name), CurrentTheme.TitleFrom, CurrentTheme.TitleTo)
	s.WriteString(headerStyle.Render(title) + "\n")
	switch {
	case m.recorder.active():
		s.WriteString(StatusRecording.Render("RECORDING") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}
	if m.showGraph && len(m.momentum) > 1 {
		chart := asciigraph.Plot(m.momentum, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Momentum"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	stats := m.world.Stats()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.Time()))
	row("Bodies", fmt.Sprintf("%d", m.world.Len()))
	row("Momentum", fmt.Sprintf("%.4f", m.world.Momentum()))
	row("Walls", fmt.Sprintf("%d", stats.WallHits+stats.TopHits))
	row("Cylinders", fmt.Sprintf("%d", stats.CylinderHits))
	row("Spheres", fmt.Sprintf("%d", stats.SphereHits+stats.StaticHits))
	row("Absorbed", fmt.Sprintf("%d / %d removed", stats.Absorptions, stats.Removals))
	row("Teleports", fmt.Sprintf("%d", stats.Teleports+stats.PortalHits))
	if len(m.population) > 1 {
		s.WriteString(labelStyle.Render("Population") + SparklineChart(m.population, 20) + "\n")
	}

	s.WriteString("\nEVENTS\n")
	if len(m.events.events) == 0 {
		s.WriteString(Subtle.Render("  (none)") + "\n")
	}
	for i := len(m.events.events) - 1; i >= 0; i-- {
		e := m.events.events[i]
		style := lipgloss.NewStyle().Foreground(CurrentTheme.EventColor(e.Kind))
		s.WriteString(style.Render(fmt.Sprintf("  %6.2f %-8s #%d", e.Time, e.Kind, e.Index)) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("\n" + Separator(21) + "\nSP:Pause r:Reset R:Rebuild\nq:Quit t:Theme g:Record ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  n        - Step one frame (paused)  ║
║  r        - Teleport all bodies      ║
║  R        - Rebuild the scene        ║
║  x/X y/Y  - Rotate camera            ║
║  +/-      - Zoom                     ║
║  m        - Toggle momentum graph    ║
║  g        - Toggle GIF recording     ║
║  t        - Cycle themes             ║
║  q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
