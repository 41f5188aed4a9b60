package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/ballsim/internal/config"
)

var presetInfo = map[string]string{
	"default":  "five stacked boxes",
	"open":     "no cylinders",
	"single":   "one ball, no spawns",
	"crowd":    "four spawners",
	"lossless": "restitution 1",
	"moon":     "lunar gravity",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// tunable is a scene field editable from the config screen.
type tunable struct {
	name string
	step float64
	get  func(*config.Scene) float64
	set  func(*config.Scene, float64)
}

var tunables = []tunable{
	{"restitution", 0.05,
		func(s *config.Scene) float64 { return s.Restitution },
		func(s *config.Scene, v float64) { s.Restitution = min(max(v, 0), 1) }},
	{"gravity", 0.5,
		func(s *config.Scene) float64 { return s.Gravity[1] },
		func(s *config.Scene, v float64) { s.Gravity[1] = v }},
	{"spawn", 0.5,
		func(s *config.Scene) float64 { return s.SpawnInterval },
		func(s *config.Scene, v float64) { s.SpawnInterval = max(v, 0.1) }},
	{"yaw", 0.05,
		func(s *config.Scene) float64 { return s.BaseYaw },
		func(s *config.Scene, v float64) { s.BaseYaw = v }},
}

// App picks a preset, tunes it and hands over to the live Model.
type App struct {
	state, cursor int
	presets       []string
	scene         *config.Scene
	paramCursor   int
	editing       bool
	editBuf       string
	logger        *log.Logger
	live          Model
	err           error
}

func NewInteractiveApp(logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{state: stateMenu, presets: config.ListPresets(), logger: logger}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.scene = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	t := tunables[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				t.set(m.scene, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%.2f", t.get(m.scene))
	case "left", "h":
		t.set(m.scene, t.get(m.scene)-t.step)
	case "right", "l":
		t.set(m.scene, t.get(m.scene)+t.step)
	case "s":
		live, err := NewModel(m.scene, WithModelLogger(m.logger))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state = live, stateSim
		return m, live.Init()
	}
	return m, nil
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m App) header(title, sub string) string {
	return "\n\n    " + titleStyle.Render(title) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("BALLSIM", "bouncing spheres in stacked boxes"))
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), accentStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString(m.header(strings.ToUpper(m.scene.Name), presetInfo[m.scene.Name]))
	for i, t := range tunables {
		valStr := fmt.Sprintf("%8.3f", t.get(m.scene))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", t.name)), accentStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", t.name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back"))
	return b.String()
}

func RunInteractive(logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(logger), tea.WithAltScreen()).Run()
	return err
}

// RunLive opens the live view on scene directly.
func RunLive(scene *config.Scene, fps int, logger *log.Logger) error {
	m, err := NewModel(scene, WithFPS(fps), WithModelLogger(logger))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
