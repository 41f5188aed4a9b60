package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballsim/internal/physics"
)

// Theme colours the live view. Geometry tints the wireframe canvas; the
// remaining entries colour the event log by what a body hit.
type Theme struct {
	Name      string
	TitleFrom lipgloss.Color
	TitleTo   lipgloss.Color
	Geometry  lipgloss.Color
	Wall      lipgloss.Color
	Cylinder  lipgloss.Color
	Sphere    lipgloss.Color
	Sink      lipgloss.Color
	Portal    lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:      "neon",
		TitleFrom: lipgloss.Color("#ff00ff"),
		TitleTo:   lipgloss.Color("#00ffff"),
		Geometry:  lipgloss.Color("#00ffff"),
		Wall:      lipgloss.Color("#ffff00"),
		Cylinder:  lipgloss.Color("#ff8800"),
		Sphere:    lipgloss.Color("#ff00ff"),
		Sink:      lipgloss.Color("#1fa6ff"),
		Portal:    lipgloss.Color("#00ff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	// ThemePhosphor is a single-hue green screen.
	ThemePhosphor = Theme{
		Name:      "phosphor",
		TitleFrom: lipgloss.Color("#00ff00"),
		TitleTo:   lipgloss.Color("#00cc00"),
		Geometry:  lipgloss.Color("#00cc00"),
		Wall:      lipgloss.Color("#88ff88"),
		Cylinder:  lipgloss.Color("#66dd66"),
		Sphere:    lipgloss.Color("#00ff00"),
		Sink:      lipgloss.Color("#ccffcc"),
		Portal:    lipgloss.Color("#005500"),
		Error:     lipgloss.Color("#ff0000"),
	}

	// ThemeBody follows the default scene's body colours: crimson, orange
	// and the blue sink.
	ThemeBody = Theme{
		Name:      "bodies",
		TitleFrom: lipgloss.Color("#df133c"),
		TitleTo:   lipgloss.Color("#ff8c00"),
		Geometry:  lipgloss.Color("#cccccc"),
		Wall:      lipgloss.Color("#888888"),
		Cylinder:  lipgloss.Color("#feca57"),
		Sphere:    lipgloss.Color("#df133c"),
		Sink:      lipgloss.Color("#1fa6ff"),
		Portal:    lipgloss.Color("#ff9ff3"),
		Error:     lipgloss.Color("#ff4757"),
	}

	CurrentTheme = ThemeNeon

	Themes = []Theme{ThemeNeon, ThemePhosphor, ThemeBody}
)

// GetTheme returns a theme by name, or the neon theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one and returns it.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// EventColor picks the palette entry for the surface an event involves.
func (t Theme) EventColor(k physics.EventKind) lipgloss.Color {
	switch k {
	case physics.EventWall, physics.EventTop:
		return t.Wall
	case physics.EventCylinder:
		return t.Cylinder
	case physics.EventSphere, physics.EventStatic:
		return t.Sphere
	case physics.EventAbsorb, physics.EventRemove:
		return t.Sink
	default:
		return t.Portal
	}
}
