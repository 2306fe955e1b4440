package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Accents   []lipgloss.Color
	Progress  lipgloss.Style
	Reward    lipgloss.Style
	Minor     lipgloss.Style
	Quote     lipgloss.Style
	Tagline   lipgloss.Style
	Footer    lipgloss.Style
	Error     lipgloss.Style
	Stale     lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:      "Default",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("240"),
		Accents:   []lipgloss.Color{lipgloss.Color("#4682B4"), lipgloss.Color("#FF7F50")}, // steel blue, coral
		Progress:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Align(lipgloss.Center),
		Reward:    lipgloss.NewStyle().Bold(true).Align(lipgloss.Center),
		Minor:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Italic(true).Align(lipgloss.Center),
		Tagline:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Align(lipgloss.Center),
		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Stale:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	},
	"dracula": {
		Name:      "Dracula",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("62"),
		Accents:   []lipgloss.Color{lipgloss.Color("117"), lipgloss.Color("212")},
		Progress:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Align(lipgloss.Center),
		Reward:    lipgloss.NewStyle().Bold(true).Align(lipgloss.Center),
		Minor:     lipgloss.NewStyle().Foreground(lipgloss.Color("253")),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Italic(true).Align(lipgloss.Center), // Yellow
		Tagline:   lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Align(lipgloss.Center),               // Comment
		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("253")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true), // Red
		Stale:     lipgloss.NewStyle().Foreground(lipgloss.Color("215")),            // Orange
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	},
}

// CurrentTheme holds the currently active theme.
var CurrentTheme = Themes["default"]

// SetTheme switches themes; unknown names leave the current one in place.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if ok {
		CurrentTheme = t
	}
	return ok
}

// accent returns the panel color for the i-th person, cycling the palette.
func (t Theme) accent(i int) lipgloss.Color {
	if len(t.Accents) == 0 {
		return t.Border
	}
	return t.Accents[i%len(t.Accents)]
}

// ThemeNames lists theme keys in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
