// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// Theme is the colour palette. Severity styles reuse Error, Warning and
// Success.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#E5484D"),
		Secondary:  lipgloss.Color("#3E9FFF"),
		Background: lipgloss.Color("#1A1B26"),
		Foreground: lipgloss.Color("#C0CAF5"),
		Muted:      lipgloss.Color("#565F89"),
		Success:    lipgloss.Color("#9ECE6A"),
		Warning:    lipgloss.Color("#E0AF68"),
		Error:      lipgloss.Color("#F7768E"),
		Border:     lipgloss.Color("#3B4261"),
	}
}

// Styles holds the lipgloss styles shared by every view.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style

	// Score bands: above domain.HighSeverityScore, above 0.5, the rest.
	SeverityHigh   lipgloss.Style
	SeverityMedium lipgloss.Style
	SeverityLow    lipgloss.Style

	// Bar fills summary chart bars.
	Bar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#16161E")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		SeverityHigh: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		SeverityMedium: lipgloss.NewStyle().
			Foreground(theme.Warning),

		SeverityLow: lipgloss.NewStyle().
			Foreground(theme.Success),

		Bar: lipgloss.NewStyle().
			Foreground(theme.Secondary),
	}
}

// Severity returns the style matching a cannibalization score.
func (s *Styles) Severity(score float64) lipgloss.Style {
	switch {
	case score > domain.HighSeverityScore:
		return s.SeverityHigh
	case score > 0.5:
		return s.SeverityMedium
	default:
		return s.SeverityLow
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
