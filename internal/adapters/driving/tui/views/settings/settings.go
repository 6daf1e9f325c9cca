// Package settings provides the analysis settings view for the TUI.
// Moving one weight rescales the other three so the weights keep summing to 1.
package settings

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
)

// Step sizes for left/right adjustments.
const (
	ThresholdStep = 0.05
	WeightStep    = 0.05
)

// Row identifies one adjustable setting.
type Row int

const (
	RowThreshold Row = iota
	RowMinQueries
	RowIntentConflict
	RowPositionOverlap
	RowTrafficImpact
	RowKeywordOverlap
	rowCount
)

// factor returns the weight factor of a weight row.
func (r Row) factor() (domain.Factor, bool) {
	switch r {
	case RowIntentConflict:
		return domain.FactorIntentConflict, true
	case RowPositionOverlap:
		return domain.FactorPositionOverlap, true
	case RowTrafficImpact:
		return domain.FactorTrafficImpact, true
	case RowKeywordOverlap:
		return domain.FactorKeywordOverlap, true
	default:
		return "", false
	}
}

// View is the analysis settings view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	changed  bool

	selected Row

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.changed = true
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewResults}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < rowCount-1 {
			v.selected++
		}
	case "left", "h":
		return v, v.adjust(-1)
	case "right", "l":
		return v, v.adjust(1)
	}
	return v, nil
}

// adjust moves the selected setting one step in direction dir.
func (v *View) adjust(dir int) tea.Cmd {
	if v.settings == nil || v.settingsService == nil {
		return nil
	}

	svc := v.settingsService
	analysis := v.settings.Analysis
	step := float64(dir)

	var save func() error
	switch v.selected {
	case RowThreshold:
		value := clamp(round2(analysis.SimilarityThreshold + step*ThresholdStep))
		save = func() error { return svc.SetSimilarityThreshold(value) }
	case RowMinQueries:
		value := max(analysis.MinQueries+dir, 1)
		save = func() error { return svc.SetMinQueries(value) }
	default:
		factor, ok := v.selected.factor()
		if !ok {
			return nil
		}
		value := clamp(round2(analysis.Weights.Get(factor) + step*WeightStep))
		save = func() error { return svc.SetWeight(factor, value) }
	}

	return func() tea.Msg {
		return messages.SettingsSaved{Err: save()}
	}
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Analysis Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	a := v.settings.Analysis
	rows := []struct {
		label string
		value string
	}{
		{"Similarity threshold", fmt.Sprintf("%.2f", a.SimilarityThreshold)},
		{"Minimum queries", fmt.Sprintf("%d", a.MinQueries)},
		{"Intent conflict weight", fmt.Sprintf("%.2f", a.Weights.IntentConflict)},
		{"Position overlap weight", fmt.Sprintf("%.2f", a.Weights.PositionOverlap)},
		{"Traffic impact weight", fmt.Sprintf("%.2f", a.Weights.TrafficImpact)},
		{"Keyword overlap weight", fmt.Sprintf("%.2f", a.Weights.KeywordOverlap)},
	}

	for i, row := range rows {
		indicator := "  "
		if Row(i) == v.selected {
			indicator = "> "
		}
		line := fmt.Sprintf("%s%-26s %s", indicator, row.label, row.value)
		if Row(i) == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Weights sum: %.2f", a.Weights.Sum())))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("↑/↓ select • ←/→ adjust • esc back (reruns when changed)"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the selected row.
func (v *View) Selected() Row {
	return v.selected
}

// Settings returns the loaded settings, or nil before loading.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// TakeChanged reports whether settings were saved since the last call.
func (v *View) TakeChanged() bool {
	changed := v.changed
	v.changed = false
	return changed
}
