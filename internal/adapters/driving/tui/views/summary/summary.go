// Package summary provides the report summary charts for the TUI.
package summary

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// maxScoreBars caps the score chart.
const maxScoreBars = 15

// View renders the intent distribution and the score per URL as bar charts.
type View struct {
	styles  *styles.Styles
	summary *domain.Summary
	width   int
	height  int
}

// NewView creates a new summary view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSummary sets the displayed summary.
func (v *View) SetSummary(summary domain.Summary) {
	v.summary = &summary
}

// Update handles messages for the summary view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewResults} }
	}
	return v, nil
}

// View renders the summary view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Summary"))
	b.WriteString("\n\n")

	if v.summary == nil || v.summary.PagesAffected == 0 {
		b.WriteString(v.styles.Muted.Render("No cannibalization found"))
		return b.String()
	}

	s := v.summary
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("Pages affected: %d", s.PagesAffected)))
	b.WriteString("\n")
	b.WriteString(v.styles.SeverityHigh.Render(fmt.Sprintf("High severity (> %.1f): %d", domain.HighSeverityScore, s.HighSeverity)))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("Average score: %.2f", s.AverageScore)))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Search intent"))
	b.WriteString("\n")
	barWidth := max(v.width-30, 10)
	for _, intent := range domain.AllIntents() {
		n := s.IntentDistribution[intent]
		b.WriteString(fmt.Sprintf("  %-14s %s %d\n", intent, v.bar(float64(n)/float64(s.PagesAffected), barWidth), n))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Score per URL"))
	b.WriteString("\n")
	scores := s.Scores
	if len(scores) > maxScoreBars {
		scores = scores[:maxScoreBars]
	}
	for _, sc := range scores {
		label := sc.Label
		if len([]rune(label)) > 24 {
			label = string([]rune(label)[:21]) + "..."
		}
		b.WriteString(fmt.Sprintf("  %-24s %s %s\n", label, v.bar(sc.Score, barWidth),
			v.styles.Severity(sc.Score).Render(fmt.Sprintf("%.2f", sc.Score))))
	}
	if len(s.Scores) > maxScoreBars {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... and %d more", len(s.Scores)-maxScoreBars)))
		b.WriteString("\n")
	}

	return b.String()
}

// bar renders a horizontal bar for a fraction. Scores above 1 fill the bar.
func (v *View) bar(fraction float64, width int) string {
	filled := int(min(max(fraction, 0), 1) * float64(width))
	return v.styles.Bar.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
