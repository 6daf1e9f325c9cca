// Package detail provides the single result view for the TUI.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// View shows every field of one competing page in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	result   *domain.AnalysisResult
	width    int
	height   int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:   s,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult sets the displayed result and scrolls to the top.
func (v *View) SetResult(result domain.AnalysisResult) {
	v.result = &result
	v.viewport.SetContent(v.renderContent())
	v.viewport.GotoTop()
}

// Result returns the displayed result, or nil.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && (keyMsg.Type == tea.KeyEsc || keyMsg.String() == "backspace") {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewResults} }
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the detail view.
func (v *View) View() string {
	if v.result == nil {
		return v.styles.Muted.Render("No result selected")
	}

	header := v.styles.Title.Render(v.result.LandingPage)
	footer := v.styles.Help.Render("↑/↓ scroll • esc back")
	return header + "\n\n" + v.viewport.View() + "\n" + footer
}

func (v *View) renderContent() string {
	r := v.result
	var b strings.Builder

	field := func(label, value string) {
		b.WriteString(v.styles.Subtitle.Render(label))
		b.WriteString(" ")
		b.WriteString(v.styles.Normal.Render(value))
		b.WriteString("\n")
	}
	section := func(label string, items []string) {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", label, len(items))))
		b.WriteString("\n")
		if len(items) == 0 {
			b.WriteString(v.styles.Muted.Render("  none"))
			b.WriteString("\n")
		}
		for _, item := range items {
			b.WriteString(v.styles.Normal.Render("  • " + item))
			b.WriteString("\n")
		}
	}

	b.WriteString(v.styles.Subtitle.Render("Score:"))
	b.WriteString(" ")
	b.WriteString(v.styles.Severity(r.CannibalizationScore).Render(fmt.Sprintf("%.2f", r.CannibalizationScore)))
	b.WriteString("\n")
	field("Intent:", r.SearchIntent.Description())
	field("Clicks:", fmt.Sprintf("%d", r.Clicks))
	field("Impressions:", fmt.Sprintf("%d", r.Impressions))
	field("Average position:", fmt.Sprintf("%.1f", r.AveragePosition))

	if r.Metrics != (domain.Metrics{}) {
		field("Clicks lost:", fmt.Sprintf("%d", r.Metrics.ClicksLost))
		field("Impressions lost:", fmt.Sprintf("%d", r.Metrics.ImpressionsLost))
		field("Position gap:", fmt.Sprintf("%.1f", r.Metrics.AveragePositionDiff))
	}

	section("Similar URLs", r.SimilarURLs)
	section("Shared keywords", r.SharedKeywords)
	section("Recommendations", r.Recommendations)
	section("Queries", r.Queries)

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
}
