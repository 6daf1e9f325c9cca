// Package results provides the competing pages view for the TUI.
package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// View lists the pages of a report and lets the user filter and open them.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.ResultList
	filter *input.FilterInput
	report *domain.AnalysisReport

	width  int
	height int
}

// NewView creates a new results view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles: s,
		keymap: km,
		list:   list.NewResultList(s),
		filter: input.NewFilterInput(s),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetReport replaces the displayed report, keeping the active filter.
func (v *View) SetReport(report *domain.AnalysisReport) {
	v.report = report
	if report == nil {
		v.list.SetResults(nil)
		return
	}
	v.list.SetResults(report.Results)
}

// Report returns the displayed report.
func (v *View) Report() *domain.AnalysisReport {
	return v.report
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	if v.filter.Focused() {
		return v.handleFilterKeys(keyMsg)
	}

	key := keyMsg.String()
	switch {
	case keymap.Matches(key, v.keymap.Select):
		if r := v.list.SelectedResult(); r != nil {
			result := *r
			return v, func() tea.Msg { return messages.ResultSelected{Result: result} }
		}
		return v, nil
	case keymap.Matches(key, v.keymap.Filter):
		v.filter.SetValue(v.list.Filter())
		return v, v.filter.Focus()
	case keymap.Matches(key, v.keymap.Back):
		v.list.SetFilter("")
		return v, nil
	case keymap.Matches(key, v.keymap.Summary):
		return v, changeView(messages.ViewSummary)
	case keymap.Matches(key, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)
	case keymap.Matches(key, v.keymap.Rerun):
		return v, func() tea.Msg { return messages.AnalysisRequested{} }
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(keyMsg)
	return v, cmd
}

func (v *View) handleFilterKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.list.SetFilter(strings.TrimSpace(v.filter.Value()))
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the results view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Keyword Cannibalization"))
	b.WriteString("\n")

	if v.report != nil {
		info := fmt.Sprintf("%d records, %d pages, threshold %.2f",
			v.report.RecordCount, v.report.PageCount, v.report.Options.SimilarityThreshold)
		if v.report.Source != "" {
			info = v.report.Source + " - " + info
		}
		b.WriteString(v.styles.Muted.Render(info))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.filter.Focused() {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, max(height-6, 4))
	v.filter.SetWidth(width)
}

// Count returns the number of visible results.
func (v *View) Count() int {
	return v.list.Count()
}

// SelectedResult returns the selected result, or nil.
func (v *View) SelectedResult() *domain.AnalysisResult {
	return v.list.SelectedResult()
}

// Filter returns the active URL filter.
func (v *View) Filter() string {
	return v.list.Filter()
}
