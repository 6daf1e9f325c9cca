// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// ResultList displays competing pages in a navigable list.
type ResultList struct {
	results  []domain.AnalysisResult
	filter   string
	visible  []int
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.visible) > 0 {
				r.selected = len(r.visible) - 1
			}
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.visible) == 0 {
		if r.filter != "" {
			return r.styles.Muted.Render(fmt.Sprintf("No pages match %q", r.filter))
		}
		return r.styles.Muted.Render("No cannibalization found")
	}

	lines := make([]string, 0, len(r.visible)+2)

	header := fmt.Sprintf("Competing pages (%d)", len(r.visible))
	if r.filter != "" {
		header = fmt.Sprintf("Competing pages (%d of %d, filter %q)", len(r.visible), len(r.results), r.filter)
	}
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	// Each result takes two lines.
	visibleCount := max((r.height-4)/2, 1)

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.visible))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[r.visible[i]]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single result with its conflict summary.
func (r *ResultList) renderResult(index int, result *domain.AnalysisResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxURLLen := max(r.width-14, 10)
	url := truncate(result.LandingPage, maxURLLen)
	score := fmt.Sprintf("%.2f", result.CannibalizationScore)

	var urlLine string
	if index == r.selected {
		urlLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxURLLen, url, score))
	} else {
		urlLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxURLLen, url)) +
			r.styles.Severity(result.CannibalizationScore).Render(score)
	}

	detail := fmt.Sprintf("    %d similar, %d shared keywords, %s",
		len(result.SimilarURLs), len(result.SharedKeywords), result.SearchIntent)

	return urlLine + "\n" + r.styles.Muted.Render(truncate(detail, max(r.width, 20)))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults updates the result list and clears the selection.
func (r *ResultList) SetResults(results []domain.AnalysisResult) {
	r.results = results
	r.selected = 0
	r.applyFilter()
}

// Results returns all results, ignoring the filter.
func (r *ResultList) Results() []domain.AnalysisResult {
	return r.results
}

// SetFilter keeps only results whose landing page contains filter.
func (r *ResultList) SetFilter(filter string) {
	r.filter = filter
	r.selected = 0
	r.applyFilter()
}

// Filter returns the active filter.
func (r *ResultList) Filter() string {
	return r.filter
}

func (r *ResultList) applyFilter() {
	r.visible = r.visible[:0]
	needle := strings.ToLower(r.filter)
	for i := range r.results {
		if needle == "" || strings.Contains(strings.ToLower(r.results[i].LandingPage), needle) {
			r.visible = append(r.visible, i)
		}
	}
}

// Selected returns the index of the selected row among visible results.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.visible) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.AnalysisResult {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	return &r.results[r.visible[r.selected]]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of visible results.
func (r *ResultList) Count() int {
	return len(r.visible)
}

// IsEmpty returns whether no result is visible.
func (r *ResultList) IsEmpty() bool {
	return len(r.visible) == 0
}
