package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func TestView_Empty(t *testing.T) {
	v := NewView(nil)
	assert.Contains(t, v.View(), "No result selected")
	assert.Nil(t, v.Result())
}

func TestView_SetResult(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(100, 40)
	v.SetResult(domain.AnalysisResult{
		LandingPage:          "https://example.com/tenis",
		SimilarURLs:          []string{"https://example.com/tenis-corrida"},
		SharedKeywords:       []string{"tenis corrida"},
		Clicks:               12,
		Impressions:          340,
		AveragePosition:      3.4,
		CannibalizationScore: 0.87,
		SearchIntent:         domain.IntentTransactional,
		Metrics:              domain.Metrics{ClicksLost: 5, ImpressionsLost: 20, AveragePositionDiff: 1.5},
		Recommendations:      []string{"Merge the pages"},
	})

	out := v.View()
	assert.Contains(t, out, "https://example.com/tenis")
	assert.Contains(t, out, "0.87")
	assert.Contains(t, out, "340")
	assert.Contains(t, out, "3.4")
	assert.Contains(t, out, "Clicks lost:")
	assert.Contains(t, out, "Similar URLs (1)")
	assert.Contains(t, out, "Merge the pages")
	assert.Contains(t, out, "Queries (0)")
}

func TestView_HidesZeroMetrics(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(100, 40)
	v.SetResult(domain.AnalysisResult{LandingPage: "https://example.com/a"})

	assert.NotContains(t, v.View(), "Clicks lost:")
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil)
	v.SetResult(domain.AnalysisResult{LandingPage: "https://example.com/a"})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewResults}, cmd())
}
