package summary

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func TestView_Empty(t *testing.T) {
	v := NewView(nil)
	assert.Contains(t, v.View(), "No cannibalization found")

	v.SetSummary(domain.Summarize(nil))
	assert.Contains(t, v.View(), "No cannibalization found")
}

func TestView_Render(t *testing.T) {
	v := NewView(nil)
	v.SetSummary(domain.Summarize([]domain.AnalysisResult{
		{LandingPage: "https://example.com/tenis", CannibalizationScore: 0.9, SearchIntent: domain.IntentCommercial},
		{LandingPage: "https://example.com/sapato", CannibalizationScore: 0.5, SearchIntent: domain.IntentInformational},
	}))

	out := v.View()
	assert.Contains(t, out, "Pages affected: 2")
	assert.Contains(t, out, "High severity (> 0.8): 1")
	assert.Contains(t, out, "Average score: 0.70")
	assert.Contains(t, out, "commercial")
	assert.Contains(t, out, "tenis")
	assert.Contains(t, out, "0.90")
}

func TestView_CapsScoreBars(t *testing.T) {
	results := make([]domain.AnalysisResult, maxScoreBars+3)
	for i := range results {
		results[i] = domain.AnalysisResult{
			LandingPage:          fmt.Sprintf("https://example.com/p%d", i),
			CannibalizationScore: 0.6,
			SearchIntent:         domain.IntentInformational,
		}
	}

	v := NewView(nil)
	v.SetSummary(domain.Summarize(results))

	assert.Contains(t, v.View(), "... and 3 more")
}

func TestView_BarClampsScores(t *testing.T) {
	v := NewView(nil)
	assert.NotPanics(t, func() {
		v.bar(1.7, 10)
		v.bar(-1, 10)
	})
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewResults}, cmd())
}
