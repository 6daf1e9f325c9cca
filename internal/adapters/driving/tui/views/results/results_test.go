package results

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func report() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		Source:      "export.csv",
		RecordCount: 8,
		PageCount:   3,
		Options:     domain.DefaultAnalysisOptions(),
		Results: []domain.AnalysisResult{
			{LandingPage: "https://example.com/tenis", CannibalizationScore: 0.9},
			{LandingPage: "https://example.com/sapato", CannibalizationScore: 0.6},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Render(t *testing.T) {
	v := NewView(nil, nil)
	v.SetReport(report())

	out := v.View()
	assert.Contains(t, out, "export.csv - 8 records, 3 pages, threshold 0.70")
	assert.Contains(t, out, "https://example.com/tenis")
	assert.Equal(t, 2, v.Count())
}

func TestView_SelectEmitsResult(t *testing.T) {
	v := NewView(nil, nil)
	v.SetReport(report())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ResultSelected)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/sapato", msg.Result.LandingPage)
}

func TestView_SelectWithoutResults(t *testing.T) {
	v := NewView(nil, nil)
	v.SetReport(&domain.AnalysisReport{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Filter(t *testing.T) {
	v := NewView(nil, nil)
	v.SetReport(report())

	v, _ = v.Update(runes("/"))
	require.True(t, v.Filtering())

	v, _ = v.Update(runes("sap"))
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, v.Filtering())
	assert.Equal(t, "sap", v.Filter())
	assert.Equal(t, 1, v.Count())

	t.Run("filter survives new report", func(t *testing.T) {
		v.SetReport(report())
		assert.Equal(t, 1, v.Count())
	})

	t.Run("esc clears", func(t *testing.T) {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, "", v.Filter())
		assert.Equal(t, 2, v.Count())
	})
}

func TestView_FilterEscCancels(t *testing.T) {
	v := NewView(nil, nil)
	v.SetReport(report())

	v, _ = v.Update(runes("/"))
	v, _ = v.Update(runes("zzz"))
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Filtering())
	assert.Equal(t, 2, v.Count())
}

func TestView_Shortcuts(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"s", messages.ViewChanged{View: messages.ViewSummary}},
		{"w", messages.ViewChanged{View: messages.ViewSettings}},
		{"r", messages.AnalysisRequested{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := NewView(nil, nil)
			v.SetReport(report())

			_, cmd := v.Update(runes(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}
