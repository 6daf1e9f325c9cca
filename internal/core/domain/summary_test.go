package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	results := []AnalysisResult{
		{LandingPage: "https://example.com/tenis/comprar", CannibalizationScore: 0.9, SearchIntent: IntentTransactional},
		{LandingPage: "https://example.com/blog/", CannibalizationScore: 0.456, SearchIntent: IntentInformational},
		{LandingPage: "https://example.com/ofertas", CannibalizationScore: 0.6, SearchIntent: IntentTransactional},
	}

	s := Summarize(results)

	assert.Equal(t, 3, s.PagesAffected)
	assert.Equal(t, 1, s.HighSeverity)
	assert.InDelta(t, (0.9+0.456+0.6)/3, s.AverageScore, 1e-9)
	assert.Equal(t, 2, s.IntentDistribution[IntentTransactional])
	assert.Equal(t, 1, s.IntentDistribution[IntentInformational])

	require.Len(t, s.Scores, 3)
	assert.Equal(t, "comprar", s.Scores[0].Label)
	assert.Equal(t, "https://example.com/blog/", s.Scores[1].Label)
	assert.Equal(t, 0.46, s.Scores[1].Score)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.PagesAffected)
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Empty(t, s.Scores)
	assert.NotNil(t, s.IntentDistribution)
}

func TestURLLabel(t *testing.T) {
	assert.Equal(t, "page", URLLabel("https://example.com/page"))
	assert.Equal(t, "https://example.com/dir/", URLLabel("https://example.com/dir/"))
	assert.Equal(t, "no-slash", URLLabel("no-slash"))
}
