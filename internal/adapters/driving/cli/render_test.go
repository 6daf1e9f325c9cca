package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func TestRenderTable(t *testing.T) {
	results := []domain.AnalysisResult{{
		LandingPage:          "https://loja.com/p1",
		SimilarURLs:          []string{"https://loja.com/p2"},
		SharedKeywords:       []string{"comprar tenis", "tenis preço"},
		Clicks:               12345,
		Impressions:          1234567,
		AveragePosition:      3.4,
		CannibalizationScore: 0.91,
		SearchIntent:         domain.IntentTransactional,
		Metrics:              domain.Metrics{ClicksLost: 1500, ImpressionsLost: 20, AveragePositionDiff: 1.5},
		Recommendations:      []string{"Add a canonical tag"},
	}}
	opts := domain.DefaultAnalysisOptions()
	opts.ComputeMetrics = true
	report := &domain.AnalysisReport{
		RecordCount: 15000,
		PageCount:   1200,
		Options:     opts,
		Results:     results,
		Summary:     domain.Summarize(results),
	}

	var b strings.Builder
	require.NoError(t, renderTable(&b, report))
	out := b.String()

	assert.Contains(t, out, "Analysed 15,000 records across 1,200 pages (threshold 0.70)")
	assert.Contains(t, out, "Found 1 competing pages (1 high severity, average score 0.91)")
	assert.Contains(t, out, "Score: 0.91  Intent: transactional")
	assert.Contains(t, out, "Clicks: 12,345  Impressions: 1,234,567  Avg position: 3.4")
	assert.Contains(t, out, "Lost to best competitor: 1,500 clicks, 20 impressions, 1.5 positions")
	assert.Contains(t, out, "Shared keywords: comprar tenis, tenis preço")
	assert.Contains(t, out, "-> Add a canonical tag")
}

func TestRenderTable_HidesMetricsWhenDisabled(t *testing.T) {
	report := &domain.AnalysisReport{
		Options: domain.DefaultAnalysisOptions(),
		Results: []domain.AnalysisResult{{LandingPage: "https://loja.com/p1"}},
	}

	var b strings.Builder
	require.NoError(t, renderTable(&b, report))
	assert.NotContains(t, b.String(), "Lost to best competitor")
}

func TestJoinCapped(t *testing.T) {
	items := make([]string, maxListed+2)
	for i := range items {
		items[i] = fmt.Sprintf("k%d", i)
	}

	assert.Equal(t, "a, b", joinCapped([]string{"a", "b"}))
	assert.Equal(t, "", joinCapped(nil))
	assert.Equal(t, "k0, k1, k2, k3, k4 (+2 more)", joinCapped(items))
}
