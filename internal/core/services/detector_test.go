package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func detect(t *testing.T, records []domain.RawRecord, threshold float64, cfg domain.AnalysisConfig, opts DetectorOptions) []domain.AnalysisResult {
	t.Helper()
	classifier := ptClassifier()
	results, err := NewDetector(classifier, opts).Detect(context.Background(), Aggregate(records, classifier), threshold, &cfg)
	require.NoError(t, err)
	return results
}

func TestDetector_TwoPageScenario(t *testing.T) {
	cfg := domain.DefaultAnalysisConfig()
	results := detect(t, tenisRecords(), 0.5, cfg, DetectorOptions{Recommender: NewRecommendationEngine(domain.LanguagePortuguese)})

	require.Len(t, results, 2)
	expectedScore := 0.3*1 + 0.3*0.4 + 0.2*0.25 + 0.2*(2.0/13.0)

	p1 := results[0]
	assert.Equal(t, "https://loja.com/p1", p1.LandingPage)
	assert.Equal(t, []string{"https://loja.com/p2"}, p1.SimilarURLs)
	assert.Equal(t, []string{"comprar tenis", "tenis preço"}, p1.SharedKeywords)
	assert.Equal(t, []string{"comprar tenis", "tenis preço", "tenis barato"}, p1.Queries)
	assert.Equal(t, 300, p1.Clicks)
	assert.InDelta(t, 3.0, p1.AveragePosition, 1e-9)
	assert.InDelta(t, expectedScore, p1.CannibalizationScore, 1e-6)
	assert.Equal(t, domain.IntentTransactional, p1.SearchIntent)
	assert.Equal(t, domain.Metrics{}, p1.Metrics)
	// Score stays under 0.6, so only the hierarchy rule applies.
	assert.Equal(t, []string{
		"Posições muito próximas: Defina uma hierarquia clara entre as páginas",
	}, p1.Recommendations)

	p2 := results[1]
	assert.Equal(t, "https://loja.com/p2", p2.LandingPage)
	assert.Equal(t, []string{"https://loja.com/p1"}, p2.SimilarURLs)
	assert.Equal(t, []string{"comprar tenis", "tenis preço"}, p2.SharedKeywords)
	assert.Equal(t, 100, p2.Clicks)
	assert.InDelta(t, expectedScore, p2.CannibalizationScore, 1e-6)
	assert.Equal(t, domain.IntentTransactional, p2.SearchIntent)
}

func TestDetector_MinQueriesGate(t *testing.T) {
	cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 4}

	results := detect(t, tenisRecords(), 0.5, cfg, DetectorOptions{})

	assert.NotNil(t, results)
	assert.Empty(t, results)

	t.Run("zero min queries acts as one", func(t *testing.T) {
		records := []domain.RawRecord{rec("/a", "q", 1, 1), rec("/b", "q", 1, 1)}
		cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 0}

		assert.Len(t, detect(t, records, 1, cfg, DetectorOptions{}), 2)
	})
}

func TestDetector_AsymmetricPartnership(t *testing.T) {
	records := []domain.RawRecord{
		rec("/p", "a", 1, 1), rec("/p", "b", 1, 1), rec("/p", "c", 1, 1), rec("/p", "d", 1, 1),
		rec("/o", "a", 1, 1), rec("/o", "b", 1, 1),
		rec("/x", "a", 1, 1), rec("/x", "z", 1, 1),
	}
	cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 2}

	results := detect(t, records, 0.4, cfg, DetectorOptions{})

	byPage := make(map[string]domain.AnalysisResult)
	for _, r := range results {
		byPage[r.LandingPage] = r
	}

	// 2 shared >= 0.4*4 for /p, but /x shares only 1 < 1.6.
	require.Contains(t, byPage, "/p")
	assert.Equal(t, []string{"/o"}, byPage["/p"].SimilarURLs)

	// /o needs 0.8 shared queries, so both /p and /x qualify.
	require.Contains(t, byPage, "/o")
	assert.Equal(t, []string{"/p", "/x"}, byPage["/o"].SimilarURLs)
	assert.Equal(t, []string{"a", "b"}, byPage["/o"].SharedKeywords)
}

func TestDetector_MeanScoreAcrossPartners(t *testing.T) {
	records := []domain.RawRecord{
		rec("/p", "x", 10, 1),
		rec("/a", "x", 10, 1),
		rec("/b", "x", 0, 11),
	}
	cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 1}

	results := detect(t, records, 1, cfg, DetectorOptions{})
	require.NotEmpty(t, results)

	p := results[0]
	require.Equal(t, "/p", p.LandingPage)
	assert.Equal(t, []string{"/a", "/b"}, p.SimilarURLs)

	// vs /a: 0.3 + 0.3 + 0.2*0.5 + 0.2*1 = 0.9
	// vs /b: 0.3 + 0 + 0 + 0.2*1 = 0.5
	assert.InDelta(t, 0.7, p.CannibalizationScore, 1e-9)
}

func TestDetector_ZeroThresholdPairsEveryPage(t *testing.T) {
	records := []domain.RawRecord{rec("/a", "x", 1, 1), rec("/b", "y", 1, 1)}
	cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 1}

	results := detect(t, records, 0, cfg, DetectorOptions{})

	require.Len(t, results, 2)
	assert.Equal(t, []string{"/b"}, results[0].SimilarURLs)
	assert.Empty(t, results[0].SharedKeywords)
	assert.NotNil(t, results[0].SharedKeywords)
}

func TestDetector_Metrics(t *testing.T) {
	records := []domain.RawRecord{
		{LandingPage: "/p", Query: "x", Clicks: 10, Impressions: 100, Position: 2},
		{LandingPage: "/a", Query: "x", Clicks: 200, Impressions: 900, Position: 5},
		{LandingPage: "/b", Query: "x", Clicks: 50, Impressions: 5000, Position: 1},
	}
	cfg := domain.AnalysisConfig{Weights: domain.DefaultWeights(), MinQueries: 1}

	results := detect(t, records, 1, cfg, DetectorOptions{
		ComputeMetrics: true,
		Recommender:    NewRecommendationEngine(domain.LanguageEnglish),
	})
	require.Len(t, results, 3)

	p := results[0]
	assert.Equal(t, domain.Metrics{ClicksLost: 190, ImpressionsLost: 800, AveragePositionDiff: 3}, p.Metrics)
	assert.Contains(t, p.Recommendations,
		"Significant traffic loss: consider consolidating the content into a single page")

	// The best partner of /a has fewer clicks, so nothing is lost.
	a := results[1]
	assert.Zero(t, a.Metrics.ClicksLost)
}

func TestDetector_WorkersMatchSequential(t *testing.T) {
	var records []domain.RawRecord
	for i := 0; i < 40; i++ {
		for j := 0; j < 5; j++ {
			records = append(records, rec(
				fmt.Sprintf("/page-%d", i),
				fmt.Sprintf("query %d", (i+j)%12),
				i*j, float64(1+(i+j)%9),
			))
		}
	}
	cfg := domain.DefaultAnalysisConfig()

	sequential := detect(t, records, 0.6, cfg, DetectorOptions{Workers: 1})
	parallel := detect(t, records, 0.6, cfg, DetectorOptions{Workers: 8})

	require.NotEmpty(t, sequential)
	assert.Equal(t, sequential, parallel)
}

func TestDetector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	classifier := ptClassifier()

	for _, workers := range []int{1, 4} {
		_, err := NewDetector(classifier, DetectorOptions{Workers: workers}).
			Detect(ctx, Aggregate(tenisRecords(), classifier), 0.5, nil)
		assert.ErrorIs(t, err, context.Canceled)
	}
}
