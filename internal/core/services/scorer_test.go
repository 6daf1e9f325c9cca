package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func page(landing string, records ...domain.RawRecord) *domain.PageSummary {
	b := domain.NewPageBuilder(landing)
	c := ptClassifier()
	for _, r := range records {
		r.LandingPage = landing
		b.Add(r, c.Classify(r.Query))
	}
	return b.Freeze()
}

func TestScorePair(t *testing.T) {
	index := Aggregate(tenisRecords(), ptClassifier())
	p1, _ := index.Get("https://loja.com/p1")
	p2, _ := index.Get("https://loja.com/p2")

	factors := ScorePair(p1, p2, []string{"comprar tenis", "tenis preço"}, p1.Intents())

	assert.InDelta(t, 1.0, factors.IntentConflict, 1e-9)
	// Position sums 9 and 15, not averages 3 and 5.
	assert.InDelta(t, 0.4, factors.PositionOverlap, 1e-9)
	assert.InDelta(t, 0.25, factors.TrafficImpact, 1e-9)
	assert.InDelta(t, 2.0/13.0, factors.KeywordOverlap, 1e-9)
}

func TestScorePair_PositionOverlap(t *testing.T) {
	tests := []struct {
		name   string
		posA   float64
		posB   float64
		expect float64
	}{
		{"same position", 4, 4, 1},
		{"five apart", 2, 7, 0.5},
		{"ten apart", 1, 11, 0},
		{"beyond window clamps to zero", 1, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := page("/a", rec("", "q", 1, tt.posA))
			b := page("/b", rec("", "q", 1, tt.posB))

			f := ScorePair(a, b, []string{"q"}, a.Intents())

			assert.InDelta(t, tt.expect, f.PositionOverlap, 1e-9)
		})
	}
}

func TestScorePair_PositionOverlapUsesPositionSums(t *testing.T) {
	a := page("/a", rec("", "q", 1, 2), rec("", "r", 1, 2), rec("", "s", 1, 2))
	b := page("/b", rec("", "q", 1, 2))

	// Both pages average position 2, but the sums are 6 and 2.
	f := ScorePair(a, b, []string{"q"}, a.Intents())

	assert.InDelta(t, 0.6, f.PositionOverlap, 1e-9)
	assert.InDelta(t, a.AveragePosition(), b.AveragePosition(), 1e-9)
}

func TestScorePair_TrafficImpact(t *testing.T) {
	t.Run("zero clicks", func(t *testing.T) {
		a := page("/a", rec("", "q", 0, 1))
		b := page("/b", rec("", "q", 0, 1))

		assert.Zero(t, ScorePair(a, b, nil, a.Intents()).TrafficImpact)
	})

	t.Run("even split", func(t *testing.T) {
		a := page("/a", rec("", "q", 50, 1))
		b := page("/b", rec("", "q", 50, 1))

		assert.InDelta(t, 0.5, ScorePair(a, b, nil, a.Intents()).TrafficImpact, 1e-9)
	})
}

func TestScorePair_KeywordOverlapUsesQueryLength(t *testing.T) {
	a := page("/a", rec("", "abcd", 1, 1), rec("", "x", 1, 1), rec("", "y", 1, 1))
	b := page("/b", rec("", "abcd", 1, 1))

	// One shared query over the 4 characters of "abcd", not over 3 queries.
	f := ScorePair(a, b, []string{"abcd"}, a.Intents())
	assert.InDelta(t, 0.25, f.KeywordOverlap, 1e-9)

	t.Run("counts utf-16 units", func(t *testing.T) {
		a := page("/a", rec("", "preço", 1, 1))
		b := page("/b", rec("", "preço", 1, 1))

		f := ScorePair(a, b, []string{"preço"}, a.Intents())
		assert.InDelta(t, 0.2, f.KeywordOverlap, 1e-9)
	})

	t.Run("empty representative query", func(t *testing.T) {
		a := page("/a", rec("", "", 1, 1))
		b := page("/b", rec("", "", 1, 1))

		f := ScorePair(a, b, []string{""}, a.Intents())
		assert.Zero(t, f.KeywordOverlap)
	})
}

func TestScorePair_IntentFromSubjectMap(t *testing.T) {
	a := page("/a", rec("", "comprar tenis", 1, 1))
	b := page("/b", rec("", "melhor tenis", 1, 1))

	t.Run("missing partner query falls back to informational", func(t *testing.T) {
		f := ScorePair(a, b, nil, a.Intents())
		// transactional vs informational
		assert.InDelta(t, 0.8, f.IntentConflict, 1e-9)
	})

	t.Run("both present", func(t *testing.T) {
		intents := map[string]domain.Intent{
			"comprar tenis": domain.IntentTransactional,
			"melhor tenis":  domain.IntentCommercial,
		}
		f := ScorePair(a, b, nil, intents)
		assert.InDelta(t, 0.4, f.IntentConflict, 1e-9)
	})
}

func TestScorePair_NaNBecomesZero(t *testing.T) {
	a := page("/a", rec("", "q", 1, math.NaN()))
	b := page("/b", rec("", "q", 1, 2))

	f := ScorePair(a, b, []string{"q"}, a.Intents())

	assert.Zero(t, f.PositionOverlap)
	assert.False(t, math.IsNaN(CombineScore(f, nil)))
}

func TestCombineScore(t *testing.T) {
	ones := domain.ScoringFactors{IntentConflict: 1, PositionOverlap: 1, TrafficImpact: 1, KeywordOverlap: 1}

	t.Run("default weights", func(t *testing.T) {
		f := domain.ScoringFactors{IntentConflict: 1, PositionOverlap: 0.8, TrafficImpact: 0.25, KeywordOverlap: 0.5}
		cfg := domain.DefaultAnalysisConfig()

		assert.InDelta(t, 0.3+0.24+0.05+0.1, CombineScore(f, &cfg), 1e-9)
	})

	t.Run("not clamped", func(t *testing.T) {
		cfg := domain.AnalysisConfig{
			Weights:    domain.Weights{IntentConflict: 1, PositionOverlap: 1, TrafficImpact: 1, KeywordOverlap: 1},
			MinQueries: 1,
		}

		assert.InDelta(t, 4.0, CombineScore(ones, &cfg), 1e-9)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		assert.InDelta(t, 1.0, CombineScore(ones, nil), 1e-9)
	})

	t.Run("non positive weight sum uses defaults", func(t *testing.T) {
		cfg := domain.AnalysisConfig{Weights: domain.Weights{IntentConflict: -1}}

		assert.InDelta(t, 1.0, CombineScore(ones, &cfg), 1e-9)
	})
}
