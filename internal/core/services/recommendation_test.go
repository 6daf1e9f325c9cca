package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func TestRecommendationEngine_Recommend(t *testing.T) {
	engine := NewRecommendationEngine(domain.LanguagePortuguese)

	tests := []struct {
		name   string
		result domain.AnalysisResult
		want   []string
	}{
		{
			name: "all rules in priority order",
			result: domain.AnalysisResult{
				LandingPage:          "/a",
				SimilarURLs:          []string{"/b", "/c"},
				CannibalizationScore: 0.9,
				SearchIntent:         domain.IntentTransactional,
				Metrics:              domain.Metrics{ClicksLost: 150, AveragePositionDiff: 1},
			},
			want: []string{
				"Alta prioridade: Considere canonical tag de /b para /a",
				"Perda significativa de tráfego: Avalie consolidar o conteúdo em uma única página",
				"Páginas transacionais em conflito: Redirecione para a página com melhor conversão",
				"Posições muito próximas: Defina uma hierarquia clara entre as páginas",
			},
		},
		{
			name: "no rule matches",
			result: domain.AnalysisResult{
				CannibalizationScore: 0.5,
				SearchIntent:         domain.IntentInformational,
				Metrics:              domain.Metrics{ClicksLost: 100, AveragePositionDiff: 2},
			},
			want: []string{},
		},
		{
			name: "transactional needs score above 0.6",
			result: domain.AnalysisResult{
				CannibalizationScore: 0.6,
				SearchIntent:         domain.IntentTransactional,
				Metrics:              domain.Metrics{AveragePositionDiff: 5},
			},
			want: []string{},
		},
		{
			name: "score exactly 0.8 is not high priority",
			result: domain.AnalysisResult{
				CannibalizationScore: 0.8,
				SearchIntent:         domain.IntentCommercial,
				Metrics:              domain.Metrics{AveragePositionDiff: 3},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Recommend(&tt.result))
		})
	}
}

func TestRecommendationEngine_Languages(t *testing.T) {
	result := &domain.AnalysisResult{LandingPage: "/a", SimilarURLs: []string{"/b"}, CannibalizationScore: 1}

	en := NewRecommendationEngine(domain.LanguageEnglish).Recommend(result)
	assert.Equal(t, "High priority: consider a canonical tag from /b to /a", en[0])

	fallback := NewRecommendationEngine("de").Recommend(result)
	assert.Equal(t, en, fallback)
}

func TestRecommendationEngine_CustomRulesSorted(t *testing.T) {
	always := func(*domain.AnalysisResult) bool { return true }
	msg := func(s string) func(*domain.AnalysisResult) string {
		return func(*domain.AnalysisResult) string { return s }
	}

	engine := NewRecommendationEngineWithRules([]RecommendationRule{
		{Priority: 3, Condition: always, Message: msg("third")},
		{Priority: 1, Condition: always, Message: msg("first")},
		{Priority: 3, Condition: always, Message: msg("third again")},
		{Priority: 2, Condition: func(*domain.AnalysisResult) bool { return false }, Message: msg("never")},
	})

	assert.Equal(t, []string{"first", "third", "third again"}, engine.Recommend(&domain.AnalysisResult{}))
}
