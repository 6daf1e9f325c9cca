package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// RecommendationRule emits a message when its condition holds for a result.
// Lower priorities come first.
type RecommendationRule struct {
	Priority  int
	Condition func(r *domain.AnalysisResult) bool
	Message   func(r *domain.AnalysisResult) string
}

// recommendationMessages is one language's message catalog.
type recommendationMessages struct {
	canonical   string
	consolidate string
	redirect    string
	hierarchy   string
}

var recommendationCatalogs = map[domain.Language]recommendationMessages{
	domain.LanguagePortuguese: {
		canonical:   "Alta prioridade: Considere canonical tag de %s para %s",
		consolidate: "Perda significativa de tráfego: Avalie consolidar o conteúdo em uma única página",
		redirect:    "Páginas transacionais em conflito: Redirecione para a página com melhor conversão",
		hierarchy:   "Posições muito próximas: Defina uma hierarquia clara entre as páginas",
	},
	domain.LanguageEnglish: {
		canonical:   "High priority: consider a canonical tag from %s to %s",
		consolidate: "Significant traffic loss: consider consolidating the content into a single page",
		redirect:    "Transactional pages in conflict: redirect to the page with the best conversion",
		hierarchy:   "Positions very close: define a clear hierarchy between the pages",
	},
}

// DefaultRecommendationRules returns the built-in rules with messages in lang.
// Languages without a catalog use English.
func DefaultRecommendationRules(lang domain.Language) []RecommendationRule {
	msgs, ok := recommendationCatalogs[lang]
	if !ok {
		msgs = recommendationCatalogs[domain.LanguageEnglish]
	}

	return []RecommendationRule{
		{
			Priority:  1,
			Condition: func(r *domain.AnalysisResult) bool { return r.CannibalizationScore > 0.8 },
			Message: func(r *domain.AnalysisResult) string {
				var first string
				if len(r.SimilarURLs) > 0 {
					first = r.SimilarURLs[0]
				}
				return fmt.Sprintf(msgs.canonical, first, r.LandingPage)
			},
		},
		{
			Priority:  2,
			Condition: func(r *domain.AnalysisResult) bool { return r.Metrics.ClicksLost > 100 },
			Message:   func(*domain.AnalysisResult) string { return msgs.consolidate },
		},
		{
			Priority: 3,
			Condition: func(r *domain.AnalysisResult) bool {
				return r.SearchIntent == domain.IntentTransactional && r.CannibalizationScore > 0.6
			},
			Message: func(*domain.AnalysisResult) string { return msgs.redirect },
		},
		{
			Priority:  4,
			Condition: func(r *domain.AnalysisResult) bool { return r.Metrics.AveragePositionDiff < 2 },
			Message:   func(*domain.AnalysisResult) string { return msgs.hierarchy },
		},
	}
}

// RecommendationEngine turns analysis results into ordered advice.
type RecommendationEngine struct {
	rules []RecommendationRule
}

// NewRecommendationEngine creates an engine with the built-in rules for lang.
func NewRecommendationEngine(lang domain.Language) *RecommendationEngine {
	return NewRecommendationEngineWithRules(DefaultRecommendationRules(lang))
}

// NewRecommendationEngineWithRules creates an engine from custom rules.
// Rules are sorted by priority once; equal priorities keep their order.
func NewRecommendationEngineWithRules(rules []RecommendationRule) *RecommendationEngine {
	sorted := make([]RecommendationRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &RecommendationEngine{rules: sorted}
}

// Recommend returns the message of every matching rule in ascending priority.
// The result is never nil.
func (e *RecommendationEngine) Recommend(r *domain.AnalysisResult) []string {
	out := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.Condition(r) {
			out = append(out, rule.Message(r))
		}
	}
	return out
}
