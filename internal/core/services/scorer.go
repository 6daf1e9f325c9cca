package services

import (
	"math"
	"unicode/utf16"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// positionWindow is the rank gap at which position overlap reaches 0.
const positionWindow = 10.0

// ScorePair computes the four sub-scores for subject page a against page b.
//
// intents is the subject page's query intent map. Representative queries
// missing from it count as informational.
//
// positionOverlap compares the pages' position sums, not their averages, so
// pages with several records rarely overlap. keywordOverlap divides the
// shared query count by the character length (UTF-16 code units) of a's
// representative query, not by a query count. Existing scores depend on both
// formulas, so they are kept as is.
func ScorePair(a, b *domain.PageSummary, shared []string, intents map[string]domain.Intent) domain.ScoringFactors {
	repA := a.RepresentativeQuery()
	repB := b.RepresentativeQuery()

	intentConflict := IntentConflict(intentOrDefault(intents, repA), intentOrDefault(intents, repB))

	positionDiff := math.Abs(a.PositionSum() - b.PositionSum())
	positionOverlap := math.Max(0, 1-positionDiff/positionWindow)

	clicksA := a.TotalClicks()
	clicksB := b.TotalClicks()
	var trafficImpact float64
	if total := clicksA + clicksB; total > 0 {
		trafficImpact = float64(min(clicksA, clicksB)) / float64(total)
	}

	var keywordOverlap float64
	if repA != "" {
		keywordOverlap = float64(len(shared)) / float64(max(1, jsLength(repA)))
	}

	return domain.ScoringFactors{
		IntentConflict:  zeroNaN(intentConflict),
		PositionOverlap: zeroNaN(positionOverlap),
		TrafficImpact:   zeroNaN(trafficImpact),
		KeywordOverlap:  zeroNaN(keywordOverlap),
	}
}

// CombineScore returns the weighted sum of the factors. The result is not
// clamped. A nil config or weights summing to 0 or less use the defaults.
func CombineScore(f domain.ScoringFactors, cfg *domain.AnalysisConfig) float64 {
	w := domain.DefaultWeights()
	if cfg != nil && cfg.Weights.Sum() > 0 {
		w = cfg.Weights
	}

	return f.IntentConflict*w.IntentConflict +
		f.PositionOverlap*w.PositionOverlap +
		f.TrafficImpact*w.TrafficImpact +
		f.KeywordOverlap*w.KeywordOverlap
}

func intentOrDefault(intents map[string]domain.Intent, query string) domain.Intent {
	if intent, ok := intents[query]; ok {
		return intent
	}
	return domain.IntentInformational
}

// jsLength counts UTF-16 code units, the string length used by the
// exports this tool replaced.
func jsLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
