package domain

import (
	"fmt"
	"time"
)

// Factor names one of the four scoring factors.
type Factor string

// Scoring factors.
const (
	// FactorIntentConflict measures how much two intents compete.
	FactorIntentConflict Factor = "intent_conflict"

	// FactorPositionOverlap measures how close two pages rank.
	FactorPositionOverlap Factor = "position_overlap"

	// FactorTrafficImpact measures how evenly two pages split clicks.
	FactorTrafficImpact Factor = "traffic_impact"

	// FactorKeywordOverlap measures how many queries two pages share.
	FactorKeywordOverlap Factor = "keyword_overlap"
)

// AllFactors returns every factor in weight order.
func AllFactors() []Factor {
	return []Factor{
		FactorIntentConflict,
		FactorPositionOverlap,
		FactorTrafficImpact,
		FactorKeywordOverlap,
	}
}

// IsValid returns true if the factor is recognised.
func (f Factor) IsValid() bool {
	switch f {
	case FactorIntentConflict, FactorPositionOverlap, FactorTrafficImpact, FactorKeywordOverlap:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Factor) String() string {
	return string(f)
}

// Weights sets the contribution of each factor to the final score.
// They are meant to sum to 1 but nothing enforces it.
type Weights struct {
	IntentConflict  float64
	PositionOverlap float64
	TrafficImpact   float64
	KeywordOverlap  float64
}

// DefaultWeights returns 0.3 / 0.3 / 0.2 / 0.2.
func DefaultWeights() Weights {
	return Weights{
		IntentConflict:  0.3,
		PositionOverlap: 0.3,
		TrafficImpact:   0.2,
		KeywordOverlap:  0.2,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.IntentConflict + w.PositionOverlap + w.TrafficImpact + w.KeywordOverlap
}

// Get returns the weight of a factor.
func (w Weights) Get(f Factor) float64 {
	switch f {
	case FactorIntentConflict:
		return w.IntentConflict
	case FactorPositionOverlap:
		return w.PositionOverlap
	case FactorTrafficImpact:
		return w.TrafficImpact
	case FactorKeywordOverlap:
		return w.KeywordOverlap
	default:
		return 0
	}
}

// With returns a copy of w with factor f set to v. Other weights are unchanged.
func (w Weights) With(f Factor, v float64) Weights {
	w.set(f, v)
	return w
}

func (w *Weights) set(f Factor, v float64) {
	switch f {
	case FactorIntentConflict:
		w.IntentConflict = v
	case FactorPositionOverlap:
		w.PositionOverlap = v
	case FactorTrafficImpact:
		w.TrafficImpact = v
	case FactorKeywordOverlap:
		w.KeywordOverlap = v
	}
}

// Adjust sets factor f to value and rescales the other three
// proportionally so that the weights keep summing to 1.
// If the other weights are all zero the remainder is split evenly.
func (w Weights) Adjust(f Factor, value float64) (Weights, error) {
	if !f.IsValid() {
		return w, fmt.Errorf("%w: unknown factor %q", ErrInvalidInput, f)
	}
	if value < 0 || value > 1 {
		return w, fmt.Errorf("%w: weight %v outside [0,1]", ErrInvalidInput, value)
	}

	others := w.Sum() - w.Get(f)
	out := w
	out.set(f, value)

	for _, other := range AllFactors() {
		if other == f {
			continue
		}
		if others <= 0 {
			out.set(other, (1-value)/3)
			continue
		}
		out.set(other, w.Get(other)*(1-value)/others)
	}

	return out, nil
}

// AnalysisConfig holds the scoring configuration chosen by the user.
type AnalysisConfig struct {
	// Weights sets the contribution of each factor.
	Weights Weights

	// MinQueries is the minimum number of distinct queries a page needs
	// before it is checked for conflicts.
	MinQueries int
}

// DefaultAnalysisConfig returns the default weights and a minimum of 3 queries.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Weights:    DefaultWeights(),
		MinQueries: 3,
	}
}

// ScoringFactors are the four normalised sub-scores of one page pair.
type ScoringFactors struct {
	IntentConflict  float64
	PositionOverlap float64
	TrafficImpact   float64
	KeywordOverlap  float64
}

// Metrics quantifies what a page loses to its strongest competitor.
// All fields are zero unless metrics computation is enabled.
type Metrics struct {
	// ClicksLost is how many more clicks the best partner receives.
	ClicksLost int

	// ImpressionsLost is how many more impressions the best partner receives.
	ImpressionsLost int

	// AveragePositionDiff is the absolute average position gap to the best partner.
	AveragePositionDiff float64
}

// AnalysisResult describes one page that competes with other pages.
type AnalysisResult struct {
	// LandingPage is the page under analysis.
	LandingPage string

	// SimilarURLs lists conflicting pages in discovery order.
	SimilarURLs []string

	// SharedKeywords is the union of queries shared with all partners.
	SharedKeywords []string

	// Queries are the page's distinct queries.
	Queries []string

	// Clicks is the page's total clicks.
	Clicks int

	// Impressions is the page's total impressions.
	Impressions int

	// AveragePosition is the page's mean position across its records.
	AveragePosition float64

	// CannibalizationScore is the mean pairwise score against all partners.
	// It is a weighted sum and may exceed 1.
	CannibalizationScore float64

	// SearchIntent is the intent of the page's representative query.
	SearchIntent Intent

	// Metrics holds the loss estimates (zero unless enabled).
	Metrics Metrics

	// Recommendations are ordered by priority.
	Recommendations []string
}

// AnalysisOptions configures one analysis run.
type AnalysisOptions struct {
	// SimilarityThreshold is the fraction of a page's queries another page
	// must share to count as a conflicting partner.
	SimilarityThreshold float64

	// Config holds weights and the minimum query count.
	Config AnalysisConfig

	// Language selects the vocabulary and recommendation catalog.
	Language Language

	// Workers sets how many goroutines scan pages. Values below 2 scan sequentially.
	Workers int

	// ComputeMetrics enables the loss metrics against the best partner.
	ComputeMetrics bool
}

// DefaultAnalysisOptions returns a 0.7 similarity threshold with default config.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		SimilarityThreshold: 0.7,
		Config:              DefaultAnalysisConfig(),
		Language:            LanguagePortuguese,
		Workers:             1,
	}
}

// Validate checks the options for values the engine cannot use.
func (o AnalysisOptions) Validate() error {
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold %v outside [0,1]", ErrInvalidInput, o.SimilarityThreshold)
	}
	if o.Config.MinQueries < 1 {
		return fmt.Errorf("%w: min queries must be at least 1, got %d", ErrInvalidInput, o.Config.MinQueries)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidInput)
	}
	return nil
}

// AnalysisReport is the outcome of one analysis run.
type AnalysisReport struct {
	// ID uniquely identifies the run.
	ID string

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time

	// Source describes where the records came from.
	Source string

	// RecordCount is the number of records analysed.
	RecordCount int

	// PageCount is the number of distinct landing pages.
	PageCount int

	// Options are the options the run used.
	Options AnalysisOptions

	// Results are the competing pages, in first-seen page order.
	// An empty slice means no cannibalization was found.
	Results []AnalysisResult

	// Summary holds aggregate figures over Results.
	Summary Summary
}
