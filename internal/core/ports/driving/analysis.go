package driving

import (
	"context"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// AnalysisService runs keyword cannibalization analysis.
type AnalysisService interface {
	// Analyze runs the full analysis over records.
	// An empty result list is a valid outcome meaning no cannibalization.
	Analyze(ctx context.Context, records []domain.RawRecord, opts domain.AnalysisOptions) (*domain.AnalysisReport, error)

	// AnalyzeSource loads records from spec and analyses them.
	AnalyzeSource(ctx context.Context, spec domain.SourceSpec, opts domain.AnalysisOptions) (*domain.AnalysisReport, error)
}

// IntentService exposes intent classification.
type IntentService interface {
	// Classify returns the intent of query using the vocabulary of lang.
	Classify(lang domain.Language, query string) (domain.Intent, error)

	// Vocabulary returns the cues registered for lang.
	Vocabulary(lang domain.Language) (domain.Vocabulary, error)

	// Conflict returns the conflict affinity between two intents.
	Conflict(a, b domain.Intent) float64

	// Languages returns the languages with a registered vocabulary.
	Languages() []domain.Language
}
