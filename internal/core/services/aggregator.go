package services

import (
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// Aggregate groups records by landing page in a single pass.
// Every query is classified once; pages keep first-seen order.
// The returned index is frozen and safe to share between goroutines.
func Aggregate(records []domain.RawRecord, classifier *IntentClassifier) *domain.PageIndex {
	builders := make(map[string]*domain.PageBuilder)
	order := make([]string, 0)
	intents := make(map[string]domain.Intent)

	for _, r := range records {
		b, ok := builders[r.LandingPage]
		if !ok {
			b = domain.NewPageBuilder(r.LandingPage)
			builders[r.LandingPage] = b
			order = append(order, r.LandingPage)
		}

		intent, ok := intents[r.Query]
		if !ok {
			intent = classifier.Classify(r.Query)
			intents[r.Query] = intent
		}

		b.Add(r, intent)
	}

	pages := make([]*domain.PageSummary, len(order))
	for i, page := range order {
		pages[i] = builders[page].Freeze()
	}

	return domain.NewPageIndex(pages)
}
