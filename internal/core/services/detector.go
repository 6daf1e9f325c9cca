package services

import (
	"context"
	"math"
	"sync"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// DetectorOptions tunes how the detector runs.
type DetectorOptions struct {
	// Workers is the number of goroutines scanning subject pages.
	// Values below 2 scan sequentially.
	Workers int

	// ComputeMetrics fills in loss metrics against the best partner.
	ComputeMetrics bool

	// Recommender attaches recommendations to each result when set.
	Recommender *RecommendationEngine
}

// Detector finds pages that compete for the same queries.
type Detector struct {
	classifier *IntentClassifier
	opts       DetectorOptions
}

// NewDetector creates a detector that derives each result's intent with classifier.
func NewDetector(classifier *IntentClassifier, opts DetectorOptions) *Detector {
	return &Detector{classifier: classifier, opts: opts}
}

// Detect compares every eligible page against every other page.
//
// A page is eligible when it has at least cfg.MinQueries distinct queries.
// Another page is a conflicting partner when the two share at least
// threshold × (eligible page's query count) queries. The check is
// asymmetric. Results follow the index order and are never nil.
func (d *Detector) Detect(
	ctx context.Context,
	index *domain.PageIndex,
	threshold float64,
	cfg *domain.AnalysisConfig,
) ([]domain.AnalysisResult, error) {
	if cfg == nil {
		defaults := domain.DefaultAnalysisConfig()
		cfg = &defaults
	}

	pages := index.Pages()
	slots := make([]*domain.AnalysisResult, len(pages))

	if d.opts.Workers < 2 || len(pages) < 2 {
		for i := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i] = d.detectPage(pages, i, threshold, cfg)
		}
		return collect(slots), nil
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < d.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				slots[i] = d.detectPage(pages, i, threshold, cfg)
			}
		}()
	}

	var cancelled error
	for i := range pages {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		next <- i
	}
	close(next)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return collect(slots), nil
}

func collect(slots []*domain.AnalysisResult) []domain.AnalysisResult {
	results := make([]domain.AnalysisResult, 0)
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// detectPage returns the result for pages[i], or nil if it has no partners.
// It only reads the shared summaries.
func (d *Detector) detectPage(
	pages []*domain.PageSummary,
	i int,
	threshold float64,
	cfg *domain.AnalysisConfig,
) *domain.AnalysisResult {
	page := pages[i]
	minQueries := max(1, cfg.MinQueries)
	if page.QueryCount() < minQueries {
		return nil
	}

	queries := page.Queries()
	intents := page.Intents()
	required := threshold * float64(len(queries))

	var (
		similar    []string
		shared     []string
		seenShared = make(map[string]struct{})
		total      float64
		best       *domain.PageSummary
	)

	for j, other := range pages {
		if j == i {
			continue
		}

		intersection := make([]string, 0)
		for _, q := range queries {
			if other.HasQuery(q) {
				intersection = append(intersection, q)
			}
		}
		if float64(len(intersection)) < required {
			continue
		}

		similar = append(similar, other.LandingPage())
		for _, q := range intersection {
			if _, ok := seenShared[q]; !ok {
				seenShared[q] = struct{}{}
				shared = append(shared, q)
			}
		}

		total += CombineScore(ScorePair(page, other, intersection, intents), cfg)

		if best == nil || other.TotalClicks() > best.TotalClicks() {
			best = other
		}
	}

	if len(similar) == 0 {
		return nil
	}

	if shared == nil {
		shared = []string{}
	}

	result := &domain.AnalysisResult{
		LandingPage:          page.LandingPage(),
		SimilarURLs:          similar,
		SharedKeywords:       shared,
		Queries:              queries,
		Clicks:               page.TotalClicks(),
		Impressions:          page.TotalImpressions(),
		AveragePosition:      page.AveragePosition(),
		CannibalizationScore: total / float64(len(similar)),
		SearchIntent:         d.classifier.Classify(page.RepresentativeQuery()),
		Recommendations:      []string{},
	}

	if d.opts.ComputeMetrics {
		result.Metrics = lossAgainst(page, best)
	}
	if d.opts.Recommender != nil {
		result.Recommendations = d.opts.Recommender.Recommend(result)
	}

	return result
}

// lossAgainst measures what page loses to best.
func lossAgainst(page, best *domain.PageSummary) domain.Metrics {
	return domain.Metrics{
		ClicksLost:          max(0, best.TotalClicks()-page.TotalClicks()),
		ImpressionsLost:     max(0, best.TotalImpressions()-page.TotalImpressions()),
		AveragePositionDiff: math.Abs(page.AveragePosition() - best.AveragePosition()),
	}
}
