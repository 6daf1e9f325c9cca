package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService runs the aggregate, detect, recommend pipeline.
type AnalysisService struct {
	intents *IntentRegistry
	sources driven.RecordSourceFactory
	now     func() time.Time
}

// NewAnalysisService creates a new analysis service.
// The sources parameter is optional (can be nil) when only Analyze is used.
func NewAnalysisService(intents *IntentRegistry, sources driven.RecordSourceFactory) *AnalysisService {
	return &AnalysisService{
		intents: intents,
		sources: sources,
		now:     time.Now,
	}
}

// Analyze runs the full analysis over records.
func (s *AnalysisService) Analyze(
	ctx context.Context, records []domain.RawRecord, opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	return s.analyze(ctx, "", records, opts)
}

// AnalyzeSource loads records from spec and analyses them.
func (s *AnalysisService) AnalyzeSource(
	ctx context.Context, spec domain.SourceSpec, opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	if s.sources == nil {
		return nil, fmt.Errorf("%w: no record sources configured", domain.ErrUnsupportedSource)
	}

	logger.Section("Record Import")
	logger.Debug("Source: %s %s", spec.Kind, spec.Describe())

	src, err := s.sources.Open(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logger.Warn("Failed to close source: %v", cerr)
		}
	}()

	done := logger.Timed("import")
	records, err := src.Records(ctx)
	done()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	logger.Info("Imported %d records", len(records))

	return s.analyze(ctx, spec.Describe(), records, opts)
}

func (s *AnalysisService) analyze(
	ctx context.Context, source string, records []domain.RawRecord, opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	classifier, err := s.intents.Classifier(opts.Language)
	if err != nil {
		return nil, err
	}

	logger.Section("Cannibalization Analysis")
	logger.Debug("Records: %d, threshold: %.2f, min queries: %d",
		len(records), opts.SimilarityThreshold, opts.Config.MinQueries)
	logger.Debug("Weights: %+v", opts.Config.Weights)
	if sum := opts.Config.Weights.Sum(); sum <= 0 {
		logger.Warn("Weights sum to %v, using defaults", sum)
	}

	done := logger.Timed("aggregate")
	index := Aggregate(records, classifier)
	done()
	logger.Info("Grouped into %d pages", index.Len())

	detector := NewDetector(classifier, DetectorOptions{
		Workers:        opts.Workers,
		ComputeMetrics: opts.ComputeMetrics,
		Recommender:    NewRecommendationEngine(opts.Language),
	})

	done = logger.Timed("detect")
	results, err := detector.Detect(ctx, index, opts.SimilarityThreshold, &opts.Config)
	done()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("Analysis cancelled")
		}
		return nil, fmt.Errorf("detect conflicts: %w", err)
	}
	logger.Info("Found %d competing pages", len(results))

	return &domain.AnalysisReport{
		ID:          uuid.New().String(),
		GeneratedAt: s.now(),
		Source:      source,
		RecordCount: len(records),
		PageCount:   index.Len(),
		Options:     opts,
		Results:     results,
		Summary:     domain.Summarize(results),
	}, nil
}
