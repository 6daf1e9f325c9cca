package mcp

import (
	"context"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	report *domain.AnalysisReport
	err    error

	gotRecords []domain.RawRecord
	gotSpec    *domain.SourceSpec
	gotOpts    domain.AnalysisOptions
}

func (m *mockAnalysisService) Analyze(
	_ context.Context,
	records []domain.RawRecord,
	opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	m.gotRecords = records
	m.gotOpts = opts
	return m.report, m.err
}

func (m *mockAnalysisService) AnalyzeSource(
	_ context.Context,
	spec domain.SourceSpec,
	opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	m.gotSpec = &spec
	m.gotOpts = opts
	return m.report, m.err
}

// mockIntentService is a mock implementation of driving.IntentService.
type mockIntentService struct {
	intent   domain.Intent
	conflict float64
	vocab    domain.Vocabulary
	err      error

	gotLanguage domain.Language
}

func (m *mockIntentService) Classify(lang domain.Language, _ string) (domain.Intent, error) {
	m.gotLanguage = lang
	return m.intent, m.err
}

func (m *mockIntentService) Vocabulary(_ domain.Language) (domain.Vocabulary, error) {
	return m.vocab, m.err
}

func (m *mockIntentService) Conflict(_, _ domain.Intent) float64 {
	return m.conflict
}

func (m *mockIntentService) Languages() []domain.Language {
	return []domain.Language{domain.LanguageEnglish, domain.LanguagePortuguese}
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error            { return m.err }
func (m *mockSettingsService) SetSimilarityThreshold(_ float64) error      { return m.err }
func (m *mockSettingsService) SetMinQueries(_ int) error                   { return m.err }
func (m *mockSettingsService) SetWeight(_ domain.Factor, _ float64) error  { return m.err }
func (m *mockSettingsService) SetLanguage(_ domain.Language) error         { return m.err }
func (m *mockSettingsService) SetOutputFormat(_ domain.OutputFormat) error { return m.err }
func (m *mockSettingsService) Set(_, _ string) error                       { return m.err }
func (m *mockSettingsService) Reset() error                                { return m.err }
func (m *mockSettingsService) Validate() error                             { return m.err }
func (m *mockSettingsService) GetDefaults() domain.AppSettings             { return domain.DefaultAppSettings() }

// sampleReport returns a report with a single competing page.
func sampleReport() *domain.AnalysisReport {
	results := []domain.AnalysisResult{
		{
			LandingPage:          "https://example.com/tenis",
			SimilarURLs:          []string{"https://example.com/tenis-corrida"},
			SharedKeywords:       []string{"tenis corrida"},
			Queries:              []string{"tenis corrida", "comprar tenis"},
			Clicks:               120,
			Impressions:          3000,
			AveragePosition:      4.5,
			CannibalizationScore: 0.85,
			SearchIntent:         domain.IntentTransactional,
			Recommendations:      []string{"Consider a canonical tag"},
		},
		{
			LandingPage:          "https://example.com/tenis-corrida",
			SimilarURLs:          []string{"https://example.com/tenis"},
			SharedKeywords:       []string{"tenis corrida"},
			CannibalizationScore: 0.5,
			SearchIntent:         domain.IntentInformational,
			Recommendations:      []string{},
		},
	}
	return &domain.AnalysisReport{
		ID:          "report-1",
		RecordCount: 10,
		PageCount:   4,
		Results:     results,
		Summary:     domain.Summarize(results),
	}
}
