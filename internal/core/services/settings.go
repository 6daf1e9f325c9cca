package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySimilarityThreshold = "analysis.similarity_threshold"
	keyMinQueries          = "analysis.min_queries"
	keyWeightPrefix        = "analysis.weights."
	keyWorkers             = "analysis.workers"
	keyComputeMetrics      = "analysis.compute_metrics"
	keyLanguage            = "intent.language"
	keyVocabularyFile      = "intent.vocabulary_file"
	keySkipInvalid         = "import.skip_invalid"
	keyOutputFormat        = "output.format"
	keyCredentialsFile     = "searchconsole.credentials_file"
	keyRowLimit            = "searchconsole.row_limit"
)

// maxRowLimit is the largest page size the Search Analytics API accepts.
const maxRowLimit = 25000

type setting struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	intents     *IntentRegistry
}

// NewSettingsService creates a new settings service.
// The intents parameter is optional; when set, languages are checked against it.
func NewSettingsService(configStore driven.ConfigStore, intents *IntentRegistry) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		intents:     intents,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	weights := defaults.Analysis.Weights
	for _, f := range domain.AllFactors() {
		weights = weights.With(f, s.getFloat(keyWeightPrefix+f.String(), defaults.Analysis.Weights.Get(f)))
	}

	settings := &domain.AppSettings{
		Analysis: domain.AnalysisSettings{
			SimilarityThreshold: s.getFloat(keySimilarityThreshold, defaults.Analysis.SimilarityThreshold),
			MinQueries:          s.getInt(keyMinQueries, defaults.Analysis.MinQueries),
			Weights:             weights,
			Workers:             s.getInt(keyWorkers, defaults.Analysis.Workers),
			ComputeMetrics:      s.getBool(keyComputeMetrics, defaults.Analysis.ComputeMetrics),
		},
		Intent: domain.IntentSettings{
			Language:       domain.Language(s.getString(keyLanguage, string(defaults.Intent.Language))),
			VocabularyFile: s.configStore.GetString(keyVocabularyFile),
		},
		Import: domain.ImportSettings{
			SkipInvalid: s.getBool(keySkipInvalid, defaults.Import.SkipInvalid),
		},
		Output: domain.OutputSettings{
			Format: s.getOutputFormat(defaults.Output.Format),
		},
		SearchConsole: domain.SearchConsoleSettings{
			CredentialsFile: s.configStore.GetString(keyCredentialsFile),
			RowLimit:        s.getInt(keyRowLimit, defaults.SearchConsole.RowLimit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []setting{
		{keySimilarityThreshold, settings.Analysis.SimilarityThreshold},
		{keyMinQueries, settings.Analysis.MinQueries},
		{keyWorkers, settings.Analysis.Workers},
		{keyComputeMetrics, settings.Analysis.ComputeMetrics},
		{keyLanguage, string(settings.Intent.Language)},
		{keyVocabularyFile, settings.Intent.VocabularyFile},
		{keySkipInvalid, settings.Import.SkipInvalid},
		{keyOutputFormat, settings.Output.Format.String()},
		{keyCredentialsFile, settings.SearchConsole.CredentialsFile},
		{keyRowLimit, settings.SearchConsole.RowLimit},
	}
	for _, f := range domain.AllFactors() {
		values = append(values, setting{keyWeightPrefix + f.String(), settings.Analysis.Weights.Get(f)})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetSimilarityThreshold updates the default similarity threshold.
func (s *SettingsService) SetSimilarityThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: similarity threshold %v outside [0,1]", domain.ErrInvalidInput, threshold)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Analysis.SimilarityThreshold = threshold
	})
}

// SetMinQueries updates the default minimum query count.
func (s *SettingsService) SetMinQueries(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: min queries must be at least 1, got %d", domain.ErrInvalidInput, n)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Analysis.MinQueries = n
	})
}

// SetWeight sets one factor weight and rescales the others so they sum to 1.
func (s *SettingsService) SetWeight(factor domain.Factor, value float64) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	weights, err := settings.Analysis.Weights.Adjust(factor, value)
	if err != nil {
		return err
	}
	settings.Analysis.Weights = weights

	return s.Save(settings)
}

// SetLanguage selects the vocabulary and recommendation language.
func (s *SettingsService) SetLanguage(lang domain.Language) error {
	if err := s.checkLanguage(lang); err != nil {
		return err
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Intent.Language = lang
	})
}

// SetOutputFormat updates the default output format.
func (s *SettingsService) SetOutputFormat(format domain.OutputFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.Output.Format = format
	})
}

// Set stores a raw setting by dotted key after validating it.
// Weights set this way are stored as given, without rescaling.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(key, keyWeightPrefix) {
		factor := domain.Factor(strings.TrimPrefix(key, keyWeightPrefix))
		if !factor.IsValid() {
			return fmt.Errorf("%w: unknown factor %q", domain.ErrInvalidInput, factor)
		}
		v, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, v)
	}

	switch key {
	case keySimilarityThreshold:
		v, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		return s.SetSimilarityThreshold(v)
	case keyMinQueries:
		v, err := parseInt(key, value)
		if err != nil {
			return err
		}
		return s.SetMinQueries(v)
	case keyWorkers:
		v, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, v)
	case keyRowLimit:
		v, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if v < 1 || v > maxRowLimit {
			return fmt.Errorf("%w: %s must be between 1 and %d", domain.ErrInvalidInput, key, maxRowLimit)
		}
		return s.configStore.Set(key, v)
	case keyComputeMetrics, keySkipInvalid:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, v)
	case keyLanguage:
		return s.SetLanguage(domain.Language(value))
	case keyOutputFormat:
		return s.SetOutputFormat(domain.OutputFormat(value))
	case keyVocabularyFile, keyCredentialsFile:
		return s.configStore.Set(key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}
}

// Reset restores default settings.
func (s *SettingsService) Reset() error {
	defaults := domain.DefaultAppSettings()
	return s.Save(&defaults)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.AnalysisOptions().Validate(); err != nil {
		return err
	}
	if sum := settings.Analysis.Weights.Sum(); sum <= 0 {
		return fmt.Errorf("%w: weights sum to %v", domain.ErrInvalidInput, sum)
	}
	if !settings.Output.Format.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, settings.Output.Format)
	}
	if settings.SearchConsole.RowLimit < 1 || settings.SearchConsole.RowLimit > maxRowLimit {
		return fmt.Errorf("%w: row limit %d outside 1..%d",
			domain.ErrInvalidInput, settings.SearchConsole.RowLimit, maxRowLimit)
	}

	return s.checkLanguage(settings.Intent.Language)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// SettingKeys returns every key accepted by Set.
func SettingKeys() []string {
	keys := []string{
		keySimilarityThreshold,
		keyMinQueries,
	}
	for _, f := range domain.AllFactors() {
		keys = append(keys, keyWeightPrefix+f.String())
	}
	return append(keys,
		keyWorkers,
		keyComputeMetrics,
		keyLanguage,
		keyVocabularyFile,
		keySkipInvalid,
		keyOutputFormat,
		keyCredentialsFile,
		keyRowLimit,
	)
}

func (s *SettingsService) update(fn func(*domain.AppSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(settings)
	return s.Save(settings)
}

func (s *SettingsService) checkLanguage(lang domain.Language) error {
	if lang == "" {
		return fmt.Errorf("%w: language must not be empty", domain.ErrInvalidInput)
	}
	if s.intents == nil {
		return nil
	}
	_, err := s.intents.Classifier(lang)
	return err
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getOutputFormat(defaultVal domain.OutputFormat) domain.OutputFormat {
	val := s.configStore.GetString(keyOutputFormat)
	if val == "" {
		return defaultVal
	}
	format := domain.OutputFormat(val)
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
	}
	return v, nil
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
	}
	return v, nil
}
