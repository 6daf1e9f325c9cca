package driving

import "github.com/custodia-labs/cannibal-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSimilarityThreshold updates the default similarity threshold.
	SetSimilarityThreshold(threshold float64) error

	// SetMinQueries updates the default minimum query count.
	SetMinQueries(n int) error

	// SetWeight sets one factor weight and rescales the others so they sum to 1.
	SetWeight(factor domain.Factor, value float64) error

	// SetLanguage selects the vocabulary and recommendation language.
	SetLanguage(lang domain.Language) error

	// SetOutputFormat updates the default output format.
	SetOutputFormat(format domain.OutputFormat) error

	// Set stores a raw setting by dotted key after validating it.
	Set(key, value string) error

	// Reset restores default settings.
	Reset() error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
