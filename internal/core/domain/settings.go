package domain

const unknownDescription = "Unknown"

// OutputFormat selects how analysis results are rendered.
type OutputFormat string

// Available output formats.
const (
	// OutputTable renders a human-readable table.
	OutputTable OutputFormat = "table"

	// OutputJSON renders indented JSON.
	OutputJSON OutputFormat = "json"

	// OutputYAML renders YAML.
	OutputYAML OutputFormat = "yaml"

	// OutputCSV renders the CSV export layout.
	OutputCSV OutputFormat = "csv"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputTable, OutputJSON, OutputYAML, OutputCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Extension returns the file extension for the format.
func (f OutputFormat) Extension() string {
	switch f {
	case OutputJSON:
		return "json"
	case OutputYAML:
		return "yaml"
	case OutputCSV:
		return "csv"
	default:
		return "txt"
	}
}

// Description returns a human-readable description of the format.
func (f OutputFormat) Description() string {
	switch f {
	case OutputTable:
		return "Table (terminal)"
	case OutputJSON:
		return "JSON"
	case OutputYAML:
		return "YAML"
	case OutputCSV:
		return "CSV (spreadsheet export)"
	default:
		return unknownDescription
	}
}

// AllOutputFormats returns all available output formats.
func AllOutputFormats() []OutputFormat {
	return []OutputFormat{OutputTable, OutputJSON, OutputYAML, OutputCSV}
}

// AnalysisSettings holds the analysis defaults.
type AnalysisSettings struct {
	// SimilarityThreshold is the default similarity threshold.
	SimilarityThreshold float64

	// MinQueries is the default minimum query count.
	MinQueries int

	// Weights are the default factor weights.
	Weights Weights

	// Workers sets how many goroutines scan pages.
	Workers int

	// ComputeMetrics enables loss metrics against the best partner.
	ComputeMetrics bool
}

// IntentSettings holds intent classification configuration.
type IntentSettings struct {
	// Language selects the vocabulary and recommendation catalog.
	Language Language

	// VocabularyFile is an optional YAML file with a custom vocabulary.
	VocabularyFile string
}

// ImportSettings holds record import configuration.
type ImportSettings struct {
	// SkipInvalid drops unparseable rows instead of failing the import.
	SkipInvalid bool
}

// OutputSettings holds rendering configuration.
type OutputSettings struct {
	// Format is the default output format.
	Format OutputFormat
}

// SearchConsoleSettings holds Search Console API configuration.
type SearchConsoleSettings struct {
	// CredentialsFile is a service account or authorised user JSON file.
	// Empty means application default credentials.
	CredentialsFile string

	// RowLimit is the page size of Search Analytics queries (max 25000).
	RowLimit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Analysis holds analysis defaults.
	Analysis AnalysisSettings

	// Intent holds intent classification settings.
	Intent IntentSettings

	// Import holds record import settings.
	Import ImportSettings

	// Output holds rendering settings.
	Output OutputSettings

	// SearchConsole holds Search Console API settings.
	SearchConsole SearchConsoleSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	defaults := DefaultAnalysisOptions()
	return AppSettings{
		Analysis: AnalysisSettings{
			SimilarityThreshold: defaults.SimilarityThreshold,
			MinQueries:          defaults.Config.MinQueries,
			Weights:             defaults.Config.Weights,
			Workers:             1,
			ComputeMetrics:      false,
		},
		Intent: IntentSettings{
			Language: LanguagePortuguese,
		},
		Output: OutputSettings{
			Format: OutputTable,
		},
		SearchConsole: SearchConsoleSettings{
			RowLimit: 25000,
		},
	}
}

// AnalysisOptions converts the settings into options for one run.
func (s AppSettings) AnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		SimilarityThreshold: s.Analysis.SimilarityThreshold,
		Config: AnalysisConfig{
			Weights:    s.Analysis.Weights,
			MinQueries: s.Analysis.MinQueries,
		},
		Language:       s.Intent.Language,
		Workers:        s.Analysis.Workers,
		ComputeMetrics: s.Analysis.ComputeMetrics,
	}
}
