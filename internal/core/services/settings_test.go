package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

func newTestSettingsService() (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	return NewSettingsService(store, NewDefaultIntentRegistry()), store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service, _ := newTestSettingsService()

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service, store := newTestSettingsService()
	_ = store.Set("analysis.similarity_threshold", 0.0)
	_ = store.Set("analysis.min_queries", int64(5))
	_ = store.Set("analysis.weights.keyword_overlap", int64(1))
	_ = store.Set("analysis.compute_metrics", true)
	_ = store.Set("intent.language", "en")
	_ = store.Set("output.format", "yaml")
	_ = store.Set("searchconsole.credentials_file", "/tmp/sa.json")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.Analysis.SimilarityThreshold)
	assert.Equal(t, 5, settings.Analysis.MinQueries)
	assert.InDelta(t, 1.0, settings.Analysis.Weights.KeywordOverlap, 1e-9)
	assert.InDelta(t, 0.3, settings.Analysis.Weights.IntentConflict, 1e-9)
	assert.True(t, settings.Analysis.ComputeMetrics)
	assert.Equal(t, domain.LanguageEnglish, settings.Intent.Language)
	assert.Equal(t, domain.OutputYAML, settings.Output.Format)
	assert.Equal(t, "/tmp/sa.json", settings.SearchConsole.CredentialsFile)
}

func TestSettingsService_Get_InvalidFormatReturnsDefault(t *testing.T) {
	service, store := newTestSettingsService()
	_ = store.Set("output.format", "pdf")

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.OutputTable, settings.Output.Format)
}

func TestSettingsService_SaveAndReset(t *testing.T) {
	service, _ := newTestSettingsService()

	settings := domain.DefaultAppSettings()
	settings.Analysis.MinQueries = 7
	settings.Import.SkipInvalid = true
	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)

	require.NoError(t, service.Reset())
	got, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *got)
}

func TestSettingsService_SetWeight(t *testing.T) {
	service, _ := newTestSettingsService()

	require.NoError(t, service.SetWeight(domain.FactorIntentConflict, 0.65))

	settings, err := service.Get()
	require.NoError(t, err)
	w := settings.Analysis.Weights
	assert.InDelta(t, 0.65, w.IntentConflict, 1e-9)
	assert.InDelta(t, 0.15, w.PositionOverlap, 1e-9)
	assert.InDelta(t, 0.1, w.TrafficImpact, 1e-9)
	assert.InDelta(t, 0.1, w.KeywordOverlap, 1e-9)
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)

	assert.ErrorIs(t, service.SetWeight("bogus", 0.5), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetWeight(domain.FactorTrafficImpact, 1.5), domain.ErrInvalidInput)
}

func TestSettingsService_Setters(t *testing.T) {
	service, _ := newTestSettingsService()

	require.NoError(t, service.SetSimilarityThreshold(0.4))
	require.NoError(t, service.SetMinQueries(2))
	require.NoError(t, service.SetLanguage(domain.LanguageEnglish))
	require.NoError(t, service.SetOutputFormat(domain.OutputCSV))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.InDelta(t, 0.4, settings.Analysis.SimilarityThreshold, 1e-9)
	assert.Equal(t, 2, settings.Analysis.MinQueries)
	assert.Equal(t, domain.LanguageEnglish, settings.Intent.Language)
	assert.Equal(t, domain.OutputCSV, settings.Output.Format)

	assert.ErrorIs(t, service.SetSimilarityThreshold(-0.1), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetMinQueries(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.SetLanguage("xx"), domain.ErrUnknownLanguage)
	assert.ErrorIs(t, service.SetOutputFormat("pdf"), domain.ErrUnsupportedFormat)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr error
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{key: "analysis.similarity_threshold", value: "0.55", check: func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 0.55, s.Analysis.SimilarityThreshold, 1e-9)
		}},
		{key: "analysis.min_queries", value: "4", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 4, s.Analysis.MinQueries)
		}},
		{key: "analysis.weights.traffic_impact", value: "2", check: func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 2.0, s.Analysis.Weights.TrafficImpact, 1e-9)
			assert.InDelta(t, 0.3, s.Analysis.Weights.IntentConflict, 1e-9)
		}},
		{key: "analysis.workers", value: "4", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 4, s.Analysis.Workers)
		}},
		{key: "analysis.compute_metrics", value: "true", check: func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Analysis.ComputeMetrics)
		}},
		{key: "import.skip_invalid", value: "1", check: func(t *testing.T, s *domain.AppSettings) {
			assert.True(t, s.Import.SkipInvalid)
		}},
		{key: "intent.language", value: "en", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.LanguageEnglish, s.Intent.Language)
		}},
		{key: "intent.vocabulary_file", value: " /etc/vocab.yaml ", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "/etc/vocab.yaml", s.Intent.VocabularyFile)
		}},
		{key: "output.format", value: "json", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.OutputJSON, s.Output.Format)
		}},
		{key: "searchconsole.row_limit", value: "5000", check: func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 5000, s.SearchConsole.RowLimit)
		}},
		{key: "analysis.similarity_threshold", value: "abc", wantErr: domain.ErrInvalidInput},
		{key: "analysis.min_queries", value: "1.5", wantErr: domain.ErrInvalidInput},
		{key: "analysis.weights.bogus", value: "0.1", wantErr: domain.ErrInvalidInput},
		{key: "analysis.weights.keyword_overlap", value: "-1", wantErr: domain.ErrInvalidInput},
		{key: "analysis.workers", value: "-2", wantErr: domain.ErrInvalidInput},
		{key: "analysis.compute_metrics", value: "maybe", wantErr: domain.ErrInvalidInput},
		{key: "searchconsole.row_limit", value: "30000", wantErr: domain.ErrInvalidInput},
		{key: "nope", value: "1", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			service, _ := newTestSettingsService()

			err := service.Set(tt.key, tt.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		service, _ := newTestSettingsService()
		assert.NoError(t, service.Validate())
	})

	t.Run("zero weights", func(t *testing.T) {
		service, store := newTestSettingsService()
		for _, f := range domain.AllFactors() {
			_ = store.Set("analysis.weights."+f.String(), 0.0)
		}
		assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
	})

	t.Run("bad min queries", func(t *testing.T) {
		service, store := newTestSettingsService()
		_ = store.Set("analysis.min_queries", 0)
		assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
	})

	t.Run("unknown language", func(t *testing.T) {
		service, store := newTestSettingsService()
		_ = store.Set("intent.language", "xx")
		assert.ErrorIs(t, service.Validate(), domain.ErrUnknownLanguage)
	})
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()

	assert.Len(t, keys, 14)
	assert.Contains(t, keys, "analysis.weights.intent_conflict")
	assert.Contains(t, keys, "searchconsole.row_limit")
}
