package mcp

import (
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs cannibalization analyses.
	Analysis driving.AnalysisService

	// Intent classifies queries.
	Intent driving.IntentService

	// Settings supplies analysis defaults. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Intent == nil {
		return ErrMissingIntentService
	}
	return nil
}

// settings returns the stored settings, falling back to defaults.
func (p *Ports) settings() domain.AppSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}
