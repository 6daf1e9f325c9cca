// Package tui provides an interactive terminal browser for cannibalization reports.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Analysis runs the analysis. Required.
	Analysis driving.AnalysisService

	// Settings manages application settings. Optional; the settings
	// view reports an error without it.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(analysis driving.AnalysisService, settings driving.SettingsService) *Ports {
	return &Ports{Analysis: analysis, Settings: settings}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}

// Request describes what the TUI shows on start.
type Request struct {
	// Spec is the source the analysis reads. Reruns load it again.
	Spec domain.SourceSpec

	// Options configure each run.
	Options domain.AnalysisOptions

	// Report is an already computed report. When nil, the app runs
	// the analysis on start.
	Report *domain.AnalysisReport
}

// Validate checks that the request can produce a report.
func (r Request) Validate() error {
	if r.Report == nil && r.Spec.Kind == "" {
		return ErrNothingToAnalyse
	}
	return nil
}
