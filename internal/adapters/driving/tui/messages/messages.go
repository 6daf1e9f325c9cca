// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewResults lists the competing pages.
	ViewResults ViewType = iota
	// ViewDetail shows one competing page.
	ViewDetail
	// ViewSummary shows the report summary charts.
	ViewSummary
	// ViewSettings adjusts threshold, minimum queries and weights.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewDetail:
		return "detail"
	case ViewSummary:
		return "summary"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnalysisRequested asks the app to run the analysis again.
type AnalysisRequested struct{}

// AnalysisCompleted carries a finished report back to the model.
type AnalysisCompleted struct {
	Report *domain.AnalysisReport
	Err    error
}

// ResultSelected is sent when a result is opened.
type ResultSelected struct {
	Result domain.AnalysisResult
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
