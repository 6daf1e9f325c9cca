package tui

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required")

// ErrNothingToAnalyse is returned when a request has neither a report nor a source.
var ErrNothingToAnalyse = errors.New("tui: request needs a report or a source")
