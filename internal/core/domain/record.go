package domain

import "strings"

// RawRecord is a single row of a search console performance export.
// Records are produced by a record source and never modified afterwards.
type RawRecord struct {
	// LandingPage is the URL that received the impressions.
	LandingPage string

	// Query is the search term.
	Query string

	// Clicks is the number of clicks (>= 0).
	Clicks int

	// Impressions is the number of impressions (>= 0).
	Impressions int

	// Position is the average ranking position (>= 0).
	Position float64
}

// IsAnalysable reports whether the record's landing page can take part
// in the analysis. Empty pages and fragment URLs are excluded.
func (r RawRecord) IsAnalysable() bool {
	return r.LandingPage != "" && !strings.Contains(r.LandingPage, "#")
}
