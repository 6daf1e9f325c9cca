package domain

import (
	"math"
	"strings"
)

// HighSeverityScore is the score above which a conflict is high priority.
const HighSeverityScore = 0.8

// URLScore is one bar of the score chart.
type URLScore struct {
	// Label is the last path segment of the URL, or the URL itself.
	Label string

	// URL is the landing page.
	URL string

	// Score is the cannibalization score rounded to two decimals.
	Score float64
}

// Summary holds aggregate figures over a result set.
type Summary struct {
	// PagesAffected is the number of results.
	PagesAffected int

	// HighSeverity counts results scoring above HighSeverityScore.
	HighSeverity int

	// AverageScore is the mean cannibalization score, 0 when empty.
	AverageScore float64

	// IntentDistribution counts results per search intent.
	IntentDistribution map[Intent]int

	// Scores lists every result's score in result order.
	Scores []URLScore
}

// Summarize computes the summary of results.
func Summarize(results []AnalysisResult) Summary {
	s := Summary{
		PagesAffected:      len(results),
		IntentDistribution: make(map[Intent]int),
		Scores:             make([]URLScore, 0, len(results)),
	}

	var total float64
	for i := range results {
		r := &results[i]
		total += r.CannibalizationScore
		if r.CannibalizationScore > HighSeverityScore {
			s.HighSeverity++
		}
		s.IntentDistribution[r.SearchIntent]++
		s.Scores = append(s.Scores, URLScore{
			Label: URLLabel(r.LandingPage),
			URL:   r.LandingPage,
			Score: math.Round(r.CannibalizationScore*100) / 100,
		})
	}

	if len(results) > 0 {
		s.AverageScore = total / float64(len(results))
	}

	return s
}

// URLLabel returns the last path segment of a URL, falling back to
// the whole URL when it ends with a slash.
func URLLabel(u string) string {
	idx := strings.LastIndex(u, "/")
	if idx < 0 {
		return u
	}
	if last := u[idx+1:]; last != "" {
		return last
	}
	return u
}
