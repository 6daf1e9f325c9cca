package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// maxListed caps the URLs and keywords printed per result.
const maxListed = 5

// renderTable writes a human-readable report.
func renderTable(w io.Writer, report *domain.AnalysisReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Analysed %s records across %s pages (threshold %.2f)\n",
		humanize.Comma(int64(report.RecordCount)),
		humanize.Comma(int64(report.PageCount)),
		report.Options.SimilarityThreshold)

	if len(report.Results) == 0 {
		b.WriteString("No keyword cannibalization found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	s := report.Summary
	fmt.Fprintf(&b, "Found %s competing pages (%d high severity, average score %.2f)\n\n",
		humanize.Comma(int64(s.PagesAffected)), s.HighSeverity, s.AverageScore)

	for i := range report.Results {
		r := &report.Results[i]
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.LandingPage)
		fmt.Fprintf(&b, "    Score: %.2f  Intent: %s\n", r.CannibalizationScore, r.SearchIntent)
		fmt.Fprintf(&b, "    Clicks: %s  Impressions: %s  Avg position: %.1f\n",
			humanize.Comma(int64(r.Clicks)), humanize.Comma(int64(r.Impressions)), r.AveragePosition)
		if report.Options.ComputeMetrics {
			fmt.Fprintf(&b, "    Lost to best competitor: %s clicks, %s impressions, %.1f positions\n",
				humanize.Comma(int64(r.Metrics.ClicksLost)),
				humanize.Comma(int64(r.Metrics.ImpressionsLost)),
				r.Metrics.AveragePositionDiff)
		}
		fmt.Fprintf(&b, "    Competes with: %s\n", joinCapped(r.SimilarURLs))
		fmt.Fprintf(&b, "    Shared keywords: %s\n", joinCapped(r.SharedKeywords))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "    -> %s\n", rec)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinCapped(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:maxListed], ", "), len(items)-maxListed)
}
