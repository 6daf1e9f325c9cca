package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
)

// Ensure exporters implement the interface.
var (
	_ driven.ResultExporter = (*CSVExporter)(nil)
	_ driven.ResultExporter = (*JSONExporter)(nil)
	_ driven.ResultExporter = (*YAMLExporter)(nil)
)

// CSVHeader is the column layout of CSV exports.
var CSVHeader = []string{
	"url",
	"similarUrls",
	"sharedKeywords",
	"queries",
	"urlClicks",
	"impressions",
	"averagePosition",
	"cannibalizationScore",
	"searchIntent",
	"recommendations",
}

// CSVExporter writes one row per result.
type CSVExporter struct{}

// Format returns the output format this exporter writes.
func (CSVExporter) Format() domain.OutputFormat { return domain.OutputCSV }

// Export writes the report to w.
func (CSVExporter) Export(w io.Writer, report *domain.AnalysisReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range report.Results {
		r := &report.Results[i]
		row := []string{
			r.LandingPage,
			strings.Join(r.SimilarURLs, ", "),
			strings.Join(r.SharedKeywords, ", "),
			strings.Join(r.Queries, ", "),
			strconv.Itoa(r.Clicks),
			strconv.Itoa(r.Impressions),
			formatFloat(r.AveragePosition),
			formatFloat(r.CannibalizationScore),
			r.SearchIntent.String(),
			strings.Join(r.Recommendations, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// JSONExporter writes the whole report as indented JSON.
type JSONExporter struct{}

// Format returns the output format this exporter writes.
func (JSONExporter) Format() domain.OutputFormat { return domain.OutputJSON }

// Export writes the report to w.
func (JSONExporter) Export(w io.Writer, report *domain.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newReportDoc(report)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAMLExporter writes the whole report as YAML.
type YAMLExporter struct{}

// Format returns the output format this exporter writes.
func (YAMLExporter) Format() domain.OutputFormat { return domain.OutputYAML }

// Export writes the report to w.
func (YAMLExporter) Export(w io.Writer, report *domain.AnalysisReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newReportDoc(report)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ForFormat returns the exporter for format.
// Table output is rendered by the CLI and has no exporter.
func ForFormat(format domain.OutputFormat) (driven.ResultExporter, error) {
	switch format {
	case domain.OutputCSV:
		return CSVExporter{}, nil
	case domain.OutputJSON:
		return JSONExporter{}, nil
	case domain.OutputYAML:
		return YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}

// DefaultFilename returns cannibalization-analysis-YYYY-MM-DD.<ext> for t.
func DefaultFilename(format domain.OutputFormat, t time.Time) string {
	return fmt.Sprintf("cannibalization-analysis-%s.%s", t.Format(time.DateOnly), format.Extension())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
