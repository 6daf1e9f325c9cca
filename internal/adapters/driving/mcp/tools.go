package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// RecordInput is one search console row passed inline.
type RecordInput struct {
	LandingPage string  `json:"landing_page" jsonschema:"the URL that received the impressions"`
	Query       string  `json:"query" jsonschema:"the search term"`
	Clicks      int     `json:"clicks" jsonschema:"number of clicks"`
	Impressions int     `json:"impressions" jsonschema:"number of impressions"`
	Position    float64 `json:"position" jsonschema:"average ranking position"`
}

// AnalyzeInput is the input schema for the analyze_cannibalization tool.
type AnalyzeInput struct {
	Path           string        `json:"path,omitempty" jsonschema:"path to a search console CSV export or SQLite database"`
	Table          string        `json:"table,omitempty" jsonschema:"SQLite table to read; when set, path is a SQLite database"`
	Records        []RecordInput `json:"records,omitempty" jsonschema:"inline records, used when path is empty"`
	Threshold      *float64      `json:"threshold,omitempty" jsonschema:"fraction of a page's queries another page must share (0-1)"`
	MinQueries     int           `json:"min_queries,omitempty" jsonschema:"minimum distinct queries a page needs to be checked"`
	Language       string        `json:"language,omitempty" jsonschema:"vocabulary language, e.g. pt-BR or en"`
	ComputeMetrics bool          `json:"compute_metrics,omitempty" jsonschema:"estimate clicks and impressions lost to the strongest competitor"`
	Limit          int           `json:"limit,omitempty" jsonschema:"maximum number of results to return (0 = all)"`
}

// AnalyzeOutput is the output schema for the analyze_cannibalization tool.
type AnalyzeOutput struct {
	ReportID     string         `json:"report_id"`
	RecordCount  int            `json:"record_count"`
	PageCount    int            `json:"page_count"`
	Summary      SummaryOutput  `json:"summary"`
	Results      []ResultOutput `json:"results"`
	Count        int            `json:"count"`
	TotalResults int            `json:"total_results"`
}

// SummaryOutput holds aggregate figures of an analysis.
type SummaryOutput struct {
	PagesAffected      int            `json:"pages_affected"`
	HighSeverity       int            `json:"high_severity"`
	AverageScore       float64        `json:"average_score"`
	IntentDistribution map[string]int `json:"intent_distribution"`
}

// ResultOutput represents a single competing page.
type ResultOutput struct {
	URL                  string   `json:"url"`
	SimilarURLs          []string `json:"similar_urls"`
	SharedKeywords       []string `json:"shared_keywords"`
	Clicks               int      `json:"clicks"`
	Impressions          int      `json:"impressions"`
	AveragePosition      float64  `json:"average_position"`
	CannibalizationScore float64  `json:"cannibalization_score"`
	SearchIntent         string   `json:"search_intent"`
	ClicksLost           int      `json:"clicks_lost,omitempty"`
	ImpressionsLost      int      `json:"impressions_lost,omitempty"`
	Recommendations      []string `json:"recommendations"`
}

// ClassifyInput is the input schema for the classify_intent tool.
type ClassifyInput struct {
	Query    string `json:"query" jsonschema:"the search query to classify"`
	Language string `json:"language,omitempty" jsonschema:"vocabulary language, e.g. pt-BR or en"`
	Against  string `json:"against,omitempty" jsonschema:"another intent to compute the conflict affinity with"`
}

// ClassifyOutput is the output schema for the classify_intent tool.
type ClassifyOutput struct {
	Query       string   `json:"query"`
	Language    string   `json:"language"`
	Intent      string   `json:"intent"`
	Description string   `json:"description"`
	Conflict    *float64 `json:"conflict,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_cannibalization",
		Description: "Find landing pages competing for the same search queries",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_intent",
		Description: "Classify the search intent of a query",
	}, s.handleClassify)
}

// handleAnalyze handles the analyze_cannibalization tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	settings := s.ports.settings()
	opts := settings.AnalysisOptions()
	if input.Threshold != nil {
		opts.SimilarityThreshold = *input.Threshold
	}
	if input.MinQueries > 0 {
		opts.Config.MinQueries = input.MinQueries
	}
	if input.Language != "" {
		opts.Language = domain.Language(input.Language)
	}
	if input.ComputeMetrics {
		opts.ComputeMetrics = true
	}

	var (
		report *domain.AnalysisReport
		err    error
	)
	switch {
	case input.Path != "":
		spec := domain.SourceSpec{
			Kind:        domain.SourceCSV,
			Path:        input.Path,
			SkipInvalid: settings.Import.SkipInvalid,
		}
		if input.Table != "" {
			spec.Kind = domain.SourceSQLite
			spec.Table = input.Table
		}
		report, err = s.ports.Analysis.AnalyzeSource(ctx, spec, opts)
	case len(input.Records) > 0:
		report, err = s.ports.Analysis.Analyze(ctx, toRecords(input.Records), opts)
	default:
		return nil, AnalyzeOutput{}, ErrNoInput
	}
	if err != nil {
		return nil, AnalyzeOutput{}, fmt.Errorf("analysis failed: %w", err)
	}

	return nil, toAnalyzeOutput(report, input.Limit), nil
}

// handleClassify handles the classify_intent tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	lang := domain.Language(input.Language)
	if lang == "" {
		lang = s.ports.settings().Intent.Language
	}

	intent, err := s.ports.Intent.Classify(lang, input.Query)
	if err != nil {
		return nil, ClassifyOutput{}, err
	}

	output := ClassifyOutput{
		Query:       input.Query,
		Language:    lang.String(),
		Intent:      intent.String(),
		Description: intent.Description(),
	}

	if input.Against != "" {
		other := domain.Intent(input.Against)
		if !other.IsValid() {
			return nil, ClassifyOutput{}, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidInput, input.Against)
		}
		conflict := s.ports.Intent.Conflict(intent, other)
		output.Conflict = &conflict
	}

	return nil, output, nil
}

func toRecords(in []RecordInput) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(in))
	for _, r := range in {
		rec := domain.RawRecord{
			LandingPage: r.LandingPage,
			Query:       r.Query,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			Position:    r.Position,
		}
		if rec.IsAnalysable() {
			records = append(records, rec)
		}
	}
	return records
}

func toAnalyzeOutput(report *domain.AnalysisReport, limit int) AnalyzeOutput {
	results := report.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	output := AnalyzeOutput{
		ReportID:    report.ID,
		RecordCount: report.RecordCount,
		PageCount:   report.PageCount,
		Summary: SummaryOutput{
			PagesAffected:      report.Summary.PagesAffected,
			HighSeverity:       report.Summary.HighSeverity,
			AverageScore:       report.Summary.AverageScore,
			IntentDistribution: make(map[string]int, len(report.Summary.IntentDistribution)),
		},
		Results:      make([]ResultOutput, len(results)),
		Count:        len(results),
		TotalResults: len(report.Results),
	}

	for intent, n := range report.Summary.IntentDistribution {
		output.Summary.IntentDistribution[intent.String()] = n
	}

	for i := range results {
		r := &results[i]
		output.Results[i] = ResultOutput{
			URL:                  r.LandingPage,
			SimilarURLs:          r.SimilarURLs,
			SharedKeywords:       r.SharedKeywords,
			Clicks:               r.Clicks,
			Impressions:          r.Impressions,
			AveragePosition:      r.AveragePosition,
			CannibalizationScore: r.CannibalizationScore,
			SearchIntent:         r.SearchIntent.String(),
			ClicksLost:           r.Metrics.ClicksLost,
			ImpressionsLost:      r.Metrics.ImpressionsLost,
			Recommendations:      r.Recommendations,
		}
	}

	return output
}
