package export

import (
	"time"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// reportDoc is the serialised form of a report.
type reportDoc struct {
	ID          string      `json:"id" yaml:"id"`
	GeneratedAt time.Time   `json:"generatedAt" yaml:"generatedAt"`
	Source      string      `json:"source,omitempty" yaml:"source,omitempty"`
	RecordCount int         `json:"recordCount" yaml:"recordCount"`
	PageCount   int         `json:"pageCount" yaml:"pageCount"`
	Options     optionsDoc  `json:"options" yaml:"options"`
	Summary     summaryDoc  `json:"summary" yaml:"summary"`
	Results     []resultDoc `json:"results" yaml:"results"`
}

type optionsDoc struct {
	SimilarityThreshold float64    `json:"similarityThreshold" yaml:"similarityThreshold"`
	MinQueries          int        `json:"minQueries" yaml:"minQueries"`
	Weights             weightsDoc `json:"weights" yaml:"weights"`
	Language            string     `json:"language" yaml:"language"`
	ComputeMetrics      bool       `json:"computeMetrics" yaml:"computeMetrics"`
}

type weightsDoc struct {
	IntentConflict  float64 `json:"intentConflict" yaml:"intentConflict"`
	PositionOverlap float64 `json:"positionOverlap" yaml:"positionOverlap"`
	TrafficImpact   float64 `json:"trafficImpact" yaml:"trafficImpact"`
	KeywordOverlap  float64 `json:"keywordOverlap" yaml:"keywordOverlap"`
}

type summaryDoc struct {
	PagesAffected      int            `json:"pagesAffected" yaml:"pagesAffected"`
	HighSeverity       int            `json:"highSeverity" yaml:"highSeverity"`
	AverageScore       float64        `json:"averageScore" yaml:"averageScore"`
	IntentDistribution map[string]int `json:"intentDistribution" yaml:"intentDistribution"`
}

type resultDoc struct {
	LandingPage          string     `json:"landingPage" yaml:"landingPage"`
	SimilarURLs          []string   `json:"similarUrls" yaml:"similarUrls"`
	SharedKeywords       []string   `json:"sharedKeywords" yaml:"sharedKeywords"`
	Queries              []string   `json:"queries" yaml:"queries"`
	Clicks               int        `json:"urlClicks" yaml:"urlClicks"`
	Impressions          int        `json:"impressions" yaml:"impressions"`
	AveragePosition      float64    `json:"averagePosition" yaml:"averagePosition"`
	CannibalizationScore float64    `json:"cannibalizationScore" yaml:"cannibalizationScore"`
	SearchIntent         string     `json:"searchIntent" yaml:"searchIntent"`
	Metrics              metricsDoc `json:"metrics" yaml:"metrics"`
	Recommendations      []string   `json:"recommendations" yaml:"recommendations"`
}

type metricsDoc struct {
	ClicksLost          int     `json:"clicksLost" yaml:"clicksLost"`
	ImpressionsLost     int     `json:"impressionsLost" yaml:"impressionsLost"`
	AveragePositionDiff float64 `json:"averagePositionDiff" yaml:"averagePositionDiff"`
}

func newReportDoc(r *domain.AnalysisReport) reportDoc {
	w := r.Options.Config.Weights
	dist := make(map[string]int, len(r.Summary.IntentDistribution))
	for intent, n := range r.Summary.IntentDistribution {
		dist[intent.String()] = n
	}

	results := make([]resultDoc, 0, len(r.Results))
	for i := range r.Results {
		results = append(results, newResultDoc(&r.Results[i]))
	}

	return reportDoc{
		ID:          r.ID,
		GeneratedAt: r.GeneratedAt,
		Source:      r.Source,
		RecordCount: r.RecordCount,
		PageCount:   r.PageCount,
		Options: optionsDoc{
			SimilarityThreshold: r.Options.SimilarityThreshold,
			MinQueries:          r.Options.Config.MinQueries,
			Weights: weightsDoc{
				IntentConflict:  w.IntentConflict,
				PositionOverlap: w.PositionOverlap,
				TrafficImpact:   w.TrafficImpact,
				KeywordOverlap:  w.KeywordOverlap,
			},
			Language:       r.Options.Language.String(),
			ComputeMetrics: r.Options.ComputeMetrics,
		},
		Summary: summaryDoc{
			PagesAffected:      r.Summary.PagesAffected,
			HighSeverity:       r.Summary.HighSeverity,
			AverageScore:       r.Summary.AverageScore,
			IntentDistribution: dist,
		},
		Results: results,
	}
}

func newResultDoc(r *domain.AnalysisResult) resultDoc {
	return resultDoc{
		LandingPage:          r.LandingPage,
		SimilarURLs:          nonNil(r.SimilarURLs),
		SharedKeywords:       nonNil(r.SharedKeywords),
		Queries:              nonNil(r.Queries),
		Clicks:               r.Clicks,
		Impressions:          r.Impressions,
		AveragePosition:      r.AveragePosition,
		CannibalizationScore: r.CannibalizationScore,
		SearchIntent:         r.SearchIntent.String(),
		Metrics: metricsDoc{
			ClicksLost:          r.Metrics.ClicksLost,
			ImpressionsLost:     r.Metrics.ImpressionsLost,
			AveragePositionDiff: r.Metrics.AveragePositionDiff,
		},
		Recommendations: nonNil(r.Recommendations),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
