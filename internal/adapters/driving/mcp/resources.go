package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for cannibal resources.
	uriScheme = "cannibal://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Analysis defaults used when a tool call omits an option",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "vocabularies",
		Name:        "vocabularies",
		Description: "Languages with an intent vocabulary",
		MIMEType:    "application/json",
	}, s.handleLanguagesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "vocabularies/{language}",
		Name:        "vocabulary",
		Description: "Intent keyword cues for one language",
		MIMEType:    "application/json",
	}, s.handleVocabularyResource)
}

// handleSettingsResource returns the analysis defaults.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings := s.ports.settings()

	type settingsInfo struct {
		SimilarityThreshold float64            `json:"similarity_threshold"`
		MinQueries          int                `json:"min_queries"`
		Weights             map[string]float64 `json:"weights"`
		Language            string             `json:"language"`
		ComputeMetrics      bool               `json:"compute_metrics"`
	}

	info := settingsInfo{
		SimilarityThreshold: settings.Analysis.SimilarityThreshold,
		MinQueries:          settings.Analysis.MinQueries,
		Weights:             make(map[string]float64, 4),
		Language:            settings.Intent.Language.String(),
		ComputeMetrics:      settings.Analysis.ComputeMetrics,
	}
	for _, f := range domain.AllFactors() {
		info.Weights[f.String()] = settings.Analysis.Weights.Get(f)
	}

	return jsonResource(req.Params.URI, info)
}

// handleLanguagesResource lists the registered vocabulary languages.
func (s *Server) handleLanguagesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	langs := s.ports.Intent.Languages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.String()
	}
	return jsonResource(req.Params.URI, names)
}

// handleVocabularyResource returns the cues of one language.
func (s *Server) handleVocabularyResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	lang := extractLanguage(req.Params.URI)
	if lang == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	vocab, err := s.ports.Intent.Vocabulary(domain.Language(lang))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type vocabularyInfo struct {
		Language      string   `json:"language"`
		Informational []string `json:"informational"`
		Transactional []string `json:"transactional"`
		Commercial    []string `json:"commercial"`
	}

	return jsonResource(req.Params.URI, vocabularyInfo{
		Language:      vocab.Language.String(),
		Informational: vocab.Informational,
		Transactional: vocab.Transactional,
		Commercial:    vocab.Commercial,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLanguage extracts the language from a URI like cannibal://vocabularies/{language}.
func extractLanguage(uri string) string {
	const prefix = uriScheme + "vocabularies/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
