// Package mcp provides an MCP (Model Context Protocol) server adapter for cannibal.
// It lets AI assistants run cannibalization analyses and classify query intent.
package mcp

import "errors"

var (
	// ErrMissingAnalysisService is returned when the analysis service is not provided.
	ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

	// ErrMissingIntentService is returned when the intent service is not provided.
	ErrMissingIntentService = errors.New("mcp: intent service is required")

	// ErrNoInput is returned when a tool call names neither a file nor records.
	ErrNoInput = errors.New("mcp: either path or records is required")
)
