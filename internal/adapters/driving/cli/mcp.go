package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the analyser to AI assistants over MCP",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can run
cannibalization analyses and classify query intent.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  analyze_cannibalization  analyse a CSV file, SQLite table or inline records
  classify_intent          classify a query, optionally against another intent

Examples:
  # Stdio mode (default, for desktop assistants)
  cannibal mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  cannibal mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "cannibal": {
        "command": "/path/to/cannibal",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

var mcpPort int

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve streamable HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Analysis: analysisService,
		Intent:   intentService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("starting MCP server: %w", err)
	}

	if mcpPort <= 0 {
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", mcpPort)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
