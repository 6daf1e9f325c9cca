package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the analysis over HTTP.

Endpoints:
  GET  /healthz                   liveness check
  POST /api/v1/analyze            CSV export in the body; query parameters
                                  threshold, min_queries, lang, metrics,
                                  skip_invalid, format (json, yaml, csv)
  GET  /api/v1/intent?q=<query>   classify a query; lang and against optional

Example:
  cannibal serve --addr :8080
  curl --data-binary @export.csv 'localhost:8080/api/v1/analyze?threshold=0.5'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := httpapi.NewServer(&httpapi.Ports{
		Analysis: analysisService,
		Intent:   intentService,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP API listening on %s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
