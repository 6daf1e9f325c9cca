// Package cli implements the cannibal command line interface on top of cobra.
// It is a driving adapter: commands call the core through driving ports
// injected with SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services used by the commands. Nil until SetServices is called.
var (
	analysisService driving.AnalysisService
	intentService   driving.IntentService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "cannibal",
	Short: "Find pages competing for the same search queries",
	Long: `cannibal detects keyword cannibalization in search console exports.

It groups query rows by landing page, finds pages that share most of their
queries, scores each conflict and suggests how to resolve it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline stages to stderr")
}

// SetServices injects the driving ports used by the commands.
func SetServices(analysis driving.AnalysisService, intent driving.IntentService, settings driving.SettingsService) {
	analysisService = analysis
	intentService = intent
	settingsService = settings
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
