package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui <file.csv>",
	Short: "Browse an analysis in the interactive terminal UI",
	Long: `Analyse a CSV export with the stored settings and browse the results.

Same as 'cannibal analyze <file.csv> --interactive'.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Open a result
  /        - Filter by URL
  s        - Summary charts
  w        - Edit threshold and weights (re-runs the analysis)
  r        - Re-run the analysis
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	settings := currentSettings()
	spec := domain.SourceSpec{
		Kind:        domain.SourceCSV,
		Path:        args[0],
		SkipInvalid: settings.Import.SkipInvalid,
	}
	return runInteractive(cmd, spec, settings.AnalysisOptions(), nil)
}

// runInteractive opens the TUI. With a nil report the TUI runs the analysis itself.
func runInteractive(cmd *cobra.Command, spec domain.SourceSpec, opts domain.AnalysisOptions, report *domain.AnalysisReport) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(analysisService, settingsService)
	app, err := tui.NewApp(ports, tui.Request{Spec: spec, Options: opts, Report: report})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
