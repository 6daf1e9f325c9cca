package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

var settingsResetYes bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the analysis defaults stored in ~/.cannibal/config.toml.

Flags passed to analyze override these values for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting by key",
	Long: `Set a setting by its dotted key.

Keys:
  analysis.similarity_threshold   0-1
  analysis.min_queries            at least 1
  analysis.weights.<factor>       stored as given, see 'settings weight'
  analysis.workers                0 or more
  analysis.compute_metrics        true/false
  intent.language                 pt-BR, en
  intent.vocabulary_file          YAML file with custom cues
  import.skip_invalid             true/false
  output.format                   table, json, yaml, csv
  searchconsole.credentials_file  Google credentials JSON
  searchconsole.row_limit         1-25000`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWeightCmd = &cobra.Command{
	Use:   "weight <factor> <value>",
	Short: "Set one factor weight, rescaling the others",
	Long: `Set one factor weight and rescale the other three proportionally so the
weights keep summing to 1.

Factors: intent_conflict, position_overlap, traffic_impact, keyword_overlap`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsWeight,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsResetCmd.Flags().BoolVarP(&settingsResetYes, "yes", "y", false, "do not ask for confirmation")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWeightCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	a := settings.Analysis
	cmd.Println("[Analysis]")
	cmd.Printf("  Similarity threshold: %.2f\n", a.SimilarityThreshold)
	cmd.Printf("  Min queries: %d\n", a.MinQueries)
	cmd.Printf("  Workers: %d\n", a.Workers)
	cmd.Printf("  Compute metrics: %t\n", a.ComputeMetrics)
	cmd.Println("  Weights:")
	for _, f := range domain.AllFactors() {
		cmd.Printf("    %-17s %.2f\n", f, a.Weights.Get(f))
	}
	cmd.Printf("    %-17s %.2f\n", "(sum)", a.Weights.Sum())
	cmd.Println()

	cmd.Println("[Intent]")
	cmd.Printf("  Language: %s\n", settings.Intent.Language)
	cmd.Printf("  Vocabulary file: %s\n", orNotSet(settings.Intent.VocabularyFile))
	cmd.Println()

	cmd.Println("[Import]")
	cmd.Printf("  Skip invalid rows: %t\n", settings.Import.SkipInvalid)
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Format: %s\n", settings.Output.Format.Description())
	cmd.Println()

	cmd.Println("[Search Console]")
	cmd.Printf("  Credentials file: %s\n", orNotSet(settings.SearchConsole.CredentialsFile))
	cmd.Printf("  Row limit: %d\n", settings.SearchConsole.RowLimit)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s set to %s\n", key, value)
	return nil
}

func runSettingsWeight(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	factor := domain.Factor(args[0])
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidInput, args[1])
	}
	if err := settingsService.SetWeight(factor, value); err != nil {
		return fmt.Errorf("failed to set weight: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Println("Weights:")
	for _, f := range domain.AllFactors() {
		cmd.Printf("  %-17s %.2f\n", f, settings.Analysis.Weights.Get(f))
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if !settingsResetYes {
		if !stdinIsTerminal() {
			return errors.New("refusing to reset without confirmation, pass --yes")
		}
		cmd.Print("Reset all settings to defaults? [y/N]: ")
		if !confirm(readLine(bufio.NewReader(os.Stdin))) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func confirm(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
