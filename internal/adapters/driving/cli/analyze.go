package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
	"github.com/custodia-labs/cannibal-cli/internal/watcher"
)

var (
	analyzeSQLite      string
	analyzeTable       string
	analyzeGSCSite     string
	analyzeStart       string
	analyzeEnd         string
	analyzeThreshold   float64
	analyzeMinQueries  int
	analyzeWeights     string
	analyzeWorkers     int
	analyzeMetrics     bool
	analyzeLang        string
	analyzeSkipInvalid bool
	analyzeFormat      string
	analyzeOutput      string
	analyzeWatch       bool
	analyzeInteractive bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.csv]",
	Short: "Detect keyword cannibalization",
	Long: `Analyse search console data for pages competing on the same queries.

Records come from a CSV export by default. Use --sqlite with --table to read
a SQLite table, or --gsc-site with --start and --end to query the Search
Console API directly.

Flags override the stored settings for this run only.

Examples:
  cannibal analyze export.csv
  cannibal analyze export.csv --threshold 0.5 --metrics --format json -o report.json
  cannibal analyze --sqlite gsc.db --table queries --weights 0.4,0.2,0.2,0.2
  cannibal analyze --gsc-site sc-domain:example.com --start 2026-09-01 --end 2026-09-30
  cannibal analyze export.csv --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeSQLite, "sqlite", "", "read records from a SQLite database")
	f.StringVar(&analyzeTable, "table", "", "SQLite table holding the records")
	f.StringVar(&analyzeGSCSite, "gsc-site", "", "Search Console property to query")
	f.StringVar(&analyzeStart, "start", "", "first day of the Search Console query (YYYY-MM-DD)")
	f.StringVar(&analyzeEnd, "end", "", "last day of the Search Console query (YYYY-MM-DD)")
	f.Float64VarP(&analyzeThreshold, "threshold", "t", 0, "share of queries another page must rank for (0-1)")
	f.IntVar(&analyzeMinQueries, "min-queries", 0, "minimum distinct queries for a page to be analysed")
	f.StringVar(&analyzeWeights, "weights", "", "factor weights: intent,position,traffic,keywords")
	f.IntVar(&analyzeWorkers, "workers", 0, "goroutines scanning pages")
	f.BoolVar(&analyzeMetrics, "metrics", false, "estimate clicks and impressions lost to the best competitor")
	f.StringVar(&analyzeLang, "lang", "", "vocabulary and recommendation language (pt-BR, en)")
	f.BoolVar(&analyzeSkipInvalid, "skip-invalid", false, "skip rows with unparseable numbers")
	f.StringVarP(&analyzeFormat, "format", "f", "", "output format: table, json, yaml or csv")
	f.StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file or directory")
	f.BoolVarP(&analyzeWatch, "watch", "w", false, "re-run when the input file changes")
	f.BoolVarP(&analyzeInteractive, "interactive", "i", false, "browse the results in the terminal UI")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	settings := currentSettings()

	spec, err := buildSourceSpec(args, settings)
	if err != nil {
		return err
	}
	opts, err := buildAnalysisOptions(cmd, settings)
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, settings)
	if err != nil {
		return err
	}

	if analyzeInteractive && analyzeWatch {
		return errors.New("--interactive and --watch cannot be combined")
	}
	if analyzeWatch && spec.Kind == domain.SourceSearchConsole {
		return errors.New("--watch needs a CSV or SQLite source")
	}

	if analyzeInteractive {
		if !stdoutIsTerminal() {
			return errors.New("--interactive needs a terminal")
		}
		return runInteractive(cmd, spec, opts, nil)
	}

	ctx := cmd.Context()
	report, err := analyzeOnce(ctx, spec, opts)
	if err != nil {
		return err
	}
	if err := emitReport(cmd, report, format); err != nil {
		return err
	}

	if !analyzeWatch {
		return nil
	}
	return watchSource(cmd, spec, opts, format)
}

func analyzeOnce(ctx context.Context, spec domain.SourceSpec, opts domain.AnalysisOptions) (*domain.AnalysisReport, error) {
	report, err := analysisService.AnalyzeSource(ctx, spec, opts)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return report, nil
}

// currentSettings returns the stored settings, or defaults when none can be read.
func currentSettings() domain.AppSettings {
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err == nil && settings != nil {
			return *settings
		}
		logger.Warn("using default settings: %v", err)
	}
	return domain.DefaultAppSettings()
}

func buildSourceSpec(args []string, settings domain.AppSettings) (domain.SourceSpec, error) {
	spec := domain.SourceSpec{
		SkipInvalid: settings.Import.SkipInvalid || analyzeSkipInvalid,
	}

	sources := 0
	if len(args) > 0 {
		sources++
	}
	if analyzeSQLite != "" {
		sources++
	}
	if analyzeGSCSite != "" {
		sources++
	}
	switch {
	case sources == 0:
		return spec, errors.New("no input: pass a CSV file, --sqlite or --gsc-site")
	case sources > 1:
		return spec, errors.New("choose one input: a CSV file, --sqlite or --gsc-site")
	}

	switch {
	case analyzeSQLite != "":
		if analyzeTable == "" {
			return spec, errors.New("--sqlite requires --table")
		}
		spec.Kind = domain.SourceSQLite
		spec.Path = analyzeSQLite
		spec.Table = analyzeTable
	case analyzeGSCSite != "":
		if analyzeStart == "" || analyzeEnd == "" {
			return spec, errors.New("--gsc-site requires --start and --end")
		}
		spec.Kind = domain.SourceSearchConsole
		spec.SiteURL = analyzeGSCSite
		spec.StartDate = analyzeStart
		spec.EndDate = analyzeEnd
	default:
		spec.Kind = domain.SourceCSV
		spec.Path = args[0]
	}

	if analyzeTable != "" && spec.Kind != domain.SourceSQLite {
		return spec, errors.New("--table is only valid with --sqlite")
	}
	return spec, nil
}

func buildAnalysisOptions(cmd *cobra.Command, settings domain.AppSettings) (domain.AnalysisOptions, error) {
	opts := settings.AnalysisOptions()
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		opts.SimilarityThreshold = analyzeThreshold
	}
	if flags.Changed("min-queries") {
		opts.Config.MinQueries = analyzeMinQueries
	}
	if flags.Changed("weights") {
		weights, err := parseWeights(analyzeWeights)
		if err != nil {
			return opts, err
		}
		opts.Config.Weights = weights
	}
	if flags.Changed("workers") {
		opts.Workers = analyzeWorkers
	}
	if flags.Changed("metrics") {
		opts.ComputeMetrics = analyzeMetrics
	}
	if flags.Changed("lang") {
		opts.Language = domain.Language(analyzeLang)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseWeights reads four comma separated weights in factor order.
func parseWeights(s string) (domain.Weights, error) {
	parts := strings.Split(s, ",")
	factors := domain.AllFactors()
	if len(parts) != len(factors) {
		return domain.Weights{}, fmt.Errorf("%w: --weights expects %d values, got %d",
			domain.ErrInvalidInput, len(factors), len(parts))
	}

	var w domain.Weights
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.Weights{}, fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidInput, part)
		}
		if v < 0 {
			return domain.Weights{}, fmt.Errorf("%w: weight %v is negative", domain.ErrInvalidInput, v)
		}
		w = w.With(factors[i], v)
	}
	if w.Sum() <= 0 {
		return domain.Weights{}, fmt.Errorf("%w: weights must not all be zero", domain.ErrInvalidInput)
	}
	return w, nil
}

func resolveFormat(cmd *cobra.Command, settings domain.AppSettings) (domain.OutputFormat, error) {
	format := settings.Output.Format
	if cmd.Flags().Changed("format") {
		format = domain.OutputFormat(analyzeFormat)
	}
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return format, nil
}

// emitReport writes report to --output, or to stdout when no path was given.
func emitReport(cmd *cobra.Command, report *domain.AnalysisReport, format domain.OutputFormat) error {
	if analyzeOutput == "" {
		return writeReport(cmd.OutOrStdout(), report, format)
	}

	path := analyzeOutput
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.DefaultFilename(format, report.GeneratedAt))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeReport(file, report, format); err != nil {
		file.Close() //nolint:errcheck
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	cmd.Printf("Wrote %d competing pages to %s\n", len(report.Results), path)
	return nil
}

func writeReport(w io.Writer, report *domain.AnalysisReport, format domain.OutputFormat) error {
	if format == domain.OutputTable {
		return renderTable(w, report)
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, report); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return nil
}

// watchSource re-runs the analysis whenever the source file changes,
// until interrupted.
func watchSource(cmd *cobra.Command, spec domain.SourceSpec, opts domain.AnalysisOptions, format domain.OutputFormat) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var mu sync.Mutex
	rerun := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		logger.Info("%s changed, re-running analysis", path)
		report, err := analyzeOnce(ctx, spec, opts)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			return
		}
		cmd.Printf("\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		if err := emitReport(cmd, report, format); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	}

	w, err := watcher.New(rerun, watcher.WithErrorHandler(func(err error) {
		logger.Warn("watch error: %v", err)
	}))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := w.Add(spec.Path); err != nil {
		w.Close() //nolint:errcheck
		return fmt.Errorf("failed to watch %s: %w", spec.Path, err)
	}

	cmd.PrintErrf("Watching %s for changes (ctrl+c to stop)\n", strings.Join(w.Files(), ", "))
	return w.Run(ctx)
}
