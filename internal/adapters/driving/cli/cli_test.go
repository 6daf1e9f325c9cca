package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/services"
)

const tenisCSV = `Landing Page,Query,Clicks,Impressions,CTR,Position
https://loja.com/p1,comprar tenis,100,1000,10%,3
https://loja.com/p1,tenis preço,100,1000,10%,3
https://loja.com/p1,tenis barato,100,1000,10%,3
https://loja.com/p2,comprar tenis,40,500,8%,5
https://loja.com/p2,tenis preço,30,500,6%,5
https://loja.com/p2,melhor tenis,30,500,6%,5
`

// mockAnalysisService records the last request and returns a fixed report.
type mockAnalysisService struct {
	gotSpec domain.SourceSpec
	gotOpts domain.AnalysisOptions
	calls   int
	report  *domain.AnalysisReport
	err     error
}

func (m *mockAnalysisService) Analyze(
	_ context.Context, _ []domain.RawRecord, opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	m.calls++
	m.gotOpts = opts
	return m.report, m.err
}

func (m *mockAnalysisService) AnalyzeSource(
	_ context.Context, spec domain.SourceSpec, opts domain.AnalysisOptions,
) (*domain.AnalysisReport, error) {
	m.calls++
	m.gotSpec = spec
	m.gotOpts = opts
	if m.report == nil && m.err == nil {
		return &domain.AnalysisReport{Options: opts, Results: []domain.AnalysisResult{}}, nil
	}
	return m.report, m.err
}

// useServices installs services for one test and restores the previous ones.
func useServices(t *testing.T, analysis *mockAnalysisService) *services.SettingsService {
	t.Helper()
	oldAnalysis, oldIntent, oldSettings := analysisService, intentService, settingsService

	intents := services.NewDefaultIntentRegistry()
	settings := services.NewSettingsService(memory.NewConfigStore(), intents)
	if analysis != nil {
		SetServices(analysis, intents, settings)
	} else {
		SetServices(services.NewAnalysisService(intents, source.NewFactory(domain.SearchConsoleSettings{}, "")), intents, settings)
	}

	t.Cleanup(func() {
		analysisService, intentService, settingsService = oldAnalysis, oldIntent, oldSettings
	})
	return settings
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue) //nolint:errcheck
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
