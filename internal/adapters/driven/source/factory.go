package source

import (
	"context"
	"fmt"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source/csvsource"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source/searchconsole"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source/sqlitesource"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.RecordSourceFactory = (*Factory)(nil)

// SearchConsoleOpener creates a Search Console source. Replaced in tests.
type SearchConsoleOpener func(ctx context.Context, cfg searchconsole.Config) (driven.RecordSource, error)

// Factory opens record sources by kind.
type Factory struct {
	searchConsole     domain.SearchConsoleSettings
	accessToken       string
	openSearchConsole SearchConsoleOpener
}

// NewFactory creates a factory. The settings and access token are only
// used by Search Console sources.
func NewFactory(settings domain.SearchConsoleSettings, accessToken string) *Factory {
	return &Factory{
		searchConsole: settings,
		accessToken:   accessToken,
		openSearchConsole: func(ctx context.Context, cfg searchconsole.Config) (driven.RecordSource, error) {
			src, err := searchconsole.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return src, nil
		},
	}
}

// SetSearchConsoleOpener replaces how Search Console sources are created.
func (f *Factory) SetSearchConsoleOpener(open SearchConsoleOpener) {
	f.openSearchConsole = open
}

// Open creates a source for spec.
func (f *Factory) Open(ctx context.Context, spec domain.SourceSpec) (driven.RecordSource, error) {
	switch spec.Kind {
	case domain.SourceCSV:
		src, err := csvsource.Open(spec.Path, csvsource.Options{SkipInvalid: spec.SkipInvalid})
		if err != nil {
			return nil, err
		}
		return src, nil
	case domain.SourceSQLite:
		src, err := sqlitesource.Open(spec.Path, spec.Table)
		if err != nil {
			return nil, err
		}
		return src, nil
	case domain.SourceSearchConsole:
		return f.openSearchConsole(ctx, searchconsole.Config{
			SiteURL:         spec.SiteURL,
			StartDate:       spec.StartDate,
			EndDate:         spec.EndDate,
			RowLimit:        f.searchConsole.RowLimit,
			CredentialsFile: f.searchConsole.CredentialsFile,
			AccessToken:     f.accessToken,
		})
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, spec.Kind)
	}
}
