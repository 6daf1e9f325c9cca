// Package searchconsole reads performance records from the Google Search
// Console Search Analytics API, grouped by page and query.
package searchconsole

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sc "google.golang.org/api/searchconsole/v1"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// MaxRowLimit is the largest page size the API accepts.
const MaxRowLimit = 25000

// maxRetries bounds retries of rate limited requests.
const maxRetries = 3

// Querier runs one Search Analytics query.
type Querier interface {
	Query(ctx context.Context, siteURL string, req *sc.SearchAnalyticsQueryRequest) (*sc.SearchAnalyticsQueryResponse, error)
}

// Config selects the property, the date range and the credentials.
type Config struct {
	// SiteURL is the property, e.g. "https://example.com/" or "sc-domain:example.com".
	SiteURL string

	// StartDate and EndDate are inclusive, formatted YYYY-MM-DD.
	StartDate string
	EndDate   string

	// RowLimit is the page size. Zero or values above MaxRowLimit use MaxRowLimit.
	RowLimit int

	// CredentialsFile is a service account or authorised user JSON file.
	CredentialsFile string

	// AccessToken is a ready OAuth access token. It takes precedence over
	// CredentialsFile. Both empty means application default credentials.
	AccessToken string
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("%w: search console site URL is required", domain.ErrInvalidInput)
	}
	if c.StartDate == "" || c.EndDate == "" {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}
	return nil
}

// Source pages through Search Analytics rows.
type Source struct {
	cfg     Config
	querier Querier
	limiter *RateLimiter
}

// New creates a source backed by the Search Console API.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ts, err := tokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := sc.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create search console service: %w", err)
	}

	return NewWithQuerier(cfg, &serviceQuerier{svc: svc}, NewRateLimiter(DefaultRateLimit)), nil
}

// NewWithQuerier creates a source with a custom querier and limiter.
func NewWithQuerier(cfg Config, querier Querier, limiter *RateLimiter) *Source {
	return &Source{cfg: cfg, querier: querier, limiter: limiter}
}

// Kind returns the source kind identifier.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceSearchConsole
}

// Records fetches every page/query row of the date range.
func (s *Source) Records(ctx context.Context) ([]domain.RawRecord, error) {
	rowLimit := s.cfg.RowLimit
	if rowLimit <= 0 || rowLimit > MaxRowLimit {
		rowLimit = MaxRowLimit
	}

	var records []domain.RawRecord
	for startRow := 0; ; startRow += rowLimit {
		req := &sc.SearchAnalyticsQueryRequest{
			StartDate:  s.cfg.StartDate,
			EndDate:    s.cfg.EndDate,
			Dimensions: []string{"page", "query"},
			RowLimit:   int64(rowLimit),
			StartRow:   int64(startRow),
		}

		resp, err := s.query(ctx, req)
		if err != nil {
			return nil, err
		}
		logger.Debug("Search Analytics rows %d..%d: %d", startRow, startRow+rowLimit, len(resp.Rows))

		for _, row := range resp.Rows {
			if len(row.Keys) < 2 {
				continue
			}
			record := domain.RawRecord{
				LandingPage: row.Keys[0],
				Query:       row.Keys[1],
				Clicks:      int(row.Clicks),
				Impressions: int(row.Impressions),
				Position:    row.Position,
			}
			if record.IsAnalysable() {
				records = append(records, record)
			}
		}

		if len(resp.Rows) < rowLimit {
			break
		}
	}

	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}
	return records, nil
}

// Close releases resources. The API client holds none.
func (s *Source) Close() error {
	return nil
}

func (s *Source) query(ctx context.Context, req *sc.SearchAnalyticsQueryRequest) (*sc.SearchAnalyticsQueryResponse, error) {
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.querier.Query(ctx, s.cfg.SiteURL, req)
		if err == nil {
			return resp, nil
		}
		if !IsRateLimited(err) || attempt >= maxRetries {
			return nil, fmt.Errorf("search analytics query: %w", WrapError(err))
		}

		logger.Warn("Search Console rate limited, backing off (attempt %d)", attempt+1)
		s.limiter.RecordRateLimitError(retryAfter(err))
	}
}

// tokenSource resolves credentials in order: access token, credentials
// file, application default credentials.
func tokenSource(ctx context.Context, cfg Config) (oauth2.TokenSource, error) {
	if cfg.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}), nil
	}

	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sc.WebmastersReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, sc.WebmastersReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// serviceQuerier runs queries through the generated API client.
type serviceQuerier struct {
	svc *sc.Service
}

func (q *serviceQuerier) Query(
	ctx context.Context, siteURL string, req *sc.SearchAnalyticsQueryRequest,
) (*sc.SearchAnalyticsQueryResponse, error) {
	return q.svc.Searchanalytics.Query(siteURL, req).Context(ctx).Do()
}
