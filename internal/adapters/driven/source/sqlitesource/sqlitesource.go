// Package sqlitesource reads performance records from a SQLite table.
//
// The table needs landing page, query, clicks, impressions and position
// columns, named either like the CSV export ("Landing Page", "Clicks")
// or in snake case (landing_page, clicks). Extra columns are ignored.
package sqlitesource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// DefaultTable is read when no table is given.
const DefaultTable = "search_performance"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// columnAliases maps each field to the column names it may be stored under.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"landing_page", []string{"landing_page", "Landing Page", "page", "url"}},
	{"query", []string{"query", "Query"}},
	{"clicks", []string{"clicks", "Clicks"}},
	{"impressions", []string{"impressions", "Impressions"}},
	{"position", []string{"position", "Position"}},
}

// Source reads records from one table.
type Source struct {
	db    *sql.DB
	table string
}

// Open opens the database at path read-only.
func Open(path, table string) (*Source, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", domain.ErrInvalidInput, table)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Source{db: db, table: table}, nil
}

// Kind returns the source kind identifier.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceSQLite
}

// Records reads every analysable row of the table.
func (s *Source) Records(ctx context.Context) ([]domain.RawRecord, error) {
	columns, err := s.resolveColumns(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s FROM %s",
		quote(columns["landing_page"]),
		quote(columns["query"]),
		quote(columns["clicks"]),
		quote(columns["impressions"]),
		quote(columns["position"]),
		quote(s.table),
	)
	logger.Debug("SQLite query: %s", query)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []domain.RawRecord
	for rows.Next() {
		var (
			page, q             sql.NullString
			clicks, impressions sql.NullInt64
			position            sql.NullFloat64
		)
		if err := rows.Scan(&page, &q, &clicks, &impressions, &position); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}

		record := domain.RawRecord{LandingPage: page.String, Query: q.String}
		if !record.IsAnalysable() {
			continue
		}
		if !clicks.Valid || !impressions.Valid || !position.Valid {
			return nil, fmt.Errorf("%w: null metric for URL %s", domain.ErrInvalidRow, record.LandingPage)
		}

		record.Clicks = int(clicks.Int64)
		record.Impressions = int(impressions.Int64)
		record.Position = position.Float64
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}
	return records, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	return s.db.Close()
}

// resolveColumns maps each field to the table's actual column name.
func (s *Source) resolveColumns(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(s.table)))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", s.table, err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", s.table, err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", s.table, err)
	}
	if len(present) == 0 {
		return nil, fmt.Errorf("%w: table %s", domain.ErrNotFound, s.table)
	}

	resolved := make(map[string]string, len(columnAliases))
	var missing []string
	for _, c := range columnAliases {
		for _, alias := range c.aliases {
			if present[alias] {
				resolved[c.field] = alias
				break
			}
		}
		if _, ok := resolved[c.field]; !ok {
			missing = append(missing, c.field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return resolved, nil
}

// quote quotes an SQL identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
