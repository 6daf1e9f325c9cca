package domain

import "fmt"

// SourceKind identifies where performance records are read from.
type SourceKind string

// Supported record sources.
const (
	// SourceCSV reads a search console / Looker Studio CSV export.
	SourceCSV SourceKind = "csv"

	// SourceSQLite reads rows from a SQLite table.
	SourceSQLite SourceKind = "sqlite"

	// SourceSearchConsole queries the Search Console API.
	SourceSearchConsole SourceKind = "searchconsole"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceCSV, SourceSQLite, SourceSearchConsole:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// SourceSpec describes a record source to open.
type SourceSpec struct {
	// Kind selects the source implementation.
	Kind SourceKind

	// Path is the CSV file or SQLite database path.
	Path string

	// Table is the SQLite table name.
	Table string

	// SiteURL is the Search Console property (e.g. "sc-domain:example.com").
	SiteURL string

	// StartDate and EndDate bound the Search Console query (YYYY-MM-DD).
	StartDate string
	EndDate   string

	// SkipInvalid drops unparseable rows instead of failing the import.
	SkipInvalid bool
}

// Describe returns a short human-readable description of the source.
func (s SourceSpec) Describe() string {
	switch s.Kind {
	case SourceCSV:
		return s.Path
	case SourceSQLite:
		return fmt.Sprintf("%s (table %s)", s.Path, s.Table)
	case SourceSearchConsole:
		return fmt.Sprintf("%s %s..%s", s.SiteURL, s.StartDate, s.EndDate)
	default:
		return string(s.Kind)
	}
}
