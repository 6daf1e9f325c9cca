package driven

import (
	"context"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// RecordSource yields validated performance records.
// Parsing and row validation happen inside the source; the analysis
// engine only ever sees well-formed records.
type RecordSource interface {
	// Kind returns the source kind identifier.
	Kind() domain.SourceKind

	// Records reads every record. Returns domain.ErrNoRecords when the
	// source holds no usable rows.
	Records(ctx context.Context) ([]domain.RawRecord, error)

	// Close releases resources.
	Close() error
}

// RecordSourceFactory opens record sources.
type RecordSourceFactory interface {
	// Open creates a source for spec.
	// Returns domain.ErrUnsupportedSource for unknown kinds.
	Open(ctx context.Context, spec domain.SourceSpec) (RecordSource, error)
}
