package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRecords indicates an import produced no usable rows.
	// This is an ingestion failure, distinct from an analysis that
	// finds no cannibalization.
	ErrNoRecords = errors.New("no valid records")

	// Import Errors.

	// ErrMissingColumns indicates a CSV export lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvalidRow indicates a row with unparseable clicks, impressions or position.
	ErrInvalidRow = errors.New("invalid row")

	// ErrUnsupportedSource indicates an unknown record source kind.
	ErrUnsupportedSource = errors.New("unsupported source")

	// Output Errors.

	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Intent Errors.

	// ErrUnknownLanguage indicates no vocabulary is registered for a language.
	ErrUnknownLanguage = errors.New("unknown language")
)
