// Package csvsource reads performance records from a CSV export.
package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Column names every export must carry. CTR is required but unused.
const (
	ColumnLandingPage = "Landing Page"
	ColumnQuery       = "Query"
	ColumnClicks      = "Clicks"
	ColumnImpressions = "Impressions"
	ColumnCTR         = "CTR"
	ColumnPosition    = "Position"
)

// RequiredColumns returns the header names a CSV export must contain.
func RequiredColumns() []string {
	return []string{ColumnLandingPage, ColumnQuery, ColumnClicks, ColumnImpressions, ColumnCTR, ColumnPosition}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls row validation.
type Options struct {
	// SkipInvalid drops rows with unparseable numbers instead of failing.
	SkipInvalid bool
}

// Source reads records from a CSV reader.
type Source struct {
	r       io.Reader
	closer  io.Closer
	opts    Options
	skipped int
}

// Open opens a CSV file.
func Open(path string, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	return &Source{r: f, closer: f, opts: opts}, nil
}

// New reads CSV data from r. The caller keeps ownership of r.
func New(r io.Reader, opts Options) *Source {
	return &Source{r: r, opts: opts}
}

// Kind returns the source kind identifier.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceCSV
}

// Skipped returns how many rows were dropped for invalid numbers.
func (s *Source) Skipped() int {
	return s.skipped
}

// Records parses every row.
// Rows whose landing page is empty or contains "#" are filtered out.
func (s *Source) Records(ctx context.Context) ([]domain.RawRecord, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoRecords
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord
	s.skipped = 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		record, ok, err := s.parseRow(line, row, columns)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}

	if s.skipped > 0 {
		logger.Warn("Skipped %d rows with invalid numbers", s.skipped)
	}
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	return records, nil
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Source) parseRow(line int, row []string, columns map[string]int) (domain.RawRecord, bool, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	page := field(ColumnLandingPage)
	record := domain.RawRecord{LandingPage: page, Query: field(ColumnQuery)}
	if !record.IsAnalysable() {
		return record, false, nil
	}

	clicks, okC := leadingInt(field(ColumnClicks))
	impressions, okI := leadingInt(field(ColumnImpressions))
	position, okP := leadingFloat(field(ColumnPosition))
	if !okC || !okI || !okP {
		if s.opts.SkipInvalid {
			s.skipped++
			logger.Debug("Skipping row with invalid numbers: %s", page)
			return record, false, nil
		}
		return record, false, fmt.Errorf("%w on line %d with URL %s", domain.ErrInvalidRow, line, page)
	}

	record.Clicks = clicks
	record.Impressions = impressions
	record.Position = position
	return record, true, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	return columns, nil
}

func isBlank(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}
