package driven

import (
	"io"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// ResultExporter writes an analysis report in one serialisation format.
type ResultExporter interface {
	// Format returns the output format this exporter writes.
	Format() domain.OutputFormat

	// Export writes the report to w.
	Export(w io.Writer, report *domain.AnalysisReport) error
}
