// Package domain defines the core business entities for cannibal.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: One search console row (page, query, clicks, impressions, position)
//   - PageSummary: Per landing page aggregate, frozen before comparison
//   - Intent: Search intent category assigned to a query
//   - AnalysisResult: A page that competes with other pages for the same queries
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
