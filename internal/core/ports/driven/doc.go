// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordSource: Yields search console performance records (CSV, SQLite, API)
//   - RecordSourceFactory: Opens a RecordSource from a domain.SourceSpec
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ResultExporter: Writes analysis reports (CSV, JSON, YAML). The CLI
//     falls back to a terminal table when no exporter matches.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
