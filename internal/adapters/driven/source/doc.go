// Package source opens record sources by kind.
//
// Sources:
//   - csvsource: search console / Looker Studio CSV exports
//   - sqlitesource: a table in a SQLite database
//   - searchconsole: the Search Console Search Analytics API
package source
