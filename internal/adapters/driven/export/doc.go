// Package export writes analysis reports as CSV, JSON or YAML.
//
// The CSV layout matches the spreadsheet export users already consume:
// one row per competing page, list fields joined with ", " and
// recommendations joined with "; ".
package export
