// Package file provides the TOML configuration store.
//
// Settings live in ~/.cannibal/config.toml as nested tables:
//
//	[analysis]
//	similarity_threshold = 0.7
//	min_queries = 3
//
//	[analysis.weights]
//	intent_conflict = 0.3
//
// and are addressed with dotted keys such as "analysis.weights.intent_conflict".
package file
