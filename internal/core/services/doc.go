// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The analysis pipeline runs leaf to root:
//
//	records -> Aggregate -> PageIndex -> Detector (ScorePair, CombineScore)
//	        -> RecommendationEngine -> AnalysisReport
//
// Services are pure Go with no CGO dependencies.
package services
