package domain

import "time"

// AnalysisRecord wraps the full analysis of a single document: its creative
// features, predicted outcomes, the composition of its campaign at analysis
// time, and a confidence score. One record is persisted per document; the
// orchestrator exclusively owns its lifecycle.
type AnalysisRecord struct {
	// DocumentID links to the analysed CampaignDocument.
	DocumentID string

	// Features are the derived creative-feature flags.
	Features CreativeFeatureSet

	// Outcomes are the predicted business-outcome flags.
	Outcomes BusinessOutcomeSet

	// Composition is the campaign composition embedded at analysis time.
	Composition CampaignComposition

	// Confidence is a deterministic score in [0, 1] reflecting how much
	// signal backed the analysis.
	Confidence float64

	// AnalyzedAt is when the analysis ran.
	AnalyzedAt time.Time
}
