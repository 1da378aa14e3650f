package domain

// InsightFilters narrows retrieval and analysis lookups. Empty fields match
// everything; non-empty fields are equality filters.
type InsightFilters struct {
	// CampaignName filters to a single campaign.
	CampaignName string

	// ClientName filters to a single client.
	ClientName string
}

// RetrievedSource is one ranked similarity hit with its parent document,
// returned for attribution alongside a generated answer.
type RetrievedSource struct {
	// Document is the parent of the matched chunk.
	Document CampaignDocument

	// Chunk is the matched chunk.
	Chunk TextChunk

	// Similarity is the cosine similarity to the query vector.
	Similarity float64
}

// InsightResult is the answer to a natural-language question over the
// indexed corpus.
type InsightResult struct {
	// Answer is the generated answer, or the canned no-evidence response.
	Answer string

	// NoEvidence is true when zero chunks matched and the completion
	// service was never invoked.
	NoEvidence bool

	// Sources are the retrieved chunks grounding the answer, ranked.
	Sources []RetrievedSource

	// Analyses are the AnalysisRecords matching the same filters, returned
	// separately for cross-referencing.
	Analyses []AnalysisRecord
}
