package driven

import (
	"context"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// AnalysisStore persists documents, analyses and chunks, and serves
// similarity search. The store has no write authority of its own: it executes
// exactly what the orchestrator instructs, inside a transaction boundary per
// document.
type AnalysisStore interface {
	// SaveDocumentAnalysis persists a document, its analysis record and its
	// chunks in one atomic transaction: the document row is upserted (merge
	// keyed by id, refreshing processed_at), prior analysis and chunk rows
	// are superseded, and the campaign composition row is refreshed. All
	// writes commit together or none do; failures surface
	// domain.ErrPersistenceFailure and the whole call is safe to retry.
	SaveDocumentAnalysis(ctx context.Context, doc *domain.CampaignDocument, record *domain.AnalysisRecord, chunks []domain.TextChunk) error

	// FindSimilarChunks returns up to limit chunks ranked by cosine
	// similarity to the query vector, restricted by the equality filters.
	// Ties break on most recent chunk creation time.
	FindSimilarChunks(ctx context.Context, query []float32, filters domain.InsightFilters, limit int) ([]domain.RetrievedSource, error)

	// ListAnalyses returns analysis records for documents matching the
	// filters, most recent first.
	ListAnalyses(ctx context.Context, filters domain.InsightFilters) ([]domain.AnalysisRecord, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.CampaignDocument, error)

	// ListDocuments returns documents for a campaign, all when empty.
	ListDocuments(ctx context.Context, campaignName string) ([]domain.CampaignDocument, error)

	// DeleteDocument removes a document; analysis and chunk rows cascade.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
