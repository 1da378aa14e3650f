package driving

import (
	"context"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// InsightEngine answers natural-language questions against the indexed
// corpus via retrieval-augmented generation.
type InsightEngine interface {
	// QueryCampaignInsights embeds the question, retrieves the nearest
	// chunks under the filters, and synthesises an answer with attribution.
	// Zero retrieved chunks yield an explicit no-evidence result without
	// invoking the completion service.
	QueryCampaignInsights(ctx context.Context, question string, filters domain.InsightFilters, limit int) (*domain.InsightResult, error)
}
