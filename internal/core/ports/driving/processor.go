// Package driving provides interfaces exposed to callers (primary/inbound ports).
package driving

import (
	"context"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// CampaignProcessor ingests a campaign asset collection: grouping, analysis,
// chunking, embedding and persistence.
type CampaignProcessor interface {
	// ProcessCampaignSource processes every asset under the collection
	// reference and returns a structured summary. Per-document failures are
	// reported in the summary, never as an error; the error return covers
	// whole-run failures only (source unreachable, cancelled context).
	ProcessCampaignSource(ctx context.Context, collectionRef string) (*domain.ProcessSummary, error)
}
