package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driving"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

var _ driving.InsightEngine = (*Insights)(nil)

// DefaultRetrievalLimit is the chunk count used when the caller passes a
// non-positive limit.
const DefaultRetrievalLimit = 8

// insightSystemPrompt frames the completion model as an analyst working only
// from the supplied excerpts.
const insightSystemPrompt = `You are a marketing campaign analyst. Answer the question using only the campaign excerpts provided. Cite the campaign and file a claim comes from. If the excerpts do not contain the answer, say so plainly.`

// noEvidenceAnswer is returned without any completion call when retrieval
// finds nothing.
const noEvidenceAnswer = "No indexed campaign material matched this question. Process more campaigns or broaden the filters."

// InsightConfig tunes the retrieval engine.
type InsightConfig struct {
	// UpstreamAttempts is the total number of tries for embedding and
	// completion calls.
	UpstreamAttempts int

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration
}

// Insights answers natural-language questions about processed campaigns by
// retrieving similar chunks and grounding a completion call in them.
type Insights struct {
	store     driven.AnalysisStore
	embedder  driven.EmbeddingService
	completer driven.CompletionService
	cfg       InsightConfig
}

// NewInsights creates an insight engine.
func NewInsights(store driven.AnalysisStore, embedder driven.EmbeddingService, completer driven.CompletionService, cfg InsightConfig) *Insights {
	if cfg.UpstreamAttempts <= 0 {
		cfg.UpstreamAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	return &Insights{
		store:     store,
		embedder:  embedder,
		completer: completer,
		cfg:       cfg,
	}
}

// QueryCampaignInsights embeds the question, retrieves the most similar
// chunks subject to the filters, and asks the completion service for an
// answer grounded in them. Zero retrieved chunks short-circuits to a fixed
// no-evidence answer without consuming a completion call.
func (s *Insights) QueryCampaignInsights(ctx context.Context, question string, filters domain.InsightFilters, limit int) (*domain.InsightResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}

	logger.Section("Campaign Insights")
	logger.Debug("Question: %s (limit %d, campaign=%q client=%q)", question, limit, filters.CampaignName, filters.ClientName)

	var queryVec []float32
	err := withBackoff(ctx, s.cfg.UpstreamAttempts, s.cfg.RetryBaseDelay, func() error {
		var embedErr error
		queryVec, embedErr = s.embedder.Embed(ctx, question)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	sources, err := s.store.FindSimilarChunks(ctx, queryVec, filters, limit)
	if err != nil {
		return nil, fmt.Errorf("find similar chunks: %w", err)
	}
	logger.Info("Retrieved %d chunks", len(sources))

	analyses, err := s.store.ListAnalyses(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	if len(sources) == 0 {
		return &domain.InsightResult{
			Answer:     noEvidenceAnswer,
			NoEvidence: true,
			Analyses:   analyses,
		}, nil
	}

	contextText := assembleContext(sources)

	var answer string
	err = withBackoff(ctx, s.cfg.UpstreamAttempts, s.cfg.RetryBaseDelay, func() error {
		var completeErr error
		answer, completeErr = s.completer.Complete(ctx, insightSystemPrompt, contextText, question)
		return completeErr
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.InsightResult{
		Answer:   answer,
		Sources:  sources,
		Analyses: analyses,
	}, nil
}

// assembleContext concatenates retrieved chunks in similarity order, each
// under a header naming its file and campaign so the model can cite them.
func assembleContext(sources []domain.RetrievedSource) string {
	var b strings.Builder
	for i, src := range sources {
		if i > 0 {
			b.WriteString("\n\n")
		}
		campaign := src.Document.CampaignName
		if src.Document.ClientName != "" {
			campaign = src.Document.ClientName + " / " + campaign
		}
		fmt.Fprintf(&b, "### %s (campaign: %s)\n%s", src.Document.Filename, campaign, src.Chunk.Content)
	}
	return b.String()
}
