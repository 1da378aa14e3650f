package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightline-labs/campaigniq/internal/chunker"
	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driving"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

// Ensure Processor implements the interface.
var _ driving.CampaignProcessor = (*Processor)(nil)

// ProcessorConfig tunes the orchestrator.
type ProcessorConfig struct {
	// Concurrency bounds the document worker pool. External embedding
	// services rate-limit, so keep this modest.
	Concurrency int

	// UpstreamAttempts is the total number of tries for embedding calls.
	UpstreamAttempts int

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration
}

// DefaultProcessorConfig returns sensible defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Concurrency:      4,
		UpstreamAttempts: 3,
		RetryBaseDelay:   500 * time.Millisecond,
	}
}

// Processor orchestrates a processing run: group assets into campaigns, run
// per-document analysis, chunk and embed text, and persist each document in
// its own transaction. It exclusively owns AnalysisRecord and TextChunk
// lifecycles; all collaborators are injected at construction.
type Processor struct {
	source    driven.AssetSource
	store     driven.AnalysisStore
	embedder  driven.EmbeddingService
	chunks    *chunker.Chunker
	extractor *FeatureExtractor
	predictor *OutcomePredictor
	analyzer  *CompositionAnalyzer
	cfg       ProcessorConfig
}

// NewProcessor creates a processor. The rule tables are validated against
// their vocabularies here; a mismatch is fatal at startup, never tolerated.
func NewProcessor(
	source driven.AssetSource,
	store driven.AnalysisStore,
	embedder driven.EmbeddingService,
	chunks *chunker.Chunker,
	cfg ProcessorConfig,
) (*Processor, error) {
	if err := ValidateFeatureVocabulary(); err != nil {
		return nil, fmt.Errorf("validate feature vocabulary: %w", err)
	}
	if err := ValidateOutcomeVocabulary(); err != nil {
		return nil, fmt.Errorf("validate outcome vocabulary: %w", err)
	}

	def := DefaultProcessorConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.UpstreamAttempts <= 0 {
		cfg.UpstreamAttempts = def.UpstreamAttempts
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = def.RetryBaseDelay
	}

	return &Processor{
		source:    source,
		store:     store,
		embedder:  embedder,
		chunks:    chunks,
		extractor: NewFeatureExtractor(),
		predictor: NewOutcomePredictor(),
		analyzer:  NewCompositionAnalyzer(),
		cfg:       cfg,
	}, nil
}

// workItem is one document queued for the worker pool, carrying its group
// context so workers stay pure.
type workItem struct {
	doc         domain.CampaignDocument
	text        string
	siblings    []domain.CampaignDocument
	composition domain.CampaignComposition
}

// ProcessCampaignSource processes every asset under collectionRef.
// Per-document failures are recorded in the summary while the rest of the
// batch continues; the error return covers whole-run failures only.
func (p *Processor) ProcessCampaignSource(ctx context.Context, collectionRef string) (*domain.ProcessSummary, error) {
	summary := &domain.ProcessSummary{
		RunID:     uuid.New().String(),
		State:     domain.RunStateGrouping,
		StartedAt: time.Now().UTC(),
	}

	logger.Section("Processing Run " + summary.RunID)

	assets, err := p.source.ListAssets(ctx, collectionRef)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	logger.Info("Listed %d assets from %s", len(assets), collectionRef)

	// Grouping: classify each asset and partition by derived campaign key.
	texts := make(map[string]string, len(assets))
	docs := make([]domain.CampaignDocument, 0, len(assets))
	for _, asset := range assets {
		doc := classifyAsset(asset)
		docs = append(docs, doc)
		texts[doc.ID] = asset.Text
	}
	groups := GroupByCampaign(docs)
	summary.CampaignCount = len(groups)
	logger.Info("Grouped %d documents into %d campaigns", len(docs), len(groups))

	// Analysis: composition is computed once per group, before any of the
	// group's documents can persist a record embedding it.
	summary.State = domain.RunStateAnalyzing
	items := make([]workItem, 0, len(docs))
	for campaign, group := range groups {
		comp := p.analyzer.Analyze(campaign, group)
		for _, doc := range group {
			items = append(items, workItem{
				doc:         doc,
				text:        texts[doc.ID],
				siblings:    group,
				composition: comp,
			})
		}
	}

	var (
		mu             sync.Mutex
		persistingOnce sync.Once
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			markPersisting := func() {
				persistingOnce.Do(func() {
					mu.Lock()
					summary.State = domain.RunStatePersisting
					mu.Unlock()
				})
			}

			if err := p.processOne(gctx, item, markPersisting); err != nil {
				// Cancellation aborts the run; any other failure is
				// per-document and the batch continues.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warn("Document %s failed: %v", item.doc.Path, err)
				mu.Lock()
				summary.ErrorCount++
				summary.Errors = append(summary.Errors, domain.DocumentError{
					DocumentID: item.doc.ID,
					Path:       item.doc.Path,
					Message:    err.Error(),
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			summary.ProcessedCount++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing run cancelled: %w", err)
	}

	if summary.ErrorCount == 0 {
		summary.State = domain.RunStateCompleted
	} else {
		summary.State = domain.RunStatePartiallyFailed
	}
	summary.FinishedAt = time.Now().UTC()

	logger.Info("Run %s %s: %d processed, %d errors", summary.RunID, summary.State, summary.ProcessedCount, summary.ErrorCount)
	return summary, nil
}

// processOne runs the full pipeline for a single document: analysis,
// chunking, embedding, then one isolated persistence transaction.
func (p *Processor) processOne(ctx context.Context, item workItem, markPersisting func()) error {
	logger.Debug("Analyzing %s", item.doc.Path)

	text := item.text
	features := p.extractor.Extract(item.doc, text, item.siblings)
	outcomes := p.predictor.Predict(item.doc, text, item.siblings, features)

	record := &domain.AnalysisRecord{
		DocumentID:  item.doc.ID,
		Features:    features,
		Outcomes:    outcomes,
		Composition: item.composition,
		Confidence:  confidenceFor(features, outcomes, text != ""),
		AnalyzedAt:  time.Now().UTC(),
	}

	chunks, err := p.embedChunks(ctx, item.doc.ID, text)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	markPersisting()

	doc := item.doc
	doc.ProcessedAt = time.Now().UTC()

	err = p.store.SaveDocumentAnalysis(ctx, &doc, record, chunks)
	if errors.Is(err, domain.ErrPersistenceFailure) && ctx.Err() == nil {
		// Merge semantics make the whole save idempotent, so one retry is
		// safe before recording a permanent failure.
		logger.Warn("Persistence failed for %s, retrying once: %v", doc.Path, err)
		err = p.store.SaveDocumentAnalysis(ctx, &doc, record, chunks)
	}
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	logger.Debug("Persisted %s: %d chunks, confidence %.2f", doc.Path, len(chunks), record.Confidence)
	return nil
}

// embedChunks windows the text and embeds every window in one batch call.
// Empty text yields no chunks. Chunk indices start at 0 with no gaps.
func (p *Processor) embedChunks(ctx context.Context, documentID, text string) ([]domain.TextChunk, error) {
	windows := p.chunks.Chunk(text)
	if len(windows) == 0 {
		return nil, nil
	}

	contents := make([]string, len(windows))
	for i, w := range windows {
		contents[i] = w.Text
	}

	var embeddings [][]float32
	err := withBackoff(ctx, p.cfg.UpstreamAttempts, p.cfg.RetryBaseDelay, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedBatch(ctx, contents)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(windows) {
		return nil, fmt.Errorf("embedding count %d does not match chunk count %d", len(embeddings), len(windows))
	}

	now := time.Now().UTC()
	chunks := make([]domain.TextChunk, len(windows))
	for i, w := range windows {
		chunks[i] = domain.TextChunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    w.Text,
			Index:      i,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
	}

	return chunks, nil
}

// classifyAsset turns a raw asset into a CampaignDocument: file-kind
// classification plus campaign-key derivation.
func classifyAsset(asset domain.RawAsset) domain.CampaignDocument {
	client, campaign := DeriveCampaignKey(asset.Path)
	return domain.CampaignDocument{
		ID:           asset.ID,
		Filename:     asset.Filename,
		MIMEType:     asset.MIMEType,
		Size:         asset.Size,
		CreatedAt:    asset.CreatedAt,
		ModifiedAt:   asset.ModifiedAt,
		Path:         asset.Path,
		CampaignName: campaign,
		ClientName:   client,
		FileKind:     domain.ClassifyFileKind(asset.MIMEType),
	}
}

// confidenceFor derives a deterministic confidence score from how much
// signal backed the analysis: extracted text contributes most, then the
// number of set flags, capped well below certainty since every input is
// heuristic.
func confidenceFor(features domain.CreativeFeatureSet, outcomes domain.BusinessOutcomeSet, hasText bool) float64 {
	score := 0.35
	if hasText {
		score += 0.25
	}
	score += 0.04 * float64(min(features.Count(), 5))
	score += 0.03 * float64(min(outcomes.Count(), 5))
	if score > 0.95 {
		score = 0.95
	}
	return score
}
