package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/chunker"
	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
)

// fakeSource serves a fixed asset list.
type fakeSource struct {
	assets []domain.RawAsset
	err    error
}

func (f *fakeSource) ListAssets(_ context.Context, _ string) ([]domain.RawAsset, error) {
	return f.assets, f.err
}

func (f *fakeSource) Watch(_ context.Context, _ string) (<-chan driven.AssetEvent, error) {
	ch := make(chan driven.AssetEvent)
	close(ch)
	return ch, nil
}

func (f *fakeSource) Close() error { return nil }

// fakeStore records saves in memory and can fail on demand.
type fakeStore struct {
	mu       sync.Mutex
	saved    map[string]savedAnalysis
	failFor  map[string]int // document ID -> remaining failures
	saveHook func(doc *domain.CampaignDocument)
}

type savedAnalysis struct {
	doc    domain.CampaignDocument
	record domain.AnalysisRecord
	chunks []domain.TextChunk
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		saved:   make(map[string]savedAnalysis),
		failFor: make(map[string]int),
	}
}

func (f *fakeStore) SaveDocumentAnalysis(_ context.Context, doc *domain.CampaignDocument, record *domain.AnalysisRecord, chunks []domain.TextChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveHook != nil {
		f.saveHook(doc)
	}
	if remaining := f.failFor[doc.ID]; remaining > 0 {
		f.failFor[doc.ID] = remaining - 1
		return fmt.Errorf("%w: disk full", domain.ErrPersistenceFailure)
	}
	f.saved[doc.ID] = savedAnalysis{doc: *doc, record: *record, chunks: chunks}
	return nil
}

func (f *fakeStore) FindSimilarChunks(_ context.Context, _ []float32, _ domain.InsightFilters, _ int) ([]domain.RetrievedSource, error) {
	return nil, nil
}

func (f *fakeStore) ListAnalyses(_ context.Context, _ domain.InsightFilters) ([]domain.AnalysisRecord, error) {
	return nil, nil
}

func (f *fakeStore) GetDocument(_ context.Context, id string) (*domain.CampaignDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.saved[id]; ok {
		doc := s.doc
		return &doc, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStore) ListDocuments(_ context.Context, _ string) ([]domain.CampaignDocument, error) {
	return nil, nil
}

func (f *fakeStore) DeleteDocument(_ context.Context, _ string) error { return nil }

func (f *fakeStore) Close() error { return nil }

// fakeEmbedder returns fixed-size vectors and can fail a number of times.
type fakeEmbedder struct {
	mu        sync.Mutex
	calls     int
	failTimes int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failTimes > 0 {
		f.failTimes--
		return nil, fmt.Errorf("%w: 503", domain.ErrUpstreamUnavailable)
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 3 }
func (f *fakeEmbedder) ModelName() string { return "fake-embedding" }
func (f *fakeEmbedder) Close() error      { return nil }

func testChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	c, err := chunker.New(100, 20)
	require.NoError(t, err)
	return c
}

func testProcessor(t *testing.T, source driven.AssetSource, store driven.AnalysisStore, embedder driven.EmbeddingService) *Processor {
	t.Helper()
	p, err := NewProcessor(source, store, embedder, testChunker(t), ProcessorConfig{
		Concurrency:      2,
		UpstreamAttempts: 3,
		RetryBaseDelay:   time.Millisecond,
	})
	require.NoError(t, err)
	return p
}

func testAssets() []domain.RawAsset {
	now := time.Now().UTC()
	return []domain.RawAsset{
		{ID: "a1", Filename: "brand_launch_video1.mp4", MIMEType: "video/mp4", Path: "brand_launch_video1.mp4", CreatedAt: now, ModifiedAt: now},
		{ID: "a2", Filename: "brand_launch_hero.jpg", MIMEType: "image/jpeg", Path: "brand_launch_hero.jpg", CreatedAt: now, ModifiedAt: now},
		{ID: "a3", Filename: "brand_launch_deck.pptx", MIMEType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Path: "brand_launch_deck.pptx", CreatedAt: now, ModifiedAt: now},
		{ID: "a4", Filename: "copy.txt", MIMEType: "text/plain", Path: "holiday_push/copy.txt", Text: "Shop now and save 20%. Limited time only.", CreatedAt: now, ModifiedAt: now},
	}
}

func TestProcessCampaignSource_Completes(t *testing.T) {
	store := newFakeStore()
	p := testProcessor(t, &fakeSource{assets: testAssets()}, store, &fakeEmbedder{})

	summary, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateCompleted, summary.State)
	assert.Equal(t, 4, summary.ProcessedCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Equal(t, 2, summary.CampaignCount)
	assert.NotEmpty(t, summary.RunID)
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
	assert.Len(t, store.saved, 4)
}

func TestProcessCampaignSource_CompositionEmbeddedPerDocument(t *testing.T) {
	store := newFakeStore()
	p := testProcessor(t, &fakeSource{assets: testAssets()}, store, &fakeEmbedder{})

	_, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	// The three flat brand_launch files form one campaign of three kinds.
	comp := store.saved["a1"].record.Composition
	assert.Equal(t, "brand_launch", comp.CampaignName)
	assert.Equal(t, 1, comp.VideoCount)
	assert.Equal(t, 1, comp.ImageCount)
	assert.Equal(t, 1, comp.PresentationCount)
	assert.Equal(t, 3, comp.TotalFiles)
	assert.True(t, comp.StrategicCampaign)
	assert.False(t, comp.VideoHeavy)

	// Every sibling carries the same composition.
	assert.Equal(t, comp, store.saved["a2"].record.Composition)
	assert.Equal(t, comp, store.saved["a3"].record.Composition)
}

func TestProcessCampaignSource_ChunksOnlyForText(t *testing.T) {
	store := newFakeStore()
	p := testProcessor(t, &fakeSource{assets: testAssets()}, store, &fakeEmbedder{})

	_, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	assert.Empty(t, store.saved["a1"].chunks)
	require.NotEmpty(t, store.saved["a4"].chunks)
	for i, chunk := range store.saved["a4"].chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, "a4", chunk.DocumentID)
		assert.Len(t, chunk.Embedding, 3)
	}
}

func TestProcessCampaignSource_PartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failFor["a2"] = 5 // keeps failing past the single retry

	p := testProcessor(t, &fakeSource{assets: testAssets()}, store, &fakeEmbedder{})

	summary, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatePartiallyFailed, summary.State)
	assert.Equal(t, 3, summary.ProcessedCount)
	assert.Equal(t, 1, summary.ErrorCount)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "a2", summary.Errors[0].DocumentID)
	assert.NotContains(t, store.saved, "a2")
}

func TestProcessCampaignSource_PersistenceRetriedOnce(t *testing.T) {
	store := newFakeStore()
	store.failFor["a2"] = 1 // first save fails, retry succeeds

	p := testProcessor(t, &fakeSource{assets: testAssets()}, store, &fakeEmbedder{})

	summary, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateCompleted, summary.State)
	assert.Equal(t, 4, summary.ProcessedCount)
	assert.Contains(t, store.saved, "a2")
}

func TestProcessCampaignSource_UpstreamRetried(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{failTimes: 2}

	p := testProcessor(t, &fakeSource{assets: testAssets()[3:]}, store, embedder)

	summary, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.NoError(t, err)

	assert.Equal(t, domain.RunStateCompleted, summary.State)
	assert.Equal(t, 3, embedder.calls)
}

func TestProcessCampaignSource_SourceFailureAbortsRun(t *testing.T) {
	p := testProcessor(t, &fakeSource{err: errors.New("mount gone")}, newFakeStore(), &fakeEmbedder{})

	_, err := p.ProcessCampaignSource(context.Background(), "/campaigns")
	require.Error(t, err)
}

func TestProcessCampaignSource_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testProcessor(t, &fakeSource{assets: testAssets()}, newFakeStore(), &fakeEmbedder{})

	_, err := p.ProcessCampaignSource(ctx, "/campaigns")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewProcessor_DefaultsApplied(t *testing.T) {
	p, err := NewProcessor(&fakeSource{}, newFakeStore(), &fakeEmbedder{}, testChunker(t), ProcessorConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultProcessorConfig().Concurrency, p.cfg.Concurrency)
	assert.Equal(t, DefaultProcessorConfig().UpstreamAttempts, p.cfg.UpstreamAttempts)
}
