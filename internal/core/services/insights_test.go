package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// retrievalStore serves canned retrieval results over the fakeStore.
type retrievalStore struct {
	*fakeStore
	sources  []domain.RetrievedSource
	analyses []domain.AnalysisRecord
	filters  domain.InsightFilters
	limit    int
}

func (r *retrievalStore) FindSimilarChunks(_ context.Context, _ []float32, filters domain.InsightFilters, limit int) ([]domain.RetrievedSource, error) {
	r.filters = filters
	r.limit = limit
	return r.sources, nil
}

func (r *retrievalStore) ListAnalyses(_ context.Context, _ domain.InsightFilters) ([]domain.AnalysisRecord, error) {
	return r.analyses, nil
}

// fakeCompleter returns a canned answer and records its inputs.
type fakeCompleter struct {
	answer      string
	err         error
	failTimes   int
	calls       int
	lastContext string
	lastSystem  string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, contextText, _ string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastContext = contextText
	if f.failTimes > 0 {
		f.failTimes--
		return "", fmt.Errorf("%w: 503", domain.ErrUpstreamUnavailable)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompleter) ModelName() string { return "fake-completion" }
func (f *fakeCompleter) Close() error      { return nil }

func sampleSources() []domain.RetrievedSource {
	return []domain.RetrievedSource{
		{
			Document:   domain.CampaignDocument{ID: "d1", Filename: "copy.txt", CampaignName: "summer", ClientName: "acme"},
			Chunk:      domain.TextChunk{ID: "c1", DocumentID: "d1", Content: "Shop now and save."},
			Similarity: 0.91,
		},
		{
			Document:   domain.CampaignDocument{ID: "d2", Filename: "brief.md", CampaignName: "winter"},
			Chunk:      domain.TextChunk{ID: "c2", DocumentID: "d2", Content: "Holiday push brief."},
			Similarity: 0.74,
		},
	}
}

func testInsights(store *retrievalStore, completer *fakeCompleter) *Insights {
	return NewInsights(store, &fakeEmbedder{}, completer, InsightConfig{
		UpstreamAttempts: 3,
		RetryBaseDelay:   time.Millisecond,
	})
}

func TestQueryCampaignInsights_EmptyQuestionRejected(t *testing.T) {
	s := testInsights(&retrievalStore{fakeStore: newFakeStore()}, &fakeCompleter{})

	_, err := s.QueryCampaignInsights(context.Background(), "   ", domain.InsightFilters{}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestQueryCampaignInsights_AnswersFromRetrievedContext(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore(), sources: sampleSources()}
	completer := &fakeCompleter{answer: "The summer campaign leaned on urgency."}
	s := testInsights(store, completer)

	result, err := s.QueryCampaignInsights(context.Background(), "What worked last summer?", domain.InsightFilters{}, 5)
	require.NoError(t, err)

	assert.Equal(t, "The summer campaign leaned on urgency.", result.Answer)
	assert.False(t, result.NoEvidence)
	assert.Len(t, result.Sources, 2)
	assert.Equal(t, 5, store.limit)

	// Context carries each chunk under a header naming file and campaign.
	assert.Contains(t, completer.lastContext, "copy.txt")
	assert.Contains(t, completer.lastContext, "acme / summer")
	assert.Contains(t, completer.lastContext, "Shop now and save.")
	assert.Contains(t, completer.lastContext, "Holiday push brief.")
	assert.NotEmpty(t, completer.lastSystem)
}

func TestQueryCampaignInsights_NoEvidenceSkipsCompletion(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore()}
	completer := &fakeCompleter{answer: "should never be used"}
	s := testInsights(store, completer)

	result, err := s.QueryCampaignInsights(context.Background(), "Anything about drones?", domain.InsightFilters{}, 0)
	require.NoError(t, err)

	assert.True(t, result.NoEvidence)
	assert.Equal(t, noEvidenceAnswer, result.Answer)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, completer.calls, "completion must not be called without evidence")
}

func TestQueryCampaignInsights_DefaultLimit(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore()}
	s := testInsights(store, &fakeCompleter{})

	_, err := s.QueryCampaignInsights(context.Background(), "question", domain.InsightFilters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRetrievalLimit, store.limit)
}

func TestQueryCampaignInsights_FiltersPassedThrough(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore()}
	s := testInsights(store, &fakeCompleter{})

	filters := domain.InsightFilters{CampaignName: "summer", ClientName: "acme"}
	_, err := s.QueryCampaignInsights(context.Background(), "question", filters, 0)
	require.NoError(t, err)
	assert.Equal(t, filters, store.filters)
}

func TestQueryCampaignInsights_CompletionRetried(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore(), sources: sampleSources()}
	completer := &fakeCompleter{answer: "recovered", failTimes: 2}
	s := testInsights(store, completer)

	result, err := s.QueryCampaignInsights(context.Background(), "question", domain.InsightFilters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Answer)
	assert.Equal(t, 3, completer.calls)
}

func TestQueryCampaignInsights_CompletionFailureSurfaces(t *testing.T) {
	store := &retrievalStore{fakeStore: newFakeStore(), sources: sampleSources()}
	completer := &fakeCompleter{err: errors.New("model rejected request")}
	s := testInsights(store, completer)

	_, err := s.QueryCampaignInsights(context.Background(), "question", domain.InsightFilters{}, 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "generate answer"))
}
