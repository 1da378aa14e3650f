package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc, cfg Config) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.RequestsPerSecond = 1000
	svc, err := NewEmbeddingService(cfg)
	require.NoError(t, err)
	return svc
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[
			{"embedding":[0.5,0.5],"index":1},
			{"embedding":[0.1,0.2],"index":0}
		]}`))
	}, Config{})

	vecs, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vecs[0])
	assert.Equal(t, []float32{0.5, 0.5}, vecs[1])
}

func TestEmbedBatch_RejectsOutOfRangeIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2],"index":5}]}`))
	}, Config{})

	_, err := svc.EmbedBatch(context.Background(), []string{"only input"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestEmbedBatch_RejectsMissingEntries(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2],"index":0}]}`))
	}, Config{})

	_, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestEmbedBatch_EmptyInputRejectedBeforeIO(t *testing.T) {
	svc := newTestService(t, func(http.ResponseWriter, *http.Request) {
		t.Error("request sent for empty input")
	}, Config{})

	_, err := svc.EmbedBatch(context.Background(), []string{"fine", "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbedBatch_TruncatesAtRuneBoundary(t *testing.T) {
	var sent string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Input, 1) {
			sent = req.Input[0]
		}
		w.Write([]byte(`{"data":[{"embedding":[0.1],"index":0}]}`))
	}, Config{MaxInputChars: 5})

	// Each é is two bytes, so a 5-byte cap lands mid-rune.
	_, err := svc.EmbedBatch(context.Background(), []string{strings.Repeat("é", 10)})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(sent))
	assert.Equal(t, "éé", sent)
}

func TestEmbedBatch_UpstreamStatusMapped(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, Config{})

	_, err := svc.EmbedBatch(context.Background(), []string{"input"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
