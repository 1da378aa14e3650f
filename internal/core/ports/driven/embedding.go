package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations reject empty-after-trim input with domain.ErrInvalidInput
// before any I/O, truncate over-long input to the provider limit, and map
// transport failures to domain.ErrUpstreamUnavailable so call sites can
// retry with backoff.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
