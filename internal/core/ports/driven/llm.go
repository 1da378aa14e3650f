package driven

import "context"

// CompletionService generates grounded answers from retrieved context.
//
// Implementations truncate the assembled context to the provider budget by
// dropping from the context tail first, never from the system prompt or the
// question, and map transport failures to domain.ErrUpstreamUnavailable.
type CompletionService interface {
	// Complete generates an answer to question grounded in contextText,
	// steered by systemPrompt.
	Complete(ctx context.Context, systemPrompt, contextText, question string) (string, error)

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
