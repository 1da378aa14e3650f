package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and are matched with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Rejected before any I/O and never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration indicates a configuration that can never work,
	// such as a chunk overlap at or above the window size. Fatal at startup.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUpstreamUnavailable indicates the embedding or completion service
	// could not be reached or returned a transient failure. Call sites retry
	// with bounded exponential backoff.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrPersistenceFailure indicates a storage transaction rolled back.
	// Safe to retry once per document thanks to merge semantics.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrNoEvidence indicates a query matched zero indexed chunks.
	// The retrieval engine returns a canned answer instead of calling the
	// completion service on empty context.
	ErrNoEvidence = errors.New("no matching campaign evidence")
)
