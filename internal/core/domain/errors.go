package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexNotFound indicates no vector index has been built yet.
	// This is the one pipeline condition surfaced to the caller
	// instead of being degraded: there is no meaningful fallback for
	// "nothing has ever been ingested".
	ErrIndexNotFound = errors.New("vector index not found, ingest documents first")

	// ErrLLMUnavailable indicates the reasoning service is not
	// configured. The extractor and decision engine degrade to their
	// deterministic paths.
	ErrLLMUnavailable = errors.New("reasoning service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingest and retrieval cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
