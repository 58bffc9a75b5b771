package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// The same service must be used at ingest and query time so that
// similarity comparisons stay consistent.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768).
	Dimensions() int

	// ModelName returns the name of the embedding model in use.
	ModelName() string

	// Close releases resources.
	Close() error
}
