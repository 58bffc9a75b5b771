package driven

import "context"

// IndexEntry is one chunk as stored in the vector index.
type IndexEntry struct {
	// ChunkID is the stable chunk identifier minted at ingest time.
	ChunkID string

	// DocumentID links to the parent document.
	DocumentID string

	// SourcePath is the path of the originating file.
	SourcePath string

	// Text is the chunk content.
	Text string
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry IndexEntry

	// Similarity is the cosine similarity score.
	Similarity float64
}

// VectorStore embeds and persists chunks for similarity search.
//
// Rebuild replaces the whole persisted index: the new generation is
// written fully before becoming visible, and a failure part-way
// through leaves the previous generation intact. There is no
// incremental mutation.
type VectorStore interface {
	// Rebuild embeds every entry and atomically replaces the
	// persisted index. Returns the number of entries indexed.
	Rebuild(ctx context.Context, entries []IndexEntry) (int, error)

	// Search embeds the query and returns the k entries ranked by
	// descending similarity, ties broken by insertion order. If k
	// exceeds the number of stored entries, all are returned.
	// Returns domain.ErrIndexNotFound when no index exists yet.
	Search(ctx context.Context, query string, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}
