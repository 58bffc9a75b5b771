package driving

import "context"

// IngestService loads documents into the semantic index.
type IngestService interface {
	// Ingest extracts text from the given files, chunks it,
	// catalogues the chunks, and rebuilds the vector index.
	// Unreadable files are skipped, not fatal. Returns the number
	// of chunks ingested from this batch.
	Ingest(ctx context.Context, paths []string) (int, error)
}
