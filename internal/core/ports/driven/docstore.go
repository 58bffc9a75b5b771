package driven

import (
	"context"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
)

// ChunkRecord is a catalogued chunk joined with its document's path.
// It is the unit handed to the vector store on rebuild.
type ChunkRecord struct {
	// ChunkID is the stable chunk identifier.
	ChunkID string

	// DocumentID links to the parent document.
	DocumentID string

	// SourcePath is the originating file path.
	SourcePath string

	// Position is the ordinal position within the document.
	Position int

	// Content is the chunk text.
	Content string
}

// DocumentStore catalogues ingested documents and their chunks.
// The catalog is the durable record of chunk identity; the vector
// store is rebuilt from it on every ingest.
type DocumentStore interface {
	// SaveDocument stores or updates a document. Re-ingesting the
	// same path replaces the prior document and its chunks.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores the chunks for a document, replacing any
	// prior chunks of that document.
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// ListDocuments returns all catalogued documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListChunkRecords returns every catalogued chunk joined with
	// its document path, ordered by document then position.
	ListChunkRecords(ctx context.Context) ([]ChunkRecord, error)

	// Close releases resources.
	Close() error
}
