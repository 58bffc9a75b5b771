package domain

import "time"

// RawDocument represents opaque bytes read from a file before
// normalisation. It exists only for the duration of ingestion.
type RawDocument struct {
	// URI is the original filesystem path.
	URI string

	// MIMEType is the detected content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Document is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original filesystem path.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains format-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is a contiguous text window within a document, the unit of
// embedding and retrieval. Chunks are immutable once created.
type Chunk struct {
	// ID is the stable identifier minted at ingest time.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text of this window.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Offset is the starting character offset within the document.
	Offset int
}
