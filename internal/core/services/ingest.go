package services

import (
	"context"
	"fmt"
	"os"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
	"github.com/clausewise/clausewise-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingest pipeline: load, normalise, chunk,
// catalogue, and rebuild the vector index.
type IngestService struct {
	registry *NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	docStore driven.DocumentStore
	vectors  driven.VectorStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry *NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	vectors driven.VectorStore,
) *IngestService {
	return &IngestService{
		registry: registry,
		pipeline: pipeline,
		docStore: docStore,
		vectors:  vectors,
	}
}

// Ingest extracts text from the given files, chunks it, catalogues
// document and chunks, and rebuilds the vector index over the whole
// catalog. A file that cannot be read or parsed is logged and
// skipped; the rest of the batch proceeds. Returns the number of
// chunks ingested from this batch.
func (s *IngestService) Ingest(ctx context.Context, paths []string) (int, error) {
	logger.Section("Ingest")

	ingested := 0
	for _, path := range paths {
		count, err := s.ingestFile(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		logger.Debug("Ingested %s: %d chunks", path, count)
		ingested += count
	}

	// The index is rebuilt wholesale from the catalog, not patched:
	// a fresh generation over everything ingested so far replaces
	// the persisted index atomically.
	records, err := s.docStore.ListChunkRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing catalogued chunks: %w", err)
	}

	entries := make([]driven.IndexEntry, len(records))
	for i, rec := range records {
		entries[i] = driven.IndexEntry{
			ChunkID:    rec.ChunkID,
			DocumentID: rec.DocumentID,
			SourcePath: rec.SourcePath,
			Text:       rec.Content,
		}
	}

	if _, err := s.vectors.Rebuild(ctx, entries); err != nil {
		return 0, fmt.Errorf("rebuilding vector index: %w", err)
	}

	return ingested, nil
}

// ingestFile loads one file through normalisation and chunking and
// catalogues the result. Returns the number of chunks produced.
func (s *IngestService) ingestFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}

	raw := &domain.RawDocument{
		URI:      path,
		MIMEType: DetectMIMEType(path),
		Content:  content,
	}

	normaliser, err := s.registry.ForMIMEType(raw.MIMEType)
	if err != nil {
		return 0, err
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalising: %w", err)
	}
	doc := result.Document

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("chunking: %w", err)
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return 0, fmt.Errorf("cataloguing document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return 0, fmt.Errorf("cataloguing chunks: %w", err)
	}

	return len(chunks), nil
}
