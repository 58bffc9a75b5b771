// Package flatfile provides a persisted brute-force vector store.
// Each ingest writes a complete new generation of the index to a
// temporary file and renames it over the store path, so readers
// always see either the previous or the new generation, never a
// partial write. Search is an exact cosine scan; with one index per
// deployment and policy-sized corpora this stays well inside budget.
package flatfile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
	"github.com/clausewise/clausewise-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// indexFileName is the name of the persisted generation file.
const indexFileName = "index.json"

// Store embeds chunks and persists them for similarity search.
type Store struct {
	path     string
	embedder driven.EmbeddingService
}

// generation is the on-disk index format. A generation is immutable
// once written.
type generation struct {
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	BuiltAt    time.Time `json:"built_at"`
	Records    []record  `json:"records"`
}

// record is one stored chunk with its embedding.
type record struct {
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	SourcePath string    `json:"source_path"`
	Text       string    `json:"text"`
	Vector     []float32 `json:"vector"`
}

// New creates a vector store persisting to dir. The embedder is used
// both at rebuild and at search time so similarity stays consistent.
func New(dir string, embedder driven.EmbeddingService) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("flatfile: directory is required")
	}
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("flatfile: creating directory: %w", err)
	}

	return &Store{
		path:     filepath.Join(dir, indexFileName),
		embedder: embedder,
	}, nil
}

// Path returns the persisted index location.
func (s *Store) Path() string {
	return s.path
}

// Rebuild embeds every entry and atomically replaces the persisted
// index. An embedding failure aborts the rebuild and leaves the
// previous generation on disk untouched.
func (s *Store) Rebuild(ctx context.Context, entries []driven.IndexEntry) (int, error) {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("flatfile: embedding %d chunks: %w", len(entries), err)
	}
	if len(vectors) != len(entries) {
		return 0, fmt.Errorf("flatfile: embedder returned %d vectors for %d chunks", len(vectors), len(entries))
	}

	gen := generation{
		Model:      s.embedder.ModelName(),
		Dimensions: s.embedder.Dimensions(),
		BuiltAt:    time.Now().UTC(),
		Records:    make([]record, len(entries)),
	}
	for i, e := range entries {
		gen.Records[i] = record{
			ChunkID:    e.ChunkID,
			DocumentID: e.DocumentID,
			SourcePath: e.SourcePath,
			Text:       e.Text,
			Vector:     normalise(vectors[i]),
		}
	}

	if err := s.writeGeneration(&gen); err != nil {
		return 0, err
	}

	logger.Info("Vector index rebuilt: %d chunks, model=%s", len(entries), gen.Model)
	return len(entries), nil
}

// writeGeneration writes the new generation to a temp file in the
// same directory and renames it over the store path. Rename within
// one filesystem is atomic, so concurrent readers never observe a
// half-written index.
func (s *Store) writeGeneration(gen *generation) error {
	data, err := json.Marshal(gen)
	if err != nil {
		return fmt.Errorf("flatfile: encoding index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), indexFileName+".*")
	if err != nil {
		return fmt.Errorf("flatfile: creating temp index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flatfile: writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flatfile: closing temp index: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flatfile: replacing index: %w", err)
	}
	return nil
}

// Search embeds the query and returns the k most similar records by
// descending cosine similarity. Ties keep insertion order. Asking
// for more records than stored returns all of them.
func (s *Store) Search(ctx context.Context, query string, k int) ([]driven.VectorHit, error) {
	gen, err := s.loadGeneration()
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, nil
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("flatfile: embedding query: %w", err)
	}
	qv = normalise(qv)

	hits := make([]driven.VectorHit, 0, len(gen.Records))
	for _, rec := range gen.Records {
		hits = append(hits, driven.VectorHit{
			Entry: driven.IndexEntry{
				ChunkID:    rec.ChunkID,
				DocumentID: rec.DocumentID,
				SourcePath: rec.SourcePath,
				Text:       rec.Text,
			},
			Similarity: dot(qv, rec.Vector),
		})
	}

	// SliceStable keeps insertion order for equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// loadGeneration reads the current generation from disk.
func (s *Store) loadGeneration() (*generation, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, domain.ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("flatfile: reading index: %w", err)
	}

	var gen generation
	if err := json.Unmarshal(data, &gen); err != nil {
		return nil, fmt.Errorf("flatfile: decoding index: %w", err)
	}
	return &gen, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// normalise scales v to unit length so dot product equals cosine
// similarity. Zero vectors are returned unchanged.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// dot computes the inner product of two same-length vectors.
// Mismatched lengths score zero rather than panicking; this can only
// happen when the embedding model changed between ingest and query.
func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
