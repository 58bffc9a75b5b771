package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// mockVectorStore replays canned hits and records rebuild input.
type mockVectorStore struct {
	hits         []driven.VectorHit
	searchErr    error
	rebuildErr   error
	gotQuery     string
	gotK         int
	gotEntries   []driven.IndexEntry
	rebuildCalls int
}

func (m *mockVectorStore) Rebuild(_ context.Context, entries []driven.IndexEntry) (int, error) {
	m.rebuildCalls++
	m.gotEntries = entries
	if m.rebuildErr != nil {
		return 0, m.rebuildErr
	}
	return len(entries), nil
}

func (m *mockVectorStore) Search(_ context.Context, query string, k int) ([]driven.VectorHit, error) {
	m.gotQuery = query
	m.gotK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) Close() error { return nil }

func newQueryService(llm driven.LLMService, vectors driven.VectorStore) *QueryService {
	return NewQueryService(NewFieldExtractor(llm), vectors, NewDecisionEngine(llm))
}

func TestQuery_EmptyQuery(t *testing.T) {
	service := newQueryService(nil, &mockVectorStore{})

	_, err := service.Query(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuery_NoIndex(t *testing.T) {
	vectors := &mockVectorStore{searchErr: domain.ErrIndexNotFound}
	service := newQueryService(nil, vectors)

	_, err := service.Query(context.Background(), "46M, knee surgery", 5)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestQuery_DefaultTopK(t *testing.T) {
	vectors := &mockVectorStore{}
	service := newQueryService(nil, vectors)

	_, err := service.Query(context.Background(), "knee surgery", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, vectors.gotK)
}

func TestQuery_FullPipelineWithFallbacks(t *testing.T) {
	// No reasoning service at all: extraction and decision both run
	// deterministically, yet the outcome is fully formed.
	vectors := &mockVectorStore{hits: []driven.VectorHit{
		{Entry: driven.IndexEntry{ChunkID: "x1", Text: "Knee surgery is covered after 90 days.", SourcePath: "/docs/policy.pdf"}, Similarity: 0.9},
		{Entry: driven.IndexEntry{ChunkID: "x2", Text: "Dental cleaning is excluded.", SourcePath: "/docs/policy.pdf"}, Similarity: 0.4},
	}}
	service := newQueryService(nil, vectors)

	outcome, err := service.Query(context.Background(), "46M, knee surgery, Pune, 3-month policy", 5)
	require.NoError(t, err)

	assert.Equal(t, domain.PathFallback, outcome.ExtractionPath)
	assert.Equal(t, domain.PathFallback, outcome.DecisionPath)
	assert.Equal(t, "46", outcome.Fields[domain.FieldAge])

	// Clause ids are synthesised per response, in retrieval order.
	require.Len(t, outcome.Clauses, 2)
	for i, clause := range outcome.Clauses {
		assert.Equal(t, fmt.Sprintf("clause_%d", i), clause.ClauseID)
	}
	assert.Equal(t, "Knee surgery is covered after 90 days.", outcome.Clauses[0].Text)

	assert.Equal(t, domain.DecisionApproved, outcome.Response.Decision)
	assert.Nil(t, outcome.Response.Amount)
	require.Len(t, outcome.Response.Justification, 2)
	assert.Equal(t, "clause_0", outcome.Response.Justification[0].ClauseID)
	assert.Equal(t, "/docs/policy.pdf", outcome.Response.Justification[0].SourcePath)
}

func TestQuery_ReasoningPath(t *testing.T) {
	// The same reply satisfies both the extraction and the decision
	// schema, so a single mock covers both calls.
	llm := &mockLLM{reply: `{
		"decision": "approved",
		"amount": 80000,
		"procedure": "knee surgery",
		"justification": [{"clause_id": "clause_0", "text": "Knee surgery is covered.", "used_for": "coverage"}]
	}`}
	vectors := &mockVectorStore{hits: []driven.VectorHit{
		{Entry: driven.IndexEntry{ChunkID: "x1", Text: "Knee surgery is covered.", SourcePath: "/docs/p.txt"}, Similarity: 0.8},
	}}
	service := newQueryService(llm, vectors)

	outcome, err := service.Query(context.Background(), "46M, knee surgery", 3)
	require.NoError(t, err)

	assert.Equal(t, domain.PathReasoning, outcome.ExtractionPath)
	assert.Equal(t, domain.PathReasoning, outcome.DecisionPath)
	assert.Equal(t, 2, llm.calls)
	assert.Equal(t, domain.DecisionApproved, outcome.Response.Decision)
	require.NotNil(t, outcome.Response.Amount)
	assert.Equal(t, 80000.0, *outcome.Response.Amount)
}

func TestQuery_NoHitsRejectsWithoutReasoningCall(t *testing.T) {
	extractLLM := &mockLLM{reply: `{"procedure": "obscure procedure"}`}
	vectors := &mockVectorStore{}
	service := newQueryService(extractLLM, vectors)

	outcome, err := service.Query(context.Background(), "obscure procedure claim", 5)
	require.NoError(t, err)

	// One call for extraction, none for the decision.
	assert.Equal(t, 1, extractLLM.calls)
	assert.Equal(t, domain.DecisionRejected, outcome.Response.Decision)
	assert.Nil(t, outcome.Response.Amount)
	assert.Empty(t, outcome.Response.Justification)
}
