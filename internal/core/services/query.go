package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
	"github.com/clausewise/clausewise-cli/internal/logger"
)

// DefaultTopK is the number of clauses retrieved when the caller
// does not specify one.
const DefaultTopK = 5

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers claim queries: extract fields, retrieve the
// most similar clauses, evaluate a decision.
type QueryService struct {
	extractor *FieldExtractor
	vectors   driven.VectorStore
	engine    *DecisionEngine
}

// NewQueryService creates a new query service.
func NewQueryService(extractor *FieldExtractor, vectors driven.VectorStore, engine *DecisionEngine) *QueryService {
	return &QueryService{
		extractor: extractor,
		vectors:   vectors,
		engine:    engine,
	}
}

// Query runs the query pipeline. The only error it surfaces is the
// no-index condition (and a blank query); degraded extraction or
// decision quality is silent, visible only in the outcome's path
// fields and the verbose log.
func (s *QueryService) Query(ctx context.Context, query string, topK int) (*driving.QueryOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK < 1 {
		topK = DefaultTopK
	}

	extraction := s.extractor.Extract(ctx, query)

	logger.Section("Retrieval")
	hits, err := s.vectors.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d clauses", len(hits))

	// Clause ids are synthesised per response, in retrieval order.
	// They identify a clause within this response only.
	clauses := make([]domain.Clause, len(hits))
	for i, hit := range hits {
		clauses[i] = domain.Clause{
			ClauseID:   fmt.Sprintf("clause_%d", i),
			Text:       hit.Entry.Text,
			SourcePath: hit.Entry.SourcePath,
		}
	}

	decision := s.engine.Evaluate(ctx, extraction.Fields, clauses)

	return &driving.QueryOutcome{
		Fields:         extraction.Fields,
		ExtractionPath: extraction.Path,
		Clauses:        clauses,
		Response:       decision.Response,
		DecisionPath:   decision.Path,
	}, nil
}
