package driving

import (
	"context"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
)

// QueryOutcome carries the full result of a claim query: the unified
// response plus the intermediate stages, so front ends can show
// parsed fields and retrieved clauses and tests can tell the
// reasoning path from the fallback.
type QueryOutcome struct {
	// Fields are the structured fields extracted from the query.
	Fields domain.ParsedFields

	// ExtractionPath records how the fields were obtained.
	ExtractionPath domain.ResolutionPath

	// Clauses are the retrieved policy clauses, most similar first.
	Clauses []domain.Clause

	// Response is the decision as serialised to the caller.
	Response domain.QueryResponse

	// DecisionPath records how the decision was obtained.
	DecisionPath domain.ResolutionPath
}

// QueryService answers natural-language claim queries.
type QueryService interface {
	// Query parses the query into fields, retrieves the topK most
	// similar clauses, and evaluates a decision. Outside of the
	// no-index condition it always returns a well-formed outcome;
	// degraded quality is silent, not an error.
	Query(ctx context.Context, query string, topK int) (*QueryOutcome, error)
}
