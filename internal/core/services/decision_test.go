package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
)

func TestEvaluate_EmptyClauses(t *testing.T) {
	// No retrieved evidence means rejection without any reasoning call.
	llm := &mockLLM{reply: `{"decision": "approved"}`}
	engine := NewDecisionEngine(llm)

	result := engine.Evaluate(context.Background(), domain.ParsedFields{"procedure": "knee surgery"}, nil)

	assert.Zero(t, llm.calls)
	assert.Equal(t, domain.DecisionRejected, result.Response.Decision)
	assert.Nil(t, result.Response.Amount)
	assert.NotNil(t, result.Response.Justification)
	assert.Empty(t, result.Response.Justification)
}

func TestEvaluate_ReasoningPath(t *testing.T) {
	llm := &mockLLM{reply: `{
		"decision": "approved",
		"amount": 150000,
		"justification": [
			{"clause_id": "clause_0", "text": "Knee surgery is covered.", "used_for": "procedure coverage"}
		]
	}`}
	engine := NewDecisionEngine(llm)

	clauses := []domain.Clause{
		{ClauseID: "clause_0", Text: "Knee surgery is covered.", SourcePath: "/docs/policy.pdf"},
		{ClauseID: "clause_1", Text: "Waiting period is 90 days.", SourcePath: "/docs/policy.pdf"},
	}

	result := engine.Evaluate(context.Background(), domain.ParsedFields{"procedure": "knee surgery"}, clauses)

	assert.Equal(t, domain.PathReasoning, result.Path)
	assert.Equal(t, domain.DecisionApproved, result.Response.Decision)
	require.NotNil(t, result.Response.Amount)
	assert.Equal(t, 150000.0, *result.Response.Amount)

	require.Len(t, result.Response.Justification, 1)
	cited := result.Response.Justification[0]
	assert.Equal(t, "clause_0", cited.ClauseID)
	assert.Equal(t, "procedure coverage", cited.UsedFor)
	// The source path resolves from the retrieved clause the id refers to.
	assert.Equal(t, "/docs/policy.pdf", cited.SourcePath)
}

func TestEvaluate_ReasoningPath_MissingFieldsDefault(t *testing.T) {
	// A JSON object reply with missing sub-fields coerces rather than
	// triggering the fallback.
	llm := &mockLLM{reply: `{"decision": "rejected"}`}
	engine := NewDecisionEngine(llm)

	clauses := []domain.Clause{{ClauseID: "clause_0", Text: "irrelevant"}}
	result := engine.Evaluate(context.Background(), nil, clauses)

	assert.Equal(t, domain.PathReasoning, result.Path)
	assert.Equal(t, domain.DecisionRejected, result.Response.Decision)
	assert.Nil(t, result.Response.Amount)
	assert.NotNil(t, result.Response.Justification)
	assert.Empty(t, result.Response.Justification)
}

func TestEvaluate_FallbackOnLLMError(t *testing.T) {
	llm := &mockLLM{err: errors.New("timeout")}
	engine := NewDecisionEngine(llm)

	clauses := []domain.Clause{
		{ClauseID: "clause_0", Text: "Dental cleaning is excluded.", SourcePath: "/docs/a.txt"},
		{ClauseID: "clause_1", Text: "Knee surgery is covered after 90 days.", SourcePath: "/docs/b.txt"},
	}
	fields := domain.ParsedFields{domain.FieldProcedure: "knee surgery"}

	result := engine.Evaluate(context.Background(), fields, clauses)

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Error(t, result.Cause)
	assert.Equal(t, domain.DecisionApproved, result.Response.Decision)
	assert.Nil(t, result.Response.Amount)

	// Every retrieved clause is cited verbatim, in retrieval order.
	require.Len(t, result.Response.Justification, 2)
	for i, cited := range result.Response.Justification {
		assert.Equal(t, fmt.Sprintf("clause_%d", i), cited.ClauseID)
		assert.Equal(t, clauses[i].Text, cited.Text)
		assert.Equal(t, clauses[i].SourcePath, cited.SourcePath)
	}
}

func TestEvaluate_FallbackOnMalformedReply(t *testing.T) {
	llm := &mockLLM{reply: "the claim should probably be approved"}
	engine := NewDecisionEngine(llm)

	clauses := []domain.Clause{{ClauseID: "clause_0", Text: "No mention of the procedure."}}
	fields := domain.ParsedFields{domain.FieldProcedure: "knee surgery"}

	result := engine.Evaluate(context.Background(), fields, clauses)

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Equal(t, domain.DecisionRejected, result.Response.Decision)
}

func TestFallbackDecision(t *testing.T) {
	tests := []struct {
		name    string
		fields  domain.ParsedFields
		clauses []domain.Clause
		want    domain.Decision
	}{
		{
			name:   "first token matches case-insensitively",
			fields: domain.ParsedFields{domain.FieldProcedure: "Knee surgery"},
			clauses: []domain.Clause{
				{Text: "KNEE replacements are covered."},
			},
			want: domain.DecisionApproved,
		},
		{
			name:   "only the first token is checked",
			fields: domain.ParsedFields{domain.FieldProcedure: "knee surgery"},
			clauses: []domain.Clause{
				{Text: "surgery of any kind is covered"},
			},
			want: domain.DecisionRejected,
		},
		{
			name:    "missing procedure rejects",
			fields:  domain.ParsedFields{},
			clauses: []domain.Clause{{Text: "knee surgery is covered"}},
			want:    domain.DecisionRejected,
		},
		{
			name:    "blank procedure rejects",
			fields:  domain.ParsedFields{domain.FieldProcedure: "   "},
			clauses: []domain.Clause{{Text: "knee surgery is covered"}},
			want:    domain.DecisionRejected,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			response := fallbackDecision(tc.fields, tc.clauses)
			assert.Equal(t, tc.want, response.Decision)
			assert.Nil(t, response.Amount)
			assert.Len(t, response.Justification, len(tc.clauses))
		})
	}
}

func TestEvaluate_NilLLMUsesFallback(t *testing.T) {
	engine := NewDecisionEngine(nil)

	clauses := []domain.Clause{{ClauseID: "clause_0", Text: "knee surgery covered"}}
	result := engine.Evaluate(context.Background(), domain.ParsedFields{domain.FieldProcedure: "knee surgery"}, clauses)

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.ErrorIs(t, result.Cause, domain.ErrLLMUnavailable)
	assert.Equal(t, domain.DecisionApproved, result.Response.Decision)
}

func TestEvaluate_PromptIncludesClauses(t *testing.T) {
	llm := &mockLLM{reply: `{"decision": "rejected"}`}
	engine := NewDecisionEngine(llm)

	clauses := []domain.Clause{
		{ClauseID: "clause_0", Text: "Knee surgery is covered."},
		{ClauseID: "clause_1", Text: "Waiting period is 90 days."},
	}
	engine.Evaluate(context.Background(), domain.ParsedFields{"age": "46"}, clauses)

	require.Len(t, llm.gotMessages, 2)
	user := llm.gotMessages[1].Content
	assert.Contains(t, user, `"age":"46"`)
	assert.Contains(t, user, "[clause_0] Knee surgery is covered.")
	assert.Contains(t, user, "[clause_1] Waiting period is 90 days.")
}
