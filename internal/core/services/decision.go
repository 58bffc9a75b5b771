package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
	"github.com/clausewise/clausewise-cli/internal/logger"
)

// decisionPrompt requires the reasoning service to answer with the
// decision schema and nothing else.
const decisionPrompt = `You are an insurance policy reasoning assistant. Given structured query fields and a set of relevant policy clauses, decide whether the claim is approved, and the payout amount if applicable.
Output ONLY valid JSON matching this schema:
{
  "decision": "approved" | "rejected",
  "amount": number | null,
  "justification": [
    {"clause_id": string, "text": string, "used_for": string}
  ]
}
Reference clauses by the id in square brackets before each clause.`

// clauseSeparator joins clause texts in the prompt.
const clauseSeparator = "\n---\n"

// DecisionResult is the outcome of evaluating a claim. The response
// is well-formed whichever path produced it; Path and Cause record
// whether the reasoning service or the deterministic fallback ran.
type DecisionResult struct {
	// Response is the decision as serialised to the caller.
	Response domain.QueryResponse

	// Path records which decision path ran.
	Path domain.ResolutionPath

	// Cause is the reasoning-service failure that triggered the
	// fallback, nil on the reasoning path.
	Cause error
}

// llmDecision is the reply schema expected from the reasoning
// service. Unmarshalling into it rejects non-object replies; missing
// sub-fields stay nil and default rather than failing.
type llmDecision struct {
	Decision      *string `json:"decision"`
	Amount        *float64 `json:"amount"`
	Justification []struct {
		ClauseID string `json:"clause_id"`
		Text     string `json:"text"`
		UsedFor  string `json:"used_for"`
	} `json:"justification"`
}

// DecisionEngine evaluates structured fields against retrieved
// clauses and produces an approve/reject decision with justification.
type DecisionEngine struct {
	llm driven.LLMService
}

// NewDecisionEngine creates a decision engine. llm may be nil, in
// which case only the deterministic fallback runs.
func NewDecisionEngine(llm driven.LLMService) *DecisionEngine {
	return &DecisionEngine{llm: llm}
}

// Evaluate produces a decision for the given fields and clauses.
// It never fails: every problem on the reasoning path resolves to
// the deterministic fallback, and an empty clause set short-circuits
// to a rejection without any reasoning call, since approving with no
// evidence would be a hallucination.
func (e *DecisionEngine) Evaluate(ctx context.Context, fields domain.ParsedFields, clauses []domain.Clause) DecisionResult {
	logger.Section("Decision")

	if len(clauses) == 0 {
		logger.Debug("No clauses retrieved, rejecting without reasoning call")
		return DecisionResult{
			Response: domain.QueryResponse{
				Decision:      domain.DecisionRejected,
				Amount:        nil,
				Justification: []domain.Clause{},
			},
			Path: domain.PathReasoning,
		}
	}

	response, err := e.evaluateWithLLM(ctx, fields, clauses)
	if err == nil {
		logger.Debug("Reasoning path decision: %s", response.Decision)
		return DecisionResult{Response: *response, Path: domain.PathReasoning}
	}

	logger.Info("Falling back to deterministic decision: %v", err)
	return DecisionResult{
		Response: fallbackDecision(fields, clauses),
		Path:     domain.PathFallback,
		Cause:    err,
	}
}

// evaluateWithLLM asks the reasoning service for a decision and maps
// its reply into a response. Sub-fields absent from the reply default
// to absent/null instead of failing; a reply that is not a JSON
// object at all is an error and triggers the fallback.
func (e *DecisionEngine) evaluateWithLLM(ctx context.Context, fields domain.ParsedFields, clauses []domain.Clause) (*domain.QueryResponse, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding fields: %w", err)
	}

	clauseTexts := make([]string, len(clauses))
	for i, clause := range clauses {
		clauseTexts[i] = fmt.Sprintf("[%s] %s", clause.ClauseID, clause.Text)
	}

	userContent := fmt.Sprintf(
		"Parsed query fields: %s\n\nRelevant clauses (each separated by ---):\n%s",
		fieldsJSON, strings.Join(clauseTexts, clauseSeparator),
	)

	reply, err := e.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: decisionPrompt},
		{Role: "user", Content: userContent},
	}, driven.ChatOptions{MaxTokens: 300, Temperature: 0})
	if err != nil {
		return nil, err
	}

	var decoded llmDecision
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &decoded); err != nil {
		return nil, fmt.Errorf("malformed decision reply: %w", err)
	}

	// Clause ids echoed from the prompt resolve back to the source
	// paths of the retrieved clauses.
	byID := make(map[string]domain.Clause, len(clauses))
	for _, clause := range clauses {
		byID[clause.ClauseID] = clause
	}

	response := &domain.QueryResponse{Justification: []domain.Clause{}}
	if decoded.Decision != nil {
		response.Decision = domain.Decision(*decoded.Decision)
	}
	response.Amount = decoded.Amount
	for _, j := range decoded.Justification {
		clause := domain.Clause{
			ClauseID: j.ClauseID,
			Text:     j.Text,
			UsedFor:  j.UsedFor,
		}
		if retrieved, ok := byID[j.ClauseID]; ok {
			clause.SourcePath = retrieved.SourcePath
			if clause.Text == "" {
				clause.Text = retrieved.Text
			}
		}
		response.Justification = append(response.Justification, clause)
	}

	return response, nil
}

// fallbackDecision is the deterministic path: approve when any
// retrieved clause mentions the first token of the claimed
// procedure, otherwise reject. The amount is always null and every
// retrieved clause is cited verbatim in retrieval order.
func fallbackDecision(fields domain.ParsedFields, clauses []domain.Clause) domain.QueryResponse {
	decision := domain.DecisionRejected
	if token := firstToken(fields[domain.FieldProcedure]); token != "" {
		for _, clause := range clauses {
			if strings.Contains(strings.ToLower(clause.Text), token) {
				decision = domain.DecisionApproved
				break
			}
		}
	}

	justification := make([]domain.Clause, len(clauses))
	for i, clause := range clauses {
		justification[i] = domain.Clause{
			ClauseID:   fmt.Sprintf("clause_%d", i),
			Text:       clause.Text,
			SourcePath: clause.SourcePath,
		}
	}

	return domain.QueryResponse{
		Decision:      decision,
		Amount:        nil,
		Justification: justification,
	}
}

// firstToken returns the first whitespace-delimited token of s,
// lowercased, or "" when s has none.
func firstToken(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	return strings.ToLower(tokens[0])
}
