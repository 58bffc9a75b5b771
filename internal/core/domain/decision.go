package domain

// Field names recognised by the field extractor.
const (
	FieldAge            = "age"
	FieldProcedure      = "procedure"
	FieldCity           = "city"
	FieldPolicyDuration = "policy_duration"
)

// ParsedFields maps a field name to its extracted string value.
// Fields absent from the query text are omitted, never set to "".
type ParsedFields map[string]string

// Decision is the outcome of evaluating a claim.
type Decision string

const (
	// DecisionApproved indicates the claim is covered.
	DecisionApproved Decision = "approved"

	// DecisionRejected indicates the claim is not covered.
	DecisionRejected Decision = "rejected"
)

// Clause is a policy clause cited as evidence for a decision.
type Clause struct {
	// ClauseID identifies the clause within one decision response.
	// When no stable identifier is available it is synthesised as
	// "clause_{index}" and is unique only within that response.
	ClauseID string `json:"clause_id"`

	// Text is the clause text verbatim.
	Text string `json:"text"`

	// SourcePath is the path of the document the clause came from.
	SourcePath string `json:"source_path"`

	// UsedFor states what the clause supported, when known.
	UsedFor string `json:"used_for,omitempty"`
}

// QueryResponse is the structured answer to a claim query.
// It is constructed fresh per query and never persisted.
type QueryResponse struct {
	// Decision is approved or rejected; empty when the reasoning
	// service returned a response without one.
	Decision Decision `json:"decision"`

	// Amount is the payout amount, when applicable.
	Amount *float64 `json:"amount"`

	// Justification lists the clauses supporting the decision,
	// in order of relevance.
	Justification []Clause `json:"justification"`
}

// ResolutionPath records which of the two paths produced a result:
// the reasoning service or the deterministic fallback. The external
// response shape is identical either way; the path is kept for
// logging and tests.
type ResolutionPath string

const (
	// PathReasoning means the reasoning-service call succeeded.
	PathReasoning ResolutionPath = "reasoning"

	// PathFallback means the deterministic fallback ran.
	PathFallback ResolutionPath = "fallback"
)
