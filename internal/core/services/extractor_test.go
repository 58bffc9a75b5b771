package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// mockLLM replays a canned reply and records the last conversation.
type mockLLM struct {
	reply       string
	err         error
	gotMessages []driven.ChatMessage
	calls       int
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	m.gotMessages = messages
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }
func (m *mockLLM) Close() error      { return nil }

func TestExtract_ReasoningPath(t *testing.T) {
	llm := &mockLLM{reply: `{"age": "46", "procedure": "knee surgery", "city": "Pune", "policy_duration": "3 months"}`}
	extractor := NewFieldExtractor(llm)

	result := extractor.Extract(context.Background(), "46M, knee surgery, Pune, 3-month policy")

	assert.Equal(t, domain.PathReasoning, result.Path)
	assert.NoError(t, result.Cause)
	assert.Equal(t, domain.ParsedFields{
		"age":             "46",
		"procedure":       "knee surgery",
		"city":            "Pune",
		"policy_duration": "3 months",
	}, result.Fields)
}

func TestExtract_ReasoningPath_CodeFence(t *testing.T) {
	llm := &mockLLM{reply: "```json\n{\"city\": \"Mumbai\"}\n```"}
	extractor := NewFieldExtractor(llm)

	result := extractor.Extract(context.Background(), "claim in Mumbai")

	assert.Equal(t, domain.PathReasoning, result.Path)
	assert.Equal(t, "Mumbai", result.Fields["city"])
}

func TestExtract_ReasoningPath_DropsNonStringValues(t *testing.T) {
	llm := &mockLLM{reply: `{"age": 46, "city": "Pune", "procedure": ""}`}
	extractor := NewFieldExtractor(llm)

	result := extractor.Extract(context.Background(), "46, Pune")

	assert.Equal(t, domain.PathReasoning, result.Path)
	assert.Equal(t, domain.ParsedFields{"city": "Pune"}, result.Fields)
}

func TestExtract_FallbackOnLLMError(t *testing.T) {
	llm := &mockLLM{err: errors.New("quota exceeded")}
	extractor := NewFieldExtractor(llm)

	result := extractor.Extract(context.Background(), "46M, knee surgery, Pune, 3-month policy")

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Error(t, result.Cause)
	assert.Equal(t, "46", result.Fields[domain.FieldAge])
	assert.Contains(t, result.Fields[domain.FieldProcedure], "knee surgery")
	assert.Equal(t, "Pune", result.Fields[domain.FieldCity])
	assert.Equal(t, "3-month", result.Fields[domain.FieldPolicyDuration])
}

func TestExtract_FallbackOnMalformedReply(t *testing.T) {
	llm := &mockLLM{reply: "I think the patient is 46 years old."}
	extractor := NewFieldExtractor(llm)

	result := extractor.Extract(context.Background(), "46 years old, hip replacement in Delhi")

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.Error(t, result.Cause)
	assert.Equal(t, "46", result.Fields[domain.FieldAge])
	assert.Equal(t, "Delhi", result.Fields[domain.FieldCity])
	assert.Contains(t, result.Fields[domain.FieldProcedure], "hip")
}

func TestExtract_NilLLMUsesFallback(t *testing.T) {
	extractor := NewFieldExtractor(nil)
	result := extractor.Extract(context.Background(), "cataract operation, Chennai")

	assert.Equal(t, domain.PathFallback, result.Path)
	assert.ErrorIs(t, result.Cause, domain.ErrLLMUnavailable)
	assert.Contains(t, result.Fields[domain.FieldProcedure], "cataract")
	assert.Equal(t, "Chennai", result.Fields[domain.FieldCity])
}

func TestExtract_FallbackOmitsUnmatchedFields(t *testing.T) {
	extractor := NewFieldExtractor(nil)

	result := extractor.Extract(context.Background(), "general enquiry about coverage")

	_, hasAge := result.Fields[domain.FieldAge]
	_, hasCity := result.Fields[domain.FieldCity]
	assert.False(t, hasAge)
	assert.False(t, hasCity)
}

func TestExtractWithRules(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.ParsedFields
	}{
		{
			name:  "compact claim query",
			query: "46M, knee surgery, Pune, 3-month policy",
			want: domain.ParsedFields{
				"age":             "46",
				"procedure":       "knee surgery",
				"city":            "Pune",
				"policy_duration": "3-month",
			},
		},
		{
			name:  "different fields",
			query: "62F, heart bypass in Hyderabad, policy active for 2 years",
			want: domain.ParsedFields{
				"age":             "62",
				"procedure":       "heart",
				"city":            "Hyderabad",
				"policy_duration": "2 years",
			},
		},
		{
			name:  "no recognisable fields",
			query: "what is covered?",
			want:  domain.ParsedFields{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractWithRules(tc.query)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtract_PromptContainsQuery(t *testing.T) {
	llm := &mockLLM{reply: `{}`}
	extractor := NewFieldExtractor(llm)

	extractor.Extract(context.Background(), "46M, knee surgery")

	require.Len(t, llm.gotMessages, 2)
	assert.Equal(t, "system", llm.gotMessages[0].Role)
	assert.Equal(t, "user", llm.gotMessages[1].Role)
	assert.Equal(t, "46M, knee surgery", llm.gotMessages[1].Content)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFence(tc.input))
		})
	}
}
