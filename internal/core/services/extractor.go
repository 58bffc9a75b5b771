package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
	"github.com/clausewise/clausewise-cli/internal/logger"
)

// extractionPrompt asks the reasoning service for a flat JSON object
// of the known fields. Anything else in the reply is a parse failure
// and triggers the deterministic path.
const extractionPrompt = `You are an insurance claim query parser. Extract structured fields from the user's natural-language query.
Output ONLY a valid JSON object mapping field names to string values. Recognised fields:
  "age": the claimant's age in years,
  "procedure": the medical procedure claimed,
  "city": the city where the procedure takes place,
  "policy_duration": how long the policy has been active.
Omit any field not present in the query. Do not invent values.`

// fieldRule is one deterministic extraction rule. Rules run in
// order; the first match per field wins.
type fieldRule struct {
	field   string
	pattern *regexp.Regexp
	// group selects the submatch to keep; 0 keeps the whole match.
	group int
}

// fallbackRules are the deterministic patterns applied when the
// reasoning service is unavailable or returns malformed output.
// RE2 has no lookahead, so the age rule captures the digits as a
// group instead of asserting the unit that follows.
var fallbackRules = []fieldRule{
	{
		field:   domain.FieldAge,
		pattern: regexp.MustCompile(`(?i)(\d{1,3})\s*(?:years?[ -]?old|years?|y/o|yo|M|F|male|female)`),
		group:   1,
	},
	{
		field:   domain.FieldProcedure,
		pattern: regexp.MustCompile(`(?i)\b(?:knee|hip|heart|dental|cataract|bypass|kidney)[\w-]*(?:\s+(?:surgery|operation|procedure|replacement|transplant|treatment))?|\b(?:surgery|operation|procedure)\w*`),
		group:   0,
	},
	{
		field:   domain.FieldCity,
		pattern: regexp.MustCompile(`(?i)\b(?:Pune|Mumbai|Delhi|Bangalore|Chennai|Hyderabad|Kolkata)\b`),
		group:   0,
	},
	{
		field:   domain.FieldPolicyDuration,
		pattern: regexp.MustCompile(`(?i)(\d+)[-\s]*(?:month|year)s?`),
		group:   0,
	},
}

// ExtractionResult is the outcome of field extraction. The field map
// is identical whichever path produced it; Path and Cause exist so
// logs and tests can tell a reasoning-service success from a
// fallback, which the unified map deliberately hides from callers.
type ExtractionResult struct {
	// Fields is the extracted field map.
	Fields domain.ParsedFields

	// Path records which extraction path ran.
	Path domain.ResolutionPath

	// Cause is the reasoning-service failure that triggered the
	// fallback, nil on the reasoning path.
	Cause error
}

// FieldExtractor converts a free-text claim query into structured
// fields, via the reasoning service when available and a fixed rule
// set otherwise.
type FieldExtractor struct {
	llm driven.LLMService
}

// NewFieldExtractor creates a field extractor. llm may be nil, in
// which case only the deterministic path runs.
func NewFieldExtractor(llm driven.LLMService) *FieldExtractor {
	return &FieldExtractor{llm: llm}
}

// Extract parses the query into fields. It never fails: any
// reasoning-service problem falls through to the deterministic path.
func (e *FieldExtractor) Extract(ctx context.Context, query string) ExtractionResult {
	logger.Section("Field Extraction")

	fields, err := e.extractWithLLM(ctx, query)
	if err == nil {
		logger.Debug("Reasoning path extracted %d fields", len(fields))
		return ExtractionResult{Fields: fields, Path: domain.PathReasoning}
	}

	logger.Info("Falling back to pattern extraction: %v", err)
	return ExtractionResult{
		Fields: extractWithRules(query),
		Path:   domain.PathFallback,
		Cause:  err,
	}
}

// extractWithLLM asks the reasoning service for the field map and
// parses its reply strictly as a JSON object of string values.
func (e *FieldExtractor) extractWithLLM(ctx context.Context, query string) (domain.ParsedFields, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	reply, err := e.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: extractionPrompt},
		{Role: "user", Content: query},
	}, driven.ChatOptions{MaxTokens: 200, Temperature: 0})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		return nil, fmt.Errorf("malformed extraction reply: %w", err)
	}

	fields := make(domain.ParsedFields, len(raw))
	for key, value := range raw {
		str, ok := value.(string)
		if !ok || str == "" {
			continue
		}
		fields[key] = str
	}
	return fields, nil
}

// extractWithRules applies the deterministic patterns in order.
// Fields with no match are simply absent from the result.
func extractWithRules(query string) domain.ParsedFields {
	fields := make(domain.ParsedFields)
	for _, rule := range fallbackRules {
		if _, ok := fields[rule.field]; ok {
			continue
		}
		match := rule.pattern.FindStringSubmatch(query)
		if match == nil {
			continue
		}
		fields[rule.field] = match[rule.group]
	}
	return fields
}

// stripCodeFence removes a surrounding markdown code fence, which
// models add despite being told to output raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
