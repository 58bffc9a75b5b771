package driven

import "context"

// LLMService is the external reasoning capability: given a prompt it
// returns text, possibly slow, unavailable, or malformed. Callers
// must treat the reply as untrusted text and keep a deterministic
// fallback for every use.
type LLMService interface {
	// Chat sends an ordered conversation and returns the raw reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model in use.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system" or "user".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures generation limits.
type ChatOptions struct {
	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls randomness (0 = deterministic).
	Temperature float64
}
