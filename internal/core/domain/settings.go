package domain

// Provider names for AI services.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// LLMSettings configures the reasoning service.
type LLMSettings struct {
	// Provider is "gemini" or "ollama".
	Provider string

	// APIKey authenticates hosted providers. Required for Gemini;
	// its absence makes the reasoning capability unavailable at
	// construction time, not per call.
	APIKey string

	// Model overrides the provider default model.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// IsConfigured reports whether an LLM provider is selected.
func (s *LLMSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	// Provider is "gemini" or "ollama".
	Provider string

	// APIKey authenticates hosted providers.
	APIKey string

	// Model overrides the provider default model.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// IsConfigured reports whether an embedding provider is selected.
func (s *EmbeddingSettings) IsConfigured() bool {
	return s != nil && s.Provider != ""
}

// IndexSettings configures chunking and retrieval.
type IndexSettings struct {
	// ChunkSize is the window size in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between windows in characters.
	ChunkOverlap int

	// TopK is the default number of clauses retrieved per query.
	TopK int
}
