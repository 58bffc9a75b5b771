// Package ai provides factory functions for creating AI service
// adapters from settings.
package ai

import (
	"fmt"

	geminiembed "github.com/clausewise/clausewise-cli/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/clausewise/clausewise-cli/internal/adapters/driven/embedding/ollama"
	geminillm "github.com/clausewise/clausewise-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/clausewise/clausewise-cli/internal/adapters/driven/llm/ollama"
	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// CreateLLMService creates a reasoning-service adapter from settings.
// Returns (nil, nil) when no provider is configured: the pipeline
// then runs on its deterministic paths only.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.ProviderGemini:
		svc, err := geminillm.New(geminillm.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	case domain.ProviderOllama:
		svc, err := ollamallm.New(ollamallm.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateEmbeddingService creates an embedding adapter from settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	switch settings.Provider {
	case domain.ProviderGemini:
		svc, err := geminiembed.New(geminiembed.Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case domain.ProviderOllama:
		svc, err := ollamaembed.New(ollamaembed.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}
