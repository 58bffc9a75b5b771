// Package file provides a TOML-backed settings store kept in the
// clausewise config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
)

// configFileName is the settings file inside the config directory.
const configFileName = "config.toml"

// Default values applied when the settings file is absent or sparse.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	DefaultTopK         = 5
)

// Settings is the full on-disk configuration.
type Settings struct {
	Index     IndexSection    `toml:"index"`
	LLM       ProviderSection `toml:"llm"`
	Embedding ProviderSection `toml:"embedding"`
}

// IndexSection configures chunking and retrieval.
type IndexSection struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	TopK         int `toml:"top_k"`
}

// ProviderSection configures an AI provider.
type ProviderSection struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// Store loads and saves settings in TOML format.
type Store struct {
	configDir string
	filePath  string
}

// NewStore creates a settings store rooted at configDir.
// If configDir is empty, defaults to ~/.clausewise.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".clausewise")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &Store{
		configDir: configDir,
		filePath:  filepath.Join(configDir, configFileName),
	}, nil
}

// ConfigDir returns the directory holding config and data files.
func (s *Store) ConfigDir() string {
	return s.configDir
}

// Load reads settings from disk, fills defaults, and applies
// environment overrides. A missing file yields pure defaults.
func (s *Store) Load() (*Settings, error) {
	settings := &Settings{}

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyDefaults(settings)
	applyEnvOverrides(settings)
	return settings, nil
}

// Save writes settings to disk in TOML format.
func (s *Store) Save(settings *Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills zero values with defaults.
func applyDefaults(settings *Settings) {
	if settings.Index.ChunkSize <= 0 {
		settings.Index.ChunkSize = DefaultChunkSize
	}
	if settings.Index.ChunkOverlap <= 0 {
		settings.Index.ChunkOverlap = DefaultChunkOverlap
	}
	if settings.Index.TopK <= 0 {
		settings.Index.TopK = DefaultTopK
	}
	if settings.LLM.Provider == "" {
		settings.LLM.Provider = domain.ProviderGemini
	}
	if settings.Embedding.Provider == "" {
		settings.Embedding.Provider = domain.ProviderGemini
	}
}

// applyEnvOverrides applies GEMINI_MODEL on top of the file. The API
// key is environment-only and never written to the config file.
func applyEnvOverrides(settings *Settings) {
	if model := os.Getenv("GEMINI_MODEL"); model != "" && settings.LLM.Provider == domain.ProviderGemini {
		settings.LLM.Model = model
	}
}

// LLMSettings converts the LLM section to domain settings, reading
// the API key from the environment.
func (s *Settings) LLMSettings() *domain.LLMSettings {
	return &domain.LLMSettings{
		Provider: s.LLM.Provider,
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:    s.LLM.Model,
		BaseURL:  s.LLM.BaseURL,
	}
}

// EmbeddingSettings converts the embedding section to domain
// settings, reading the API key from the environment.
func (s *Settings) EmbeddingSettings() *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider: s.Embedding.Provider,
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:    s.Embedding.Model,
		BaseURL:  s.Embedding.BaseURL,
	}
}

// IndexSettings converts the index section to domain settings.
func (s *Settings) IndexSettings() domain.IndexSettings {
	return domain.IndexSettings{
		ChunkSize:    s.Index.ChunkSize,
		ChunkOverlap: s.Index.ChunkOverlap,
		TopK:         s.Index.TopK,
	}
}
