// Package cli provides the cobra command tree for the clausewise
// binary.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clausewise/clausewise-cli/internal/adapters/driven/ai"
	configfile "github.com/clausewise/clausewise-cli/internal/adapters/driven/config/file"
	"github.com/clausewise/clausewise-cli/internal/adapters/driven/storage/sqlite"
	"github.com/clausewise/clausewise-cli/internal/adapters/driven/vectorstore/flatfile"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
	"github.com/clausewise/clausewise-cli/internal/core/services"
	"github.com/clausewise/clausewise-cli/internal/logger"
	"github.com/clausewise/clausewise-cli/internal/normalisers/docx"
	"github.com/clausewise/clausewise-cli/internal/normalisers/eml"
	"github.com/clausewise/clausewise-cli/internal/normalisers/pdf"
	"github.com/clausewise/clausewise-cli/internal/normalisers/plaintext"
	"github.com/clausewise/clausewise-cli/internal/postprocessors"
	"github.com/clausewise/clausewise-cli/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "clausewise",
	Short: "Answer insurance claim queries from policy documents",
	Long: `clausewise ingests policy documents into a semantic index and
answers natural-language claim queries with a structured
approve/reject decision justified by the relevant clauses.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print pipeline debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.clausewise)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles the wired services for one command invocation.
type app struct {
	ingest driving.IngestService
	query  driving.QueryService
	topK   int
	closer []func() error
}

// Close releases all resources held by the app.
func (a *app) Close() {
	for _, c := range a.closer {
		c() //nolint:errcheck
	}
}

// buildApp wires the full pipeline from settings. The reasoning
// service is optional: if it cannot be constructed (typically a
// missing GEMINI_API_KEY), the pipeline runs on its deterministic
// paths and a warning says so once, at startup.
func buildApp() (*app, error) {
	configStore, err := configfile.NewStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(settings.EmbeddingSettings())
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateLLMService(settings.LLMSettings())
	if err != nil {
		logger.Warn("Reasoning service unavailable, using deterministic paths: %v", err)
		llm = nil
	}

	docStore, err := sqlite.NewStore(filepath.Join(configStore.ConfigDir(), "data"))
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	vectors, err := flatfile.New(filepath.Join(configStore.ConfigDir(), "data", "vector_db"), embedder)
	if err != nil {
		docStore.Close()
		embedder.Close()
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	registry := services.NewNormaliserRegistry(
		plaintext.New(),
		pdf.New(),
		docx.New(),
		eml.New(),
	)
	index := settings.IndexSettings()
	pipeline := postprocessors.NewPipeline(chunker.New(
		chunker.WithChunkSize(index.ChunkSize),
		chunker.WithOverlap(index.ChunkOverlap),
	))

	a := &app{
		ingest: services.NewIngestService(registry, pipeline, docStore, vectors),
		query: services.NewQueryService(
			services.NewFieldExtractor(llm),
			vectors,
			services.NewDecisionEngine(llm),
		),
		topK:   index.TopK,
		closer: []func() error{vectors.Close, docStore.Close, embedder.Close},
	}
	if llm != nil {
		a.closer = append(a.closer, llm.Close)
	}
	return a, nil
}
