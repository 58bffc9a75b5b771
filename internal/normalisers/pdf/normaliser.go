// Package pdf extracts text from PDF documents by shelling out to
// pdftotext (poppler-utils). Layout reconstruction is deliberately
// disabled; the pipeline only needs running text for chunking.
package pdf

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct {
	runner driven.CommandRunner
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates a new PDF normaliser using pdftotext.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with a custom command
// runner. Used by tests.
func NewWithRunner(runner driven.CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts text from a PDF document. pdftotext reads the
// file at raw.URI directly rather than the in-memory bytes.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// "-" writes extracted text to stdout.
	out, err := n.runner.Run(ctx, "pdftotext", raw.URI, "-")
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.TrimSpace(string(out))

	doc := domain.Document{
		ID:      uuid.New().String(),
		URI:     raw.URI,
		Title:   extractTitle(content, raw.URI),
		Content: content,
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"format":    "pdf",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractTitle uses the first non-empty line of the extracted text,
// falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
