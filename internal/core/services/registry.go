package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// extensionMIMETypes maps file extensions to MIME types for format
// detection. Unknown extensions fall through to octet-stream, which
// the plaintext normaliser handles with lossy decoding.
var extensionMIMETypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eml":  "message/rfc822",
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
}

// DetectMIMEType determines the MIME type of a file by extension.
func DetectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := extensionMIMETypes[ext]; ok {
		return mimeType
	}
	return "application/octet-stream"
}

// NormaliserRegistry selects a normaliser for a MIME type by
// priority, with the lowest-priority normalisers acting as the
// fallback for unknown types.
type NormaliserRegistry struct {
	byMIME   map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewNormaliserRegistry creates a registry over the given normalisers.
func NewNormaliserRegistry(normalisers ...driven.Normaliser) *NormaliserRegistry {
	r := &NormaliserRegistry{byMIME: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for all its supported MIME types.
// On conflict the higher priority wins.
func (r *NormaliserRegistry) Register(n driven.Normaliser) {
	for _, mimeType := range n.SupportedMIMETypes() {
		existing, ok := r.byMIME[mimeType]
		if !ok || n.Priority() > existing.Priority() {
			r.byMIME[mimeType] = n
		}
	}
	// The least specific normaliser doubles as the fallback.
	if r.fallback == nil || n.Priority() < r.fallback.Priority() {
		r.fallback = n
	}
}

// ForMIMEType returns the normaliser for the given MIME type, or the
// fallback when no dedicated one exists.
func (r *NormaliserRegistry) ForMIMEType(mimeType string) (driven.Normaliser, error) {
	if n, ok := r.byMIME[mimeType]; ok {
		return n, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, mimeType)
}
