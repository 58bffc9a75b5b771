package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// mockNormaliser is a stub normaliser with configurable identity.
type mockNormaliser struct {
	mimeTypes []string
	priority  int
}

func (m *mockNormaliser) SupportedMIMETypes() []string { return m.mimeTypes }
func (m *mockNormaliser) Priority() int                { return m.priority }

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Document: domain.Document{URI: raw.URI}}, nil
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/docs/policy.pdf", "application/pdf"},
		{"/docs/policy.PDF", "application/pdf"},
		{"/docs/policy.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"/mail/claim.eml", "message/rfc822"},
		{"/docs/notes.txt", "text/plain"},
		{"/docs/readme.md", "text/markdown"},
		{"/docs/unknown.xyz", "application/octet-stream"},
		{"/docs/no-extension", "application/octet-stream"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectMIMEType(tc.path))
		})
	}
}

func TestRegistry_ForMIMEType(t *testing.T) {
	pdf := &mockNormaliser{mimeTypes: []string{"application/pdf"}, priority: 50}
	plain := &mockNormaliser{mimeTypes: []string{"text/plain"}, priority: 5}

	registry := NewNormaliserRegistry(pdf, plain)

	got, err := registry.ForMIMEType("application/pdf")
	require.NoError(t, err)
	assert.Same(t, pdf, got)

	got, err = registry.ForMIMEType("text/plain")
	require.NoError(t, err)
	assert.Same(t, plain, got)
}

func TestRegistry_UnknownTypeFallsBack(t *testing.T) {
	pdf := &mockNormaliser{mimeTypes: []string{"application/pdf"}, priority: 50}
	plain := &mockNormaliser{mimeTypes: []string{"text/plain"}, priority: 5}

	registry := NewNormaliserRegistry(pdf, plain)

	// The lowest-priority normaliser doubles as the fallback.
	got, err := registry.ForMIMEType("application/x-whatever")
	require.NoError(t, err)
	assert.Same(t, plain, got)
}

func TestRegistry_HigherPriorityWins(t *testing.T) {
	generic := &mockNormaliser{mimeTypes: []string{"text/plain"}, priority: 5}
	specific := &mockNormaliser{mimeTypes: []string{"text/plain"}, priority: 50}

	registry := NewNormaliserRegistry(generic, specific)

	got, err := registry.ForMIMEType("text/plain")
	require.NoError(t, err)
	assert.Same(t, specific, got)
}

func TestRegistry_Empty(t *testing.T) {
	registry := NewNormaliserRegistry()

	_, err := registry.ForMIMEType("text/plain")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
