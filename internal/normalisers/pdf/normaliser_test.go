package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driven"
)

// mockRunner records the command invocation and returns canned output.
type mockRunner struct {
	output   []byte
	err      error
	gotName  string
	gotArgs  []string
	runCalls int
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.runCalls++
	m.gotName = name
	m.gotArgs = args
	return m.output, m.err
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	assert.Equal(t, []string{"application/pdf"}, normaliser.SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_Success(t *testing.T) {
	runner := &mockRunner{output: []byte("Group Health Policy\n\nSection 1: knee surgery is covered.\n")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		URI:      "/docs/policy.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.7 ..."),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, runner.runCalls)
	assert.Equal(t, "pdftotext", runner.gotName)
	assert.Equal(t, []string{"/docs/policy.pdf", "-"}, runner.gotArgs)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Group Health Policy", doc.Title)
	assert.Contains(t, doc.Content, "knee surgery is covered")
	assert.Equal(t, "pdf", doc.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := NewWithRunner(&mockRunner{})

	result, err := normaliser.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_ExtractionFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		URI:      "/docs/corrupt.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("not a pdf"),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	runner := &mockRunner{output: []byte("   \n\n  ")}
	normaliser := NewWithRunner(runner)

	raw := &domain.RawDocument{
		URI:      "/docs/group_health_policy.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.7 ..."),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "group health policy", result.Document.Title)
	assert.Empty(t, result.Document.Content)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
