package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
)

// stubQueryService replays a canned outcome.
type stubQueryService struct {
	outcome  *driving.QueryOutcome
	err      error
	gotQuery string
	gotTopK  int
}

func (s *stubQueryService) Query(_ context.Context, query string, topK int) (*driving.QueryOutcome, error) {
	s.gotQuery = query
	s.gotTopK = topK
	return s.outcome, s.err
}

func approvedOutcome() *driving.QueryOutcome {
	return &driving.QueryOutcome{
		Fields: domain.ParsedFields{"procedure": "knee surgery", "city": "Pune"},
		Response: domain.QueryResponse{
			Decision: domain.DecisionApproved,
			Justification: []domain.Clause{
				{ClauseID: "clause_0", Text: "Knee surgery is covered."},
			},
		},
	}
}

func TestEnterDispatchesQuery(t *testing.T) {
	service := &stubQueryService{outcome: approvedOutcome()}
	m := New(service, 5)
	m.input.SetValue("46M, knee surgery, Pune")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(queryResultMsg)
	require.True(t, ok)
	assert.NoError(t, result.err)
	assert.Equal(t, "46M, knee surgery, Pune", service.gotQuery)
	assert.Equal(t, 5, service.gotTopK)

	model := updated.(Model)
	assert.True(t, model.waiting)
}

func TestEnterIgnoresBlankInput(t *testing.T) {
	m := New(&stubQueryService{}, 5)
	m.input.SetValue("   ")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, updated.(Model).waiting)
}

func TestResultMessageRendersOutcome(t *testing.T) {
	m := New(&stubQueryService{}, 5)
	m.waiting = true

	updated, _ := m.Update(queryResultMsg{outcome: approvedOutcome()})
	model := updated.(Model)

	assert.False(t, model.waiting)
	view := model.View()
	assert.Contains(t, view, "approved")
	assert.Contains(t, view, "knee surgery")
	assert.Contains(t, view, "clause_0")
}

func TestErrorMessageIsShown(t *testing.T) {
	m := New(&stubQueryService{}, 5)

	updated, _ := m.Update(queryResultMsg{err: errors.New("no index found")})
	view := updated.(Model).View()

	assert.Contains(t, view, "no index found")
}

func TestEscQuits(t *testing.T) {
	m := New(&stubQueryService{}, 5)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
