// Package tui provides an interactive terminal interface for claim
// queries: a single input line, with the parsed fields, decision,
// and cited clauses rendered below.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clausewise/clausewise-cli/internal/core/domain"
	"github.com/clausewise/clausewise-cli/internal/core/ports/driving"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	approvedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	clauseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// queryResultMsg carries a finished query back into the update loop.
type queryResultMsg struct {
	outcome *driving.QueryOutcome
	err     error
}

// Model is the Bubble Tea model for the query interface.
type Model struct {
	service driving.QueryService
	topK    int

	input   textinput.Model
	outcome *driving.QueryOutcome
	err     error
	waiting bool
}

// New creates a new query TUI model.
func New(service driving.QueryService, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "46M, knee surgery, Pune, 3-month policy"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		service: service,
		topK:    topK,
		input:   ti,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key events and query results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			query := strings.TrimSpace(m.input.Value())
			if query == "" || m.waiting {
				return m, nil
			}
			m.waiting = true
			m.err = nil
			return m, m.runQuery(query)
		}

	case queryResultMsg:
		m.waiting = false
		m.outcome = msg.outcome
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runQuery executes the query pipeline off the update loop.
func (m Model) runQuery(query string) tea.Cmd {
	service, topK := m.service, m.topK
	return func() tea.Msg {
		outcome, err := service.Query(context.Background(), query, topK)
		return queryResultMsg{outcome: outcome, err: err}
	}
}

// View renders the interface.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("clausewise claim query"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.waiting:
		b.WriteString("Parsing query and retrieving clauses…\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.outcome != nil:
		b.WriteString(renderOutcome(m.outcome))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: run query • esc: quit"))
	return b.String()
}

// renderOutcome formats parsed fields, decision, and clauses.
func renderOutcome(outcome *driving.QueryOutcome) string {
	var b strings.Builder

	if len(outcome.Fields) > 0 {
		b.WriteString(labelStyle.Render("Parsed fields"))
		b.WriteString("\n")
		names := make([]string, 0, len(outcome.Fields))
		for name := range outcome.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("  %-16s %s\n", name+":", outcome.Fields[name]))
		}
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Decision"))
	b.WriteString("  ")
	b.WriteString(renderDecision(outcome.Response.Decision))
	if outcome.Response.Amount != nil {
		b.WriteString(fmt.Sprintf("  (amount: %.2f)", *outcome.Response.Amount))
	}
	b.WriteString("\n\n")

	if len(outcome.Response.Justification) > 0 {
		b.WriteString(labelStyle.Render("Clauses"))
		b.WriteString("\n")
		for _, clause := range outcome.Response.Justification {
			line := fmt.Sprintf("  [%s] %s", clause.ClauseID, singleLine(clause.Text, 100))
			b.WriteString(clauseStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderDecision colours the decision.
func renderDecision(d domain.Decision) string {
	switch d {
	case domain.DecisionApproved:
		return approvedStyle.Render(string(d))
	case domain.DecisionRejected:
		return rejectedStyle.Render(string(d))
	default:
		return string(d)
	}
}

// singleLine flattens and truncates text for one-line display.
func singleLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
