package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

// outcomeStatuses are the choices of the outcome form, in display order.
var outcomeStatuses = []models.ProposalStatus{models.StatusWon, models.StatusLost, models.StatusStalled}

// Focus positions in the outcome form. The last three only exist for won.
const (
	outcomeFocusStatus = iota
	outcomeFocusNotes
	outcomeFocusWhatWorked
	outcomeFocusTags
	outcomeFocusSave
)

type outcomeForm struct {
	status      int
	notes       textinput.Model
	whatWorked  textinput.Model
	tags        textinput.Model
	saveExample bool
	focus       int
}

func (f outcomeForm) outcome() models.ProposalStatus {
	return outcomeStatuses[f.status]
}

func (f outcomeForm) fieldCount() int {
	if f.outcome() == models.StatusWon {
		return outcomeFocusSave + 1
	}
	return outcomeFocusNotes + 1
}

func (f outcomeForm) input(id string) proposals.OutcomeInput {
	in := proposals.OutcomeInput{
		ProposalID: id,
		Outcome:    f.outcome(),
		Notes:      strings.TrimSpace(f.notes.Value()),
	}
	if in.Outcome != models.StatusWon {
		return in
	}
	in.WhatWorked = strings.TrimSpace(f.whatWorked.Value())
	in.SaveAsExample = f.saveExample
	if raw := strings.TrimSpace(f.tags.Value()); raw != "" {
		in.Tags = strings.Split(raw, ",")
	}
	return in
}

func (m *Model) initOutcomeForm() {
	newInput := func(placeholder string) textinput.Model {
		t := textinput.New()
		t.Placeholder = placeholder
		t.CharLimit = 500
		return t
	}
	m.outcome = outcomeForm{
		notes:       newInput("What happened?"),
		whatWorked:  newInput("What made this one land?"),
		tags:        newInput("pilot, manufacturing"),
		saveExample: true,
	}
	m.notice = proposals.Notice{}
}

func (m *Model) focusOutcomeField(i int) tea.Cmd {
	n := m.outcome.fieldCount()
	m.outcome.focus = (i + n) % n
	m.outcome.notes.Blur()
	m.outcome.whatWorked.Blur()
	m.outcome.tags.Blur()
	switch m.outcome.focus {
	case outcomeFocusNotes:
		return m.outcome.notes.Focus()
	case outcomeFocusWhatWorked:
		return m.outcome.whatWorked.Focus()
	case outcomeFocusTags:
		return m.outcome.tags.Focus()
	}
	return nil
}

func (m Model) renderOutcomeView() string {
	var s strings.Builder
	f := m.outcome

	s.WriteString(titleStyle.Render("RECORD OUTCOME: " + strings.ToUpper(m.detail.Proposal.CompanyName())))
	s.WriteString("\n\n")

	marker := func(i int) string {
		if f.focus == i {
			return "> "
		}
		return "  "
	}

	var choices []string
	for i, st := range outcomeStatuses {
		if i == f.status {
			choices = append(choices, tabActiveStyle.Render(st.Label()))
		} else {
			choices = append(choices, tabInactiveStyle.Render(st.Label()))
		}
	}
	s.WriteString(marker(outcomeFocusStatus) + fieldLabelStyle.Render("Outcome:") + "\n")
	s.WriteString("  " + lipgloss.JoinHorizontal(lipgloss.Top, choices...) + "\n\n")

	s.WriteString(marker(outcomeFocusNotes) + fieldLabelStyle.Render("Notes:") + "\n")
	s.WriteString("  " + f.notes.View() + "\n\n")

	if f.outcome() == models.StatusWon {
		s.WriteString(marker(outcomeFocusWhatWorked) + fieldLabelStyle.Render("What worked:") + "\n")
		s.WriteString("  " + f.whatWorked.View() + "\n\n")
		s.WriteString(marker(outcomeFocusTags) + fieldLabelStyle.Render("Tags:") + "\n")
		s.WriteString("  " + f.tags.View() + "\n\n")
		check := "[ ]"
		if f.saveExample {
			check = "[x]"
		}
		s.WriteString(marker(outcomeFocusSave) + check + " Save as example\n")
	}

	help := []string{"Tab: Next field", "←/→: Change outcome", "Space: Toggle", "Ctrl+S: Save", "Esc: Cancel"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

func (m Model) handleOutcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.outcome

	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		return m, nil
	case "ctrl+s":
		in := f.input(m.detail.Proposal.ID)
		m.notice = proposals.Info("Saving outcome...")
		return m, m.recordOutcome(in)
	case "tab", "down":
		cmd := m.focusOutcomeField(f.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusOutcomeField(f.focus - 1)
		return m, cmd
	}

	switch f.focus {
	case outcomeFocusStatus:
		switch msg.String() {
		case "left", "h":
			f.status = (f.status + len(outcomeStatuses) - 1) % len(outcomeStatuses)
		case "right", "l", " ":
			f.status = (f.status + 1) % len(outcomeStatuses)
		}
		return m, nil
	case outcomeFocusSave:
		if msg.String() == " " || msg.String() == "enter" {
			f.saveExample = !f.saveExample
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case outcomeFocusNotes:
		f.notes, cmd = f.notes.Update(msg)
	case outcomeFocusWhatWorked:
		f.whatWorked, cmd = f.whatWorked.Update(msg)
	case outcomeFocusTags:
		f.tags, cmd = f.tags.Update(msg)
	}
	return m, cmd
}

func (m Model) recordOutcome(in proposals.OutcomeInput) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.RecordOutcome(m.ctx, in); err != nil {
			return actionMsg{notice: proposals.GatewayNotice(err, "Failed to update status")}
		}
		return actionMsg{notice: proposals.OutcomeNotice(in.Outcome), reload: in.ProposalID}
	}
}
