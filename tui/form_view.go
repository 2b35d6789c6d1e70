package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/pitch/proposals"
)

// Order of the single-line inputs in the new proposal form.
const (
	fieldCompany = iota
	fieldContactName
	fieldContactEmail
	fieldContactRole
	fieldContext
	fieldMeeting
)

var newFormLabels = []string{
	"Company:",
	"Contact name:",
	"Contact email:",
	"Contact role:",
	"Additional context:",
	"Fireflies meeting ID:",
}

func (m *Model) initNewForm() {
	m.formInputs = make([]textinput.Model, len(newFormLabels))
	for i := range m.formInputs {
		t := textinput.New()
		t.CharLimit = 200
		m.formInputs[i] = t
	}
	m.formInputs[fieldCompany].Placeholder = "Acme Corp"
	m.formInputs[fieldContactEmail].Placeholder = "jane@acme.com"
	m.formInputs[fieldContext].CharLimit = 1000

	m.notesInput = textarea.New()
	m.notesInput.Placeholder = "Paste discovery call notes, or leave empty to use the meeting transcript"
	m.notesInput.SetWidth(max(m.width-4, 40))
	m.notesInput.SetHeight(8)
	m.notesInput.CharLimit = 0

	m.focusIndex = 0
	m.notice = proposals.Notice{}
}

func (m Model) renderNewView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("NEW PROPOSAL"))
	s.WriteString("\n\n")

	for i, label := range newFormLabels {
		marker := "  "
		if i == m.focusIndex {
			marker = "> "
		}
		s.WriteString(marker + fieldLabelStyle.Render(label) + "\n")
		s.WriteString("  " + m.formInputs[i].View() + "\n\n")
	}

	marker := "  "
	if m.focusIndex == len(m.formInputs) {
		marker = "> "
	}
	s.WriteString(marker + fieldLabelStyle.Render("Discovery notes:") + "\n")
	s.WriteString(m.notesInput.View())
	s.WriteString("\n")

	help := []string{"Tab: Next field", "Shift+Tab: Previous", "Ctrl+S: Generate", "Esc: Cancel"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m *Model) focusNewField(i int) tea.Cmd {
	n := len(m.formInputs) + 1
	m.focusIndex = (i + n) % n
	for j := range m.formInputs {
		m.formInputs[j].Blur()
	}
	m.notesInput.Blur()
	if m.focusIndex == len(m.formInputs) {
		return m.notesInput.Focus()
	}
	return m.formInputs[m.focusIndex].Focus()
}

func (m Model) handleNewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		return m, nil
	case "tab":
		cmd := m.focusNewField(m.focusIndex + 1)
		return m, cmd
	case "shift+tab":
		cmd := m.focusNewField(m.focusIndex - 1)
		return m, cmd
	case "enter":
		if m.focusIndex < len(m.formInputs) {
			cmd := m.focusNewField(m.focusIndex + 1)
			return m, cmd
		}
	case "ctrl+s":
		in := m.newProposalInput()
		m.notice = proposals.Info("Generating proposal...")
		return m, m.generate(in)
	}

	var cmd tea.Cmd
	if m.focusIndex == len(m.formInputs) {
		m.notesInput, cmd = m.notesInput.Update(msg)
	} else {
		m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	}
	return m, cmd
}

func (m Model) newProposalInput() proposals.GenerateInput {
	value := func(i int) string { return strings.TrimSpace(m.formInputs[i].Value()) }
	return proposals.GenerateInput{
		CompanyName:        value(fieldCompany),
		ContactName:        value(fieldContactName),
		ContactEmail:       value(fieldContactEmail),
		ContactRole:        value(fieldContactRole),
		AdditionalContext:  value(fieldContext),
		FirefliesMeetingID: value(fieldMeeting),
		DiscoveryNotes:     strings.TrimSpace(m.notesInput.Value()),
	}
}

// generate falls back to the meeting transcript when no notes were typed.
func (m Model) generate(in proposals.GenerateInput) tea.Cmd {
	return func() tea.Msg {
		if in.DiscoveryNotes == "" && in.FirefliesMeetingID != "" {
			transcript, err := m.svc.Transcript(m.ctx, in.FirefliesMeetingID)
			if err != nil {
				return generatedMsg{err: err}
			}
			in.DiscoveryNotes = transcript
		}
		p, err := m.svc.Generate(m.ctx, in)
		return generatedMsg{proposal: p, err: err}
	}
}

func (m *Model) initEmailEdit() {
	m.subjectInput = textinput.New()
	m.subjectInput.CharLimit = 200
	m.subjectInput.SetValue(m.detail.Subject)

	m.bodyInput = textarea.New()
	m.bodyInput.SetWidth(max(m.width-4, 40))
	m.bodyInput.SetHeight(max(m.height-14, 6))
	m.bodyInput.CharLimit = 0
	m.bodyInput.SetValue(m.detail.Body)

	m.editFocus = 0
}

func (m Model) renderEmailEditView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EDIT EMAIL: " + strings.ToUpper(m.detail.Proposal.CompanyName())))
	s.WriteString("\n\n")
	s.WriteString(m.renderField("To", m.detail.Recipient()))
	s.WriteString(fieldLabelStyle.Render("Subject:") + " " + m.subjectInput.View() + "\n\n")
	s.WriteString(m.bodyInput.View())
	s.WriteString("\n")

	help := []string{"Tab: Switch field", "Ctrl+S: Save", "Esc: Discard"}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return s.String()
}

// handleEmailEditKeys edits the local draft; nothing is sent anywhere.
func (m Model) handleEmailEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		return m, nil
	case "ctrl+s":
		m.detail.Subject = m.subjectInput.Value()
		m.detail.Body = m.bodyInput.Value()
		m.viewMode = ViewDetail
		return m, nil
	case "tab", "shift+tab":
		m.editFocus = 1 - m.editFocus
		if m.editFocus == 0 {
			m.bodyInput.Blur()
			cmd := m.subjectInput.Focus()
			return m, cmd
		}
		m.subjectInput.Blur()
		cmd := m.bodyInput.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.editFocus == 0 {
		m.subjectInput, cmd = m.subjectInput.Update(msg)
	} else {
		m.bodyInput, cmd = m.bodyInput.Update(msg)
	}
	return m, cmd
}
