package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pitch/proposals"
)

var graphBoxStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func (m Model) renderGraphView() string {
	var s strings.Builder

	title := "STAKEHOLDER MAP"
	if m.detail != nil {
		title += ": " + strings.ToUpper(m.detail.Proposal.CompanyName())
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("Generating graph...\n")
	} else {
		s.WriteString(graphBoxStyle.Render(strings.TrimRight(m.graphDOT, "\n")))
		if m.detail != nil {
			s.WriteString("\n")
			s.WriteString(fieldLabelStyle.Render("Render with: pitch viz graph stakeholders --output map.dot " + m.detail.Proposal.ID))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"c: Copy DOT",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.graphDOT = ""
	case "c":
		if m.graphDOT != "" && m.copy(m.graphDOT) == nil {
			m.notice = proposals.Success("Copied to clipboard!")
		}
	}

	return m, nil
}
