package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PITCH PROPOSALS"))
	s.WriteString("\n\n")

	s.WriteString(m.renderStats())
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderTable())
	s.WriteString("\n\n")

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderStats() string {
	if m.dashboard == nil {
		return ""
	}
	st := m.dashboard.Stats
	return fmt.Sprintf("%d total · %d pending review · %d sent · %d won · %d%% win rate",
		st.Total, st.Pending, st.Sent, st.Won, st.WinRate)
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, f := range proposals.Filters {
		if i == m.filter {
			rendered = append(rendered, tabActiveStyle.Render(f.Label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(f.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch {
	case m.err != nil:
		return fmt.Sprintf("Error: %s", proposals.NoticeFor(m.err, "Failed to load proposals").Message)
	case m.loading || m.dashboard == nil:
		return "Loading proposals..."
	case len(m.dashboard.Proposals) == 0:
		return m.currentFilter().EmptyMessage()
	}

	columns := []table.Column{
		{Title: "Company", Width: 28},
		{Title: "Status", Width: 15},
		{Title: "Priority", Width: 8},
		{Title: "Estimate", Width: 14},
		{Title: "Created", Width: 12},
	}

	var rows []table.Row
	for _, p := range m.dashboard.Proposals {
		rows = append(rows, table.Row{
			p.CompanyName(),
			p.Status.Label(),
			p.Priority.Label(),
			models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh),
			p.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Filter",
		"Enter: Open",
		"n: New proposal",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.dashboard != nil && m.selectedRow < len(m.dashboard.Proposals)-1 {
			m.selectedRow++
		}
	case "tab":
		m.filter = (m.filter + 1) % len(proposals.Filters)
		m.selectedRow = 0
		return m, m.loadDashboard()
	case "shift+tab":
		m.filter = (m.filter + len(proposals.Filters) - 1) % len(proposals.Filters)
		m.selectedRow = 0
		return m, m.loadDashboard()
	case "r":
		m.svc.Reload(m.selectedID())
		m.loading = true
		return m, m.loadDashboard()
	case "enter":
		if id := m.selectedID(); id != "" {
			m.notice = proposals.Notice{}
			return m, m.loadProposal(id)
		}
	case "n":
		m.initNewForm()
		m.viewMode = ViewNew
		cmd := m.formInputs[0].Focus()
		return m, cmd
	}

	return m, nil
}

func (m Model) selectedID() string {
	if m.dashboard == nil || m.selectedRow >= len(m.dashboard.Proposals) {
		return ""
	}
	return m.dashboard.Proposals[m.selectedRow].ID
}
