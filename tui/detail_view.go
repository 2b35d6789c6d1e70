package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

func (m Model) renderDetailView() string {
	if m.detail == nil {
		return "No proposal selected"
	}
	d := m.detail
	p := d.Proposal

	var s strings.Builder

	s.WriteString(titleStyle.Render(strings.ToUpper(p.CompanyName())))
	s.WriteString("\n")
	s.WriteString(m.renderField("Status", p.Status.Label()))
	if line := proposals.ContactLine(p); line != "" {
		s.WriteString(m.renderField("Contact", line))
	}
	s.WriteString(m.renderField("Estimate", models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh)))
	s.WriteString(m.renderField("Created", p.CreatedAt.Format("Jan 2, 2006")))
	if p.SentAt != nil {
		s.WriteString(m.renderField("Sent", p.SentAt.Format("Jan 2, 2006")))
	}
	s.WriteString("\n")

	var tabs []string
	for i, t := range proposals.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label())
		if t == d.Tab {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	s.WriteString("\n\n")

	switch d.Tab {
	case proposals.TabAnalysis:
		s.WriteString(m.renderAnalysisTab(p))
	case proposals.TabProposal:
		s.WriteString(m.renderProposalTab(d))
	case proposals.TabEmail:
		s.WriteString(m.renderEmailTab(d))
	}

	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderAnalysisTab(p *models.Proposal) string {
	var s strings.Builder
	a := p.Analysis

	s.WriteString(sectionStyle.Render("Company"))
	s.WriteString("\n")
	s.WriteString(m.renderField("Industry", a.CompanyContext.Industry))
	s.WriteString(m.renderField("Size", a.CompanyContext.EstimatedSize))
	s.WriteString(m.renderField("AI maturity", a.CompanyContext.CurrentMaturityLevel.Label()))
	if len(a.CompanyContext.KeySystemsMentioned) > 0 {
		s.WriteString(m.renderField("Systems", strings.Join(a.CompanyContext.KeySystemsMentioned, ", ")))
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("Stakeholders"))
	s.WriteString("\n")
	if c := a.StakeholderMap.Champion; c.Name != "" {
		s.WriteString(m.renderField("Champion", fmt.Sprintf("%s (%s)", c.Name, c.Role)))
	}
	for _, dm := range a.StakeholderMap.DecisionMakers {
		s.WriteString(m.renderField("Decision maker", fmt.Sprintf("%s (%s), %s", dm.Name, dm.Role, dm.Stance)))
	}

	if len(a.PainSignals) > 0 {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render("Pain signals"))
		s.WriteString("\n")
		for _, ps := range a.PainSignals {
			fmt.Fprintf(&s, "  • %s [%s]\n", ps.Signal, ps.Category)
		}
	}

	if a.TimelineSignals.UrgencyScore > 0 {
		s.WriteString("\n")
		s.WriteString(m.renderField("Urgency", fmt.Sprintf("%d/10", a.TimelineSignals.UrgencyScore)))
	}

	if len(a.Cautions) > 0 {
		s.WriteString("\n")
		s.WriteString(sectionStyle.Render("Cautions"))
		s.WriteString("\n")
		for _, c := range a.Cautions {
			fmt.Fprintf(&s, "  ! %s\n", c)
		}
	}
	return s.String()
}

func (m Model) renderProposalTab(d *proposals.Detail) string {
	var s strings.Builder
	approach := d.Proposal.Analysis.RecommendedApproach

	if approach.Summary != "" {
		s.WriteString(approach.Summary)
		s.WriteString("\n\n")
	}
	for _, ph := range approach.Phases {
		s.WriteString(sectionStyle.Render(fmt.Sprintf("Phase %d: %s", ph.PhaseNumber, ph.PhaseLabel)))
		fmt.Fprintf(&s, "  %s\n", models.FormatRange(ph.PhaseTotalLow, ph.PhaseTotalHigh))
		for _, o := range ph.Offerings {
			fmt.Fprintf(&s, "  • %s  %s  %s\n", o.Name, models.FormatRange(o.PriceLow, o.PriceHigh), o.Timeline)
		}
		if ph.PricingNote != "" {
			fmt.Fprintf(&s, "  %s\n", ph.PricingNote)
		}
		s.WriteString("\n")
	}

	pricing := d.Pricing()
	s.WriteString(m.renderField("Initial", pricing.InitialLabel()))
	if pricing.HasOngoing {
		s.WriteString(m.renderField("Ongoing", pricing.OngoingLabel()))
	}
	return s.String()
}

func (m Model) renderEmailTab(d *proposals.Detail) string {
	var s strings.Builder
	s.WriteString(m.renderField("To", d.Recipient()))
	s.WriteString(m.renderField("Subject", d.Subject))
	s.WriteString("\n")
	s.WriteString(d.Body)
	s.WriteString("\n")
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{"Tab/1-3: Switch tab"}
	if m.detail.Tab == proposals.TabEmail {
		help = append(help, "e: Edit", "c: Copy")
	}
	if m.detail.CanMarkSent() {
		help = append(help, "s: Mark sent")
	}
	if m.detail.ShowHeaderActions() {
		help = append(help, "w/l: Won/Lost")
	}
	if m.detail.CanRecordOutcome() {
		help = append(help, "o: Record outcome")
	}
	help = append(help, "p: PDF", "g: Stakeholders", "Esc: Back", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.viewMode = ViewList
		return m, nil
	}
	id := m.detail.Proposal.ID

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.detail = nil
		m.notice = proposals.Notice{}
		return m, m.loadDashboard()
	case "tab", "right":
		m.detail.NextTab()
	case "shift+tab", "left":
		m.detail.PrevTab()
	case "1", "2", "3":
		m.detail.Tab = proposals.Tabs[int(msg.String()[0]-'1')]
	case "w", "l":
		if m.detail.ShowHeaderActions() {
			m.detail.HeaderAction()
		}
	case "s":
		if m.detail.CanMarkSent() {
			return m, m.markSent(id)
		}
	case "o":
		if m.detail.CanRecordOutcome() {
			m.initOutcomeForm()
			m.viewMode = ViewOutcome
		}
	case "p":
		m.notice = proposals.Info("Generating PDF...")
		return m, m.requestPDF(id)
	case "c":
		if err := m.copy(m.detail.CopyText()); err != nil {
			m.notice = proposals.Failure("Failed to copy")
		} else {
			m.notice = proposals.Success("Copied to clipboard!")
		}
	case "e":
		m.detail.Tab = proposals.TabEmail
		m.initEmailEdit()
		m.viewMode = ViewEmailEdit
		cmd := m.subjectInput.Focus()
		return m, cmd
	case "g":
		m.graphDOT = ""
		m.viewMode = ViewGraph
		return m, m.stakeholderGraph(id)
	case "r":
		m.svc.Reload(id)
		return m, m.loadProposal(id)
	}

	return m, nil
}

func (m Model) markSent(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.MarkSent(m.ctx, id); err != nil {
			return actionMsg{notice: proposals.GatewayNotice(err, "Failed to update status")}
		}
		return actionMsg{notice: proposals.Success("Proposal marked as sent"), reload: id}
	}
}

func (m Model) requestPDF(id string) tea.Cmd {
	return func() tea.Msg {
		res := m.svc.RequestPDF(m.ctx, id)
		n := res.Notice()
		if res.Kind == proposals.PDFReady {
			n.Message += " " + res.URL
		}
		return actionMsg{notice: n}
	}
}
