// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen dashboard and proposal review
package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
	"github.com/harperreed/pitch/viz"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEmailEdit
	ViewNew
	ViewOutcome
	ViewGraph
)

// Model is the main bubbletea model
type Model struct {
	svc      *proposals.Service
	ctx      context.Context
	viewMode ViewMode

	// List view state
	filter      int
	dashboard   *proposals.Dashboard
	selectedRow int
	loading     bool

	// Detail view state
	detail *proposals.Detail

	// Email edit state
	subjectInput textinput.Model
	bodyInput    textarea.Model
	editFocus    int

	// New proposal form state
	formInputs []textinput.Model
	notesInput textarea.Model
	focusIndex int

	// Outcome form state
	outcome outcomeForm

	// Graph view state
	graphDOT string

	// UI state
	notice proposals.Notice
	width  int
	height int
	err    error

	copy func(string) error
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, svc *proposals.Service) Model {
	return Model{
		svc:      svc,
		ctx:      ctx,
		viewMode: ViewList,
		loading:  true,
		width:    80,
		height:   24,
		copy:     clipboard.WriteAll,
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, svc *proposals.Service) error {
	_, err := tea.NewProgram(NewModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// messages produced by commands
type (
	dashboardMsg struct {
		dashboard *proposals.Dashboard
		err       error
	}
	proposalMsg struct {
		proposal *models.Proposal
		err      error
	}
	// actionMsg reports a finished action; reload names the proposal to refetch.
	actionMsg struct {
		notice proposals.Notice
		reload string
	}
	generatedMsg struct {
		proposal *models.Proposal
		err      error
	}
	graphMsg struct {
		dot string
		err error
	}
)

func (m Model) currentFilter() proposals.Filter {
	return proposals.Filters[m.filter]
}

func (m Model) loadDashboard() tea.Cmd {
	status := m.currentFilter().Status
	return func() tea.Msg {
		d, err := m.svc.Dashboard(m.ctx, status)
		return dashboardMsg{dashboard: d, err: err}
	}
}

func (m Model) loadProposal(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Get(m.ctx, id)
		return proposalMsg{proposal: p, err: err}
	}
}

func (m Model) stakeholderGraph(id string) tea.Cmd {
	return func() tea.Msg {
		dot, err := viz.NewGraphGenerator(m.svc).GenerateStakeholderGraph(m.ctx, id)
		return graphMsg{dot: dot, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadDashboard()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.dashboard = msg.dashboard
			if m.selectedRow >= len(m.dashboard.Proposals) {
				m.selectedRow = 0
			}
		}
		return m, nil

	case proposalMsg:
		if msg.err != nil {
			m.notice = proposals.NoticeFor(msg.err, "Failed to load proposal")
			return m, nil
		}
		if m.detail != nil && m.detail.Proposal.ID == msg.proposal.ID {
			m.detail.Refresh(msg.proposal)
		} else {
			m.detail = proposals.NewDetail(msg.proposal)
		}
		m.viewMode = ViewDetail
		return m, nil

	case actionMsg:
		m.notice = msg.notice
		if msg.reload == "" {
			return m, nil
		}
		if m.viewMode == ViewOutcome {
			m.viewMode = ViewDetail
		}
		return m, tea.Batch(m.loadProposal(msg.reload), m.loadDashboard())

	case generatedMsg:
		if msg.err != nil {
			m.notice = proposals.GatewayNotice(msg.err, "Failed to generate proposal")
			return m, nil
		}
		m.notice = proposals.Success("Proposal generated successfully!")
		m.detail = proposals.NewDetail(msg.proposal)
		m.viewMode = ViewDetail
		return m, m.loadDashboard()

	case graphMsg:
		if msg.err != nil {
			m.notice = proposals.Failure(msg.err.Error())
			m.viewMode = ViewDetail
			return m, nil
		}
		m.graphDOT = msg.dot
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.viewMode {
	case ViewList:
		body = m.renderListView()
	case ViewDetail:
		body = m.renderDetailView()
	case ViewEmailEdit:
		body = m.renderEmailEditView()
	case ViewNew:
		body = m.renderNewView()
	case ViewOutcome:
		body = m.renderOutcomeView()
	case ViewGraph:
		body = m.renderGraphView()
	}
	if m.notice.Message != "" {
		body += "\n" + renderNotice(m.notice)
	}
	return body
}

// typing reports whether keys go to a text field rather than shortcuts.
func (m Model) typing() bool {
	return m.viewMode == ViewEmailEdit || m.viewMode == ViewNew || m.viewMode == ViewOutcome
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || (msg.String() == "q" && !m.typing()) {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEmailEdit:
		return m.handleEmailEditKeys(msg)
	case ViewNew:
		return m.handleNewKeys(msg)
	case ViewOutcome:
		return m.handleOutcomeKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	}

	return m, nil
}

func renderNotice(n proposals.Notice) string {
	switch n.Level {
	case proposals.LevelSuccess:
		return successStyle.Render("✓ " + n.Message)
	case proposals.LevelInfo:
		return infoStyle.Render("ℹ " + n.Message)
	default:
		return errorStyle.Render("✗ " + n.Message)
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
