// ABOUTME: Tests for the bubbletea model
// ABOUTME: Drives key presses and command messages through Update without a terminal
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

// fakeBackend is both the webhook gateway and the proposal store, so status
// changes made through the gateway show up on the next read.
type fakeBackend struct {
	list         []models.Proposal
	generateReqs []gateway.GenerateRequest
	manageReqs   []gateway.ManageRequest
	pdf          gateway.Response[gateway.PDFResult]
}

func (b *fakeBackend) GenerateProposal(ctx context.Context, req gateway.GenerateRequest) gateway.Response[gateway.GenerateResult] {
	b.generateReqs = append(b.generateReqs, req)
	return gateway.Response[gateway.GenerateResult]{Success: true, Data: &gateway.GenerateResult{
		ProposalID: "p9",
		Status:     models.StatusDraft,
		Totals:     gateway.Totals{InitialInvestmentLow: 5000, InitialInvestmentHigh: 9000},
	}}
}

func (b *fakeBackend) ManageProposal(ctx context.Context, req gateway.ManageRequest) gateway.Response[gateway.ManageResult] {
	b.manageReqs = append(b.manageReqs, req)
	for i := range b.list {
		if b.list[i].ID == req.ProposalID {
			b.list[i].Status = req.Status
		}
	}
	return gateway.Response[gateway.ManageResult]{Success: true}
}

func (b *fakeBackend) GeneratePDF(ctx context.Context, proposalID, userID string) gateway.Response[gateway.PDFResult] {
	return b.pdf
}

func (b *fakeBackend) ListMeetings(ctx context.Context, userID string) gateway.Response[gateway.MeetingsResult] {
	return gateway.Response[gateway.MeetingsResult]{Success: true, Data: &gateway.MeetingsResult{}}
}

func (b *fakeBackend) GetTranscript(ctx context.Context, userID, meetingID string) gateway.Response[gateway.TranscriptResult] {
	return gateway.Response[gateway.TranscriptResult]{Success: true, Data: &gateway.TranscriptResult{Transcript: "transcript for " + meetingID}}
}

func (b *fakeBackend) ListProposals(ctx context.Context, userID string) ([]models.Proposal, error) {
	return append([]models.Proposal(nil), b.list...), nil
}

func (b *fakeBackend) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	for i := range b.list {
		if b.list[i].ID == id {
			p := b.list[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (b *fakeBackend) UpdateUser(ctx context.Context, user *models.User) error { return nil }

type fakeSession struct{}

func (fakeSession) Current() *models.User {
	return &models.User{ID: "u1", Email: "dana@acme.com", Name: "Dana"}
}

func (fakeSession) Refresh(ctx context.Context) error { return nil }

func setupTestModel(t *testing.T) (Model, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{list: []models.Proposal{
		{
			ID:                "p1",
			CreatedBy:         "u1",
			Status:            models.StatusDraft,
			Prospect:          &models.Prospect{CompanyName: "Acme Corp", ContactName: "Jane Smith", ContactEmail: "jane@acme.com"},
			TotalEstimateLow:  12000,
			TotalEstimateHigh: 18000,
			CreatedAt:         time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			DraftEmailSubject: "Next steps",
			DraftEmailBody:    "Hi Jane",
			Analysis: models.Analysis{
				StakeholderMap: models.StakeholderMap{
					Champion: models.Stakeholder{Name: "Jane Smith", Role: "COO", Stance: "supportive"},
				},
			},
		},
		{
			ID:        "p2",
			CreatedBy: "u1",
			Status:    models.StatusSent,
			Prospect:  &models.Prospect{CompanyName: "Globex"},
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	svc := proposals.NewService(backend, backend, fakeSession{}, nil, nil)

	m := NewModel(context.Background(), svc)
	m = run(t, m, m.Init())
	require.NotNil(t, m.dashboard)
	return m, backend
}

// run executes cmd and feeds the model's own messages back through Update.
// Commands from text inputs (cursor blinks) are never passed here.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = run(t, m, c)
		}
	case dashboardMsg, proposalMsg, actionMsg, generatedMsg, graphMsg:
		next, cmd := m.Update(msg)
		m = run(t, next.(Model), cmd)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key and returns the command without running it.
func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

// act sends one key and runs the resulting command.
func act(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := press(m, k)
	return run(t, next, cmd)
}

func openProposal(t *testing.T, m Model, row int) Model {
	t.Helper()
	for i := 0; i < row; i++ {
		m = act(t, m, "down")
	}
	m = act(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	return m
}

func TestListViewShowsDashboard(t *testing.T) {
	m, _ := setupTestModel(t)

	view := m.View()
	assert.Contains(t, view, "PITCH PROPOSALS")
	assert.Contains(t, view, "Acme Corp")
	assert.Contains(t, view, "Globex")
	assert.Contains(t, view, "2 total · 0 pending review · 1 sent · 0 won · 0% win rate")
}

func TestListFilterTabs(t *testing.T) {
	m, _ := setupTestModel(t)

	m = act(t, m, "tab")
	assert.Equal(t, "Drafts", m.currentFilter().Label)
	require.Len(t, m.dashboard.Proposals, 1)
	assert.Equal(t, "p1", m.dashboard.Proposals[0].ID)

	// Stats keep covering every proposal.
	assert.Equal(t, 2, m.dashboard.Stats.Total)

	m = act(t, m, "tab")
	m = act(t, m, "tab")
	m = act(t, m, "tab")
	assert.Equal(t, "Won", m.currentFilter().Label)
	assert.Contains(t, m.View(), "No won proposals.")

	m = act(t, m, "shift+tab")
	assert.Equal(t, "Sent", m.currentFilter().Label)
}

func TestDetailTabs(t *testing.T) {
	m, _ := setupTestModel(t)
	m = openProposal(t, m, 0)

	assert.Equal(t, proposals.TabAnalysis, m.detail.Tab)
	assert.Contains(t, m.View(), "ACME CORP")

	m = act(t, m, "3")
	assert.Equal(t, proposals.TabEmail, m.detail.Tab)
	view := m.View()
	assert.Contains(t, view, "jane@acme.com")
	assert.Contains(t, view, "Next steps")

	m = act(t, m, "tab")
	assert.Equal(t, proposals.TabAnalysis, m.detail.Tab)

	m = act(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Nil(t, m.detail)
}

func TestMarkSentReloadsProposal(t *testing.T) {
	m, backend := setupTestModel(t)
	m = openProposal(t, m, 0)

	m = act(t, m, "s")

	require.Len(t, backend.manageReqs, 1)
	assert.Equal(t, models.StatusSent, backend.manageReqs[0].Status)
	assert.Equal(t, "Proposal marked as sent", m.notice.Message)
	assert.Equal(t, models.StatusSent, m.detail.Proposal.Status)
	assert.Equal(t, 2, m.dashboard.Stats.Sent)

	// Already sent: the key does nothing.
	m = act(t, m, "s")
	assert.Len(t, backend.manageReqs, 1)
}

func TestHeaderActionOnlyNavigates(t *testing.T) {
	m, backend := setupTestModel(t)
	m = openProposal(t, m, 1)

	m = act(t, m, "w")

	assert.Equal(t, proposals.TabEmail, m.detail.Tab)
	assert.Empty(t, backend.manageReqs)
	assert.Equal(t, ViewDetail, m.viewMode)
}

func TestRecordWonOutcome(t *testing.T) {
	m, backend := setupTestModel(t)
	m = openProposal(t, m, 1)

	m = act(t, m, "o")
	require.Equal(t, ViewOutcome, m.viewMode)
	assert.Contains(t, m.View(), "What worked:")

	m, _ = press(m, "tab")
	m, _ = press(m, "Signed after pilot")
	m, _ = press(m, "tab")
	m, _ = press(m, "ROI model")
	m, _ = press(m, "tab")
	m, _ = press(m, "pilot, pilot,manufacturing")
	m = act(t, m, "ctrl+s")

	require.Len(t, backend.manageReqs, 1)
	req := backend.manageReqs[0]
	assert.Equal(t, gateway.ActionSaveExample, req.Action)
	assert.Equal(t, models.StatusWon, req.Status)
	assert.Equal(t, "Signed after pilot", req.OutcomeNotes)
	assert.Equal(t, "ROI model", req.WhatWorked)
	assert.Equal(t, []string{"pilot", "manufacturing"}, req.Tags)
	require.NotNil(t, req.SaveAsExample)
	assert.True(t, *req.SaveAsExample)

	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, "Proposal marked as won", m.notice.Message)
	assert.Equal(t, models.StatusWon, m.detail.Proposal.Status)
}

func TestRecordLostOutcomeSendsOnlyNotes(t *testing.T) {
	m, backend := setupTestModel(t)
	m = openProposal(t, m, 1)
	m = act(t, m, "o")

	m, _ = press(m, "right")
	assert.Equal(t, models.StatusLost, m.outcome.outcome())
	assert.NotContains(t, m.View(), "What worked:")

	m, _ = press(m, "tab")
	m, _ = press(m, "Went with a competitor")
	m = act(t, m, "ctrl+s")

	require.Len(t, backend.manageReqs, 1)
	req := backend.manageReqs[0]
	assert.Equal(t, gateway.ActionUpdateStatus, req.Action)
	assert.Equal(t, models.StatusLost, req.Status)
	assert.Equal(t, "Went with a competitor", req.OutcomeNotes)
	assert.Empty(t, req.WhatWorked)
	assert.Nil(t, req.SaveAsExample)
}

func TestOutcomeNotOfferedForDrafts(t *testing.T) {
	m, _ := setupTestModel(t)
	m = openProposal(t, m, 0)

	m = act(t, m, "o")
	assert.Equal(t, ViewDetail, m.viewMode)
}

func TestCopyEmailDraft(t *testing.T) {
	m, _ := setupTestModel(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	m = openProposal(t, m, 0)

	m = act(t, m, "c")
	assert.Equal(t, "Subject: Next steps\n\nHi Jane", copied)
	assert.Equal(t, proposals.Success("Copied to clipboard!"), m.notice)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = act(t, m, "c")
	assert.Equal(t, proposals.Failure("Failed to copy"), m.notice)
}

func TestEditEmailDraftStaysLocal(t *testing.T) {
	m, backend := setupTestModel(t)
	m = openProposal(t, m, 0)

	m, _ = press(m, "e")
	require.Equal(t, ViewEmailEdit, m.viewMode)

	// q is typed, not treated as quit
	m, _ = press(m, "!")
	m, _ = press(m, "q")
	m = act(t, m, "ctrl+s")

	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, "Next steps!q", m.detail.Subject)
	assert.Equal(t, "Hi Jane", m.detail.Body)
	assert.Empty(t, backend.manageReqs)

	m, _ = press(m, "e")
	m, _ = press(m, " edited")
	m = act(t, m, "esc")
	assert.Equal(t, "Next steps!q", m.detail.Subject)
}

func TestNewProposalForm(t *testing.T) {
	m, backend := setupTestModel(t)

	m, _ = press(m, "n")
	require.Equal(t, ViewNew, m.viewMode)
	m, _ = press(m, "Initech")
	m, _ = press(m, "shift+tab")
	assert.Equal(t, len(m.formInputs), m.focusIndex)
	m, _ = press(m, "Met the COO")
	m = act(t, m, "ctrl+s")

	require.Len(t, backend.generateReqs, 1)
	assert.Equal(t, "Initech", backend.generateReqs[0].Prospect.CompanyName)
	assert.Equal(t, "Met the COO", backend.generateReqs[0].DiscoveryNotes)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, "p9", m.detail.Proposal.ID)
	assert.Equal(t, "Proposal generated successfully!", m.notice.Message)
}

func TestNewProposalUsesTranscript(t *testing.T) {
	m, backend := setupTestModel(t)

	m, _ = press(m, "n")
	m, _ = press(m, "Initech")
	for i := 0; i < fieldMeeting; i++ {
		m, _ = press(m, "tab")
	}
	m, _ = press(m, "m1")
	m = act(t, m, "ctrl+s")

	require.Len(t, backend.generateReqs, 1)
	assert.Equal(t, "transcript for m1", backend.generateReqs[0].DiscoveryNotes)
	assert.Equal(t, "m1", backend.generateReqs[0].FirefliesMeetingID)
}

func TestNewProposalValidation(t *testing.T) {
	m, backend := setupTestModel(t)

	m, _ = press(m, "n")
	m = act(t, m, "ctrl+s")

	assert.Empty(t, backend.generateReqs)
	assert.Equal(t, ViewNew, m.viewMode)
	assert.Equal(t, proposals.Failure("Company name is required"), m.notice)
}

func TestPDFNotices(t *testing.T) {
	tests := []struct {
		name string
		resp gateway.Response[gateway.PDFResult]
		want proposals.Notice
	}{
		{
			name: "pending",
			resp: gateway.Response[gateway.PDFResult]{Success: true},
			want: proposals.Info("PDF generated but no URL returned."),
		},
		{
			name: "ready",
			resp: gateway.Response[gateway.PDFResult]{Success: true, Data: &gateway.PDFResult{PDFURL: "https://files.example.com/p1.pdf"}},
			want: proposals.Success("PDF generated successfully! https://files.example.com/p1.pdf"),
		},
		{
			name: "failed",
			resp: gateway.Response[gateway.PDFResult]{Error: "renderer offline"},
			want: proposals.Failure("renderer offline"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, backend := setupTestModel(t)
			backend.pdf = tt.resp
			m = openProposal(t, m, 0)

			m = act(t, m, "p")
			assert.Equal(t, tt.want, m.notice)
		})
	}
}

func TestStakeholderGraphView(t *testing.T) {
	m, _ := setupTestModel(t)
	m = openProposal(t, m, 0)

	m = act(t, m, "g")
	require.Equal(t, ViewGraph, m.viewMode)
	assert.NotEmpty(t, m.graphDOT)
	assert.Contains(t, m.View(), "STAKEHOLDER MAP: ACME CORP")

	m = act(t, m, "esc")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Empty(t, m.graphDOT)
}

func TestQuitKeys(t *testing.T) {
	m, _ := setupTestModel(t)

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m, _ = press(m, "n")
	m, _ = press(m, "q")
	assert.Equal(t, ViewNew, m.viewMode)
	assert.Equal(t, "q", m.formInputs[fieldCompany].Value())

	_, cmd = press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
