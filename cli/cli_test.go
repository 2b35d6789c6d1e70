// ABOUTME: Tests for the proposal and session CLI commands
// ABOUTME: Captures command output and drives the view model through fakes
package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

type fakeGateway struct {
	generateReqs []gateway.GenerateRequest
	manageReqs   []gateway.ManageRequest
	pdf          gateway.Response[gateway.PDFResult]
}

func (g *fakeGateway) GenerateProposal(ctx context.Context, req gateway.GenerateRequest) gateway.Response[gateway.GenerateResult] {
	g.generateReqs = append(g.generateReqs, req)
	return gateway.Response[gateway.GenerateResult]{Success: true, Data: &gateway.GenerateResult{
		ProposalID: "p1",
		Status:     models.StatusDraft,
		Priority:   models.PriorityHigh,
		Totals:     gateway.Totals{InitialInvestmentLow: 12000, InitialInvestmentHigh: 18000},
	}}
}

func (g *fakeGateway) ManageProposal(ctx context.Context, req gateway.ManageRequest) gateway.Response[gateway.ManageResult] {
	g.manageReqs = append(g.manageReqs, req)
	return gateway.Response[gateway.ManageResult]{Success: true}
}

func (g *fakeGateway) GeneratePDF(ctx context.Context, proposalID, userID string) gateway.Response[gateway.PDFResult] {
	return g.pdf
}

func (g *fakeGateway) ListMeetings(ctx context.Context, userID string) gateway.Response[gateway.MeetingsResult] {
	return gateway.Response[gateway.MeetingsResult]{Success: true, Data: &gateway.MeetingsResult{}}
}

func (g *fakeGateway) GetTranscript(ctx context.Context, userID, meetingID string) gateway.Response[gateway.TranscriptResult] {
	return gateway.Response[gateway.TranscriptResult]{Success: true, Data: &gateway.TranscriptResult{Transcript: "transcript for " + meetingID}}
}

type fakeRepo struct {
	list    []models.Proposal
	updated []models.User
}

func (r *fakeRepo) ListProposals(ctx context.Context, userID string) ([]models.Proposal, error) {
	return r.list, nil
}

func (r *fakeRepo) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	for i := range r.list {
		if r.list[i].ID == id {
			p := r.list[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) UpdateUser(ctx context.Context, user *models.User) error {
	r.updated = append(r.updated, *user)
	return nil
}

type fakeSession struct {
	user     *models.User
	password string
	signIns  int
	signOuts int
}

func (s *fakeSession) SignIn(ctx context.Context, email, password string) error {
	s.signIns++
	if password != s.password {
		return &auth.Error{Kind: auth.KindInvalidCredentials, Message: "Invalid login credentials"}
	}
	s.user = &models.User{ID: "u1", Email: email, Name: "Dana"}
	return nil
}

func (s *fakeSession) SignOut(ctx context.Context) error {
	s.signOuts++
	s.user = nil
	return nil
}

func (s *fakeSession) State() auth.State {
	if s.user == nil {
		return auth.StateAnonymous
	}
	return auth.StateAuthenticated
}

func (s *fakeSession) Current() *models.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *fakeSession) Refresh(ctx context.Context) error { return nil }

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func setupTestCLI(t *testing.T) (*proposals.Service, *fakeGateway, *fakeRepo, *bytes.Buffer) {
	t.Helper()
	gw := &fakeGateway{}
	repo := &fakeRepo{list: []models.Proposal{
		{
			ID:                "p1",
			CreatedBy:         "u1",
			Status:            models.StatusDraft,
			Priority:          models.PriorityHigh,
			Prospect:          &models.Prospect{CompanyName: "Acme Corp", ContactName: "Jane Smith", ContactRole: "VP Ops", ContactEmail: "jane@acme.com"},
			TotalEstimateLow:  12000,
			TotalEstimateHigh: 18000,
			CreatedAt:         time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			DraftEmailSubject: "Next steps",
			DraftEmailBody:    "Hi Jane",
			Analysis: models.Analysis{
				CompanyContext: models.CompanyContext{Industry: "Manufacturing", CurrentMaturityLevel: 2},
				Cautions:       []string{"Budget freeze in Q3"},
			},
		},
		{ID: "p2", CreatedBy: "u1", Status: models.StatusSent, Prospect: &models.Prospect{CompanyName: "Globex"}},
	}}
	session := &fakeSession{user: &models.User{ID: "u1", Email: "dana@acme.com", Name: "Dana"}}
	svc := proposals.NewService(gw, repo, session, nil, nil)
	return svc, gw, repo, captureOutput(t)
}

func TestListCommand(t *testing.T) {
	svc, _, _, out := setupTestCLI(t)

	require.NoError(t, ListCommand(context.Background(), svc, nil))
	text := out.String()
	assert.Contains(t, text, "2 total")
	assert.Contains(t, text, "Acme Corp")
	assert.Contains(t, text, "$12K - $18K")
	assert.Contains(t, text, "Mar 5, 2024")

	out.Reset()
	require.NoError(t, ListCommand(context.Background(), svc, []string{"--status", "won"}))
	assert.Contains(t, out.String(), "No won proposals.")

	assert.Error(t, ListCommand(context.Background(), svc, []string{"--status", "archived"}))
}

func TestShowCommand(t *testing.T) {
	svc, _, _, out := setupTestCLI(t)

	require.NoError(t, ShowCommand(context.Background(), svc, []string{"--tab", "all", "p1"}))
	text := out.String()
	assert.Contains(t, text, "Jane Smith, VP Ops")
	assert.Contains(t, text, "Level 2: Early Learning")
	assert.Contains(t, text, "Budget freeze in Q3")
	assert.Contains(t, text, "To: jane@acme.com")
	assert.Contains(t, text, "pitch mark-sent p1")

	assert.Error(t, ShowCommand(context.Background(), svc, []string{"--tab", "pricing", "p1"}))
	assert.Error(t, ShowCommand(context.Background(), svc, nil))

	err := ShowCommand(context.Background(), svc, []string{"missing"})
	require.Error(t, err)
	assert.Equal(t, proposals.ErrNotFound.Error(), err.Error())
}

func TestNewCommand(t *testing.T) {
	svc, gw, _, out := setupTestCLI(t)

	err := NewCommand(context.Background(), svc, []string{"--company", "Acme Corp"})
	require.Error(t, err)
	assert.Equal(t, "Discovery notes are required", err.Error())
	assert.Empty(t, gw.generateReqs)

	notes := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("Wants to automate invoicing"), 0644))

	require.NoError(t, NewCommand(context.Background(), svc, []string{"--company", "Acme Corp", "--notes-file", notes}))
	assert.Contains(t, out.String(), "✓ Proposal generated successfully!")
	require.Len(t, gw.generateReqs, 1)
	assert.Equal(t, "Wants to automate invoicing", gw.generateReqs[0].DiscoveryNotes)
}

func TestNewCommandUsesTranscript(t *testing.T) {
	svc, gw, _, _ := setupTestCLI(t)

	require.NoError(t, NewCommand(context.Background(), svc, []string{"--company", "Acme Corp", "--meeting", "m1"}))
	require.Len(t, gw.generateReqs, 1)
	assert.Equal(t, "transcript for m1", gw.generateReqs[0].DiscoveryNotes)
	assert.Equal(t, "m1", gw.generateReqs[0].FirefliesMeetingID)
}

func TestMarkSentAndOutcomeCommands(t *testing.T) {
	svc, gw, _, out := setupTestCLI(t)

	require.NoError(t, MarkSentCommand(context.Background(), svc, []string{"p1"}))
	assert.Contains(t, out.String(), "✓ Proposal marked as sent")

	require.NoError(t, OutcomeCommand(context.Background(), svc, []string{"--status", "lost", "--notes", "budget", "p2"}))
	assert.Contains(t, out.String(), "✓ Proposal marked as lost")

	require.Len(t, gw.manageReqs, 2)
	lost := gw.manageReqs[1]
	assert.Equal(t, models.StatusLost, lost.Status)
	assert.Nil(t, lost.SaveAsExample)

	assert.Error(t, OutcomeCommand(context.Background(), svc, []string{"p2"}))
}

func TestOutcomeCommandWonTags(t *testing.T) {
	svc, gw, _, _ := setupTestCLI(t)

	require.NoError(t, OutcomeCommand(context.Background(), svc, []string{"--status", "won", "--tags", "pilot, manufacturing,pilot", "p2"}))
	require.Len(t, gw.manageReqs, 1)
	assert.Equal(t, gateway.ActionSaveExample, gw.manageReqs[0].Action)
	assert.Equal(t, []string{"pilot", "manufacturing"}, gw.manageReqs[0].Tags)
}

func TestPDFCommand(t *testing.T) {
	svc, gw, _, out := setupTestCLI(t)

	gw.pdf = gateway.Response[gateway.PDFResult]{Success: true, Data: &gateway.PDFResult{PDFURL: "https://files.example.com/p1.pdf"}}
	require.NoError(t, PDFCommand(context.Background(), svc, []string{"p1"}))
	assert.Contains(t, out.String(), "https://files.example.com/p1.pdf")

	gw.pdf = gateway.Response[gateway.PDFResult]{Error: "HTTP 500"}
	err := PDFCommand(context.Background(), svc, []string{"p1"})
	require.Error(t, err)
	assert.Equal(t, "HTTP 500", err.Error())
}

func TestEmailCommandCopy(t *testing.T) {
	svc, _, _, out := setupTestCLI(t)

	var copied string
	prev := copyToClipboard
	copyToClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { copyToClipboard = prev })

	require.NoError(t, EmailCommand(context.Background(), svc, []string{"--copy", "--subject", "Quick follow-up", "p1"}))
	assert.Equal(t, "Subject: Quick follow-up\n\nHi Jane", copied)
	assert.Contains(t, out.String(), "Copied to clipboard!")

	copyToClipboard = func(string) error { return errors.New("no display") }
	require.Error(t, EmailCommand(context.Background(), svc, []string{"--copy", "p1"}))
	assert.Contains(t, out.String(), "Failed to copy")
}

func TestSettingsCommand(t *testing.T) {
	svc, _, repo, out := setupTestCLI(t)

	require.NoError(t, SettingsCommand(context.Background(), svc, nil))
	assert.Contains(t, out.String(), "Name: Dana")
	assert.Empty(t, repo.updated)

	require.NoError(t, SettingsCommand(context.Background(), svc, []string{"--signature", "Dana S."}))
	assert.Contains(t, out.String(), "Settings saved successfully")
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "Dana", repo.updated[0].Name)
	assert.Equal(t, "Dana S.", repo.updated[0].DefaultSignatureName)
}

func TestLoginCommand(t *testing.T) {
	out := captureOutput(t)
	session := &fakeSession{password: "hunter2"}

	prevPassword, prevStdin := readPassword, stdin
	t.Cleanup(func() { readPassword, stdin = prevPassword, prevStdin })

	stdin = strings.NewReader("dana@acme.com\n")
	readPassword = func() (string, error) { return "wrong", nil }
	err := LoginCommand(context.Background(), session, nil)
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())

	readPassword = func() (string, error) { return "hunter2", nil }
	require.NoError(t, LoginCommand(context.Background(), session, []string{"--email", "dana@acme.com"}))
	assert.Contains(t, out.String(), "Welcome back!")

	out.Reset()
	require.NoError(t, WhoamiCommand(session, nil))
	assert.Contains(t, out.String(), "Dana <dana@acme.com>")

	require.NoError(t, LogoutCommand(context.Background(), session, nil))
	out.Reset()
	require.NoError(t, WhoamiCommand(session, nil))
	assert.Contains(t, out.String(), "Not signed in")
}
