// ABOUTME: Tests for the proposal detail view state
package proposals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pitch/models"
)

func TestDetailTabs(t *testing.T) {
	d := NewDetail(proposalWithStatus("p1", models.StatusDraft))
	assert.Equal(t, TabAnalysis, d.Tab)

	d.NextTab()
	assert.Equal(t, TabProposal, d.Tab)
	d.NextTab()
	d.NextTab()
	assert.Equal(t, TabAnalysis, d.Tab)
	d.PrevTab()
	assert.Equal(t, TabEmail, d.Tab)
	assert.Equal(t, "Email", d.Tab.Label())

	tab, err := ParseTab("Proposal")
	require.NoError(t, err)
	assert.Equal(t, TabProposal, tab)
	_, err = ParseTab("pricing")
	assert.Error(t, err)
}

func TestDetailHeaderActions(t *testing.T) {
	tests := []struct {
		status  models.ProposalStatus
		header  bool
		send    bool
		outcome bool
	}{
		{models.StatusDraft, false, true, false},
		{models.StatusPendingReview, true, true, false},
		{models.StatusSent, true, false, true},
		{models.StatusWon, false, false, false},
		{models.StatusLost, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := NewDetail(proposalWithStatus("p1", tt.status))
			assert.Equal(t, tt.header, d.ShowHeaderActions())
			assert.Equal(t, tt.send, d.CanMarkSent())
			assert.Equal(t, tt.outcome, d.CanRecordOutcome())
		})
	}
}

func TestHeaderActionOnlyNavigates(t *testing.T) {
	p := proposalWithStatus("p1", models.StatusPendingReview)
	d := NewDetail(p)

	d.HeaderAction()
	assert.Equal(t, TabEmail, d.Tab)
	assert.Equal(t, models.StatusPendingReview, d.Proposal.Status)
}

func TestDetailEmailDraft(t *testing.T) {
	p := proposalWithStatus("p1", models.StatusDraft)
	d := NewDetail(p)
	assert.Equal(t, "jane@acme.com", d.Recipient())

	d.Subject = "Edited subject"
	d.Body = "Hi Jane,\n\nThanks for your time."
	assert.Equal(t, "Subject: Edited subject\n\nHi Jane,\n\nThanks for your time.", d.CopyText())
	assert.Equal(t, "Next steps", p.DraftEmailSubject, "edits stay local")

	reloaded := proposalWithStatus("p1", models.StatusSent)
	d.Refresh(reloaded)
	assert.Equal(t, "Edited subject", d.Subject)
	assert.Equal(t, models.StatusSent, d.Proposal.Status)

	d.Proposal.Prospect.ContactEmail = ""
	assert.Equal(t, "No email provided", d.Recipient())
}

func TestContactLine(t *testing.T) {
	p := &models.Proposal{Prospect: &models.Prospect{ContactName: "Jane Smith", ContactRole: "VP Ops"}}
	assert.Equal(t, "Jane Smith, VP Ops", ContactLine(p))

	p.Prospect.ContactRole = ""
	assert.Equal(t, "Jane Smith", ContactLine(p))
	assert.Equal(t, "", ContactLine(&models.Proposal{}))
}

func TestPricingFor(t *testing.T) {
	monthly := true
	p := &models.Proposal{Analysis: models.Analysis{RecommendedApproach: models.RecommendedApproach{Phases: []models.Phase{
		{PhaseNumber: 1, PhaseTotalLow: 8000, PhaseTotalHigh: 12000},
		{PhaseNumber: 2, PhaseTotalLow: 20000, PhaseTotalHigh: 35000},
		{PhaseNumber: 3, PhaseTotalLow: 2000, PhaseTotalHigh: 4000, Recurring: &monthly},
	}}}}

	pricing := PricingFor(p)
	assert.Equal(t, "$28K - $47K", pricing.InitialLabel())
	assert.True(t, pricing.HasOngoing)
	assert.Equal(t, "$2K - $4K/month", pricing.OngoingLabel())

	none := PricingFor(&models.Proposal{})
	assert.False(t, none.HasOngoing)
	assert.Equal(t, "", none.OngoingLabel())
	assert.Equal(t, "$0 - $0", none.InitialLabel())
}
