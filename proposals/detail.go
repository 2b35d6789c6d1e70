// ABOUTME: Per-proposal detail state: active tab, editable email draft, pricing summary
// ABOUTME: Header Won/Lost shortcuts only switch to the email tab
package proposals

import (
	"fmt"
	"strings"

	"github.com/harperreed/pitch/models"
)

type Tab int

const (
	TabAnalysis Tab = iota
	TabProposal
	TabEmail
)

var Tabs = []Tab{TabAnalysis, TabProposal, TabEmail}

func (t Tab) String() string {
	switch t {
	case TabAnalysis:
		return "analysis"
	case TabProposal:
		return "proposal"
	case TabEmail:
		return "email"
	}
	return fmt.Sprintf("tab(%d)", int(t))
}

func (t Tab) Label() string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseTab(raw string) (Tab, error) {
	for _, t := range Tabs {
		if strings.EqualFold(raw, t.String()) {
			return t, nil
		}
	}
	return TabAnalysis, fmt.Errorf("unknown tab %q (valid: analysis, proposal, email)", raw)
}

// Detail holds what one proposal screen shows. The email draft is local
// and never written back.
type Detail struct {
	Proposal *models.Proposal
	Tab      Tab
	Subject  string
	Body     string
}

func NewDetail(p *models.Proposal) *Detail {
	return &Detail{
		Proposal: p,
		Tab:      TabAnalysis,
		Subject:  p.DraftEmailSubject,
		Body:     p.DraftEmailBody,
	}
}

// Refresh swaps in a reloaded proposal, keeping the tab and any edits.
func (d *Detail) Refresh(p *models.Proposal) {
	d.Proposal = p
}

func (d *Detail) NextTab() {
	d.Tab = Tabs[(int(d.Tab)+1)%len(Tabs)]
}

func (d *Detail) PrevTab() {
	d.Tab = Tabs[(int(d.Tab)+len(Tabs)-1)%len(Tabs)]
}

// ShowHeaderActions reports whether the Won/Lost shortcuts are offered.
func (d *Detail) ShowHeaderActions() bool {
	s := d.Proposal.Status
	return s == models.StatusSent || s == models.StatusPendingReview
}

// HeaderAction handles the Won/Lost shortcuts. Outcomes are recorded from
// the email tab, so the shortcut only navigates there.
func (d *Detail) HeaderAction() {
	d.Tab = TabEmail
}

// CopyText is the clipboard form of the draft.
func (d *Detail) CopyText() string {
	return fmt.Sprintf("Subject: %s\n\n%s", d.Subject, d.Body)
}

// Recipient is the prospect's email or a placeholder.
func (d *Detail) Recipient() string {
	if d.Proposal.Prospect == nil || d.Proposal.Prospect.ContactEmail == "" {
		return "No email provided"
	}
	return d.Proposal.Prospect.ContactEmail
}

// ContactLine renders "name, role" with whichever parts exist.
func ContactLine(p *models.Proposal) string {
	if p.Prospect == nil {
		return ""
	}
	line := p.Prospect.ContactName
	if p.Prospect.ContactRole != "" {
		line += ", " + p.Prospect.ContactRole
	}
	return line
}

func (d *Detail) CanMarkSent() bool {
	return CanMarkSent(d.Proposal.Status)
}

func (d *Detail) CanRecordOutcome() bool {
	return CanRecordOutcome(d.Proposal.Status)
}

// Pricing is the investment summary of the proposal tab.
type Pricing struct {
	Initial    models.Range
	Ongoing    models.Range
	HasOngoing bool
}

func (p Pricing) InitialLabel() string {
	return models.FormatRange(p.Initial.Low, p.Initial.High)
}

func (p Pricing) OngoingLabel() string {
	if !p.HasOngoing {
		return ""
	}
	return models.FormatRange(p.Ongoing.Low, p.Ongoing.High) + "/month"
}

func PricingFor(p *models.Proposal) Pricing {
	phases := p.Analysis.RecommendedApproach.Phases
	ongoing, ok := models.OngoingMonthly(phases)
	return Pricing{
		Initial:    models.InitialInvestment(phases),
		Ongoing:    ongoing,
		HasOngoing: ok,
	}
}

func (d *Detail) Pricing() Pricing {
	return PricingFor(d.Proposal)
}
