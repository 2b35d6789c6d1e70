// ABOUTME: Plain-text rendering of proposals for the terminal
// ABOUTME: Prints the analysis, proposal, and email tabs plus list rows
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

// stdout is where commands print; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

const dateLayout = "Jan 2, 2006"

func printNotice(n proposals.Notice) {
	switch n.Level {
	case proposals.LevelSuccess:
		fmt.Fprintf(stdout, "✓ %s\n", n.Message)
	case proposals.LevelInfo:
		fmt.Fprintf(stdout, "ℹ %s\n", n.Message)
	default:
		fmt.Fprintf(stdout, "✗ %s\n", n.Message)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderList(w io.Writer, list []models.Proposal) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tSTATUS\tPRIORITY\tESTIMATE\tCREATED\tID")
	fmt.Fprintln(tw, "-------\t------\t--------\t--------\t-------\t--")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.CompanyName(),
			p.Status.Label(),
			dash(p.Priority.Label()),
			models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh),
			p.CreatedAt.Format(dateLayout),
			p.ID,
		)
	}
	_ = tw.Flush()
}

func renderHeader(w io.Writer, d *proposals.Detail) {
	p := d.Proposal
	fmt.Fprintf(w, "%s  [%s]", p.CompanyName(), p.Status.Label())
	if p.Priority != "" {
		fmt.Fprintf(w, "  %s priority", p.Priority.Label())
	}
	fmt.Fprintln(w)
	if line := proposals.ContactLine(p); line != "" {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintf(w, "  Created %s", p.CreatedAt.Format(dateLayout))
	if p.SentAt != nil {
		fmt.Fprintf(w, ", sent %s", p.SentAt.Format(dateLayout))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func renderTab(w io.Writer, d *proposals.Detail, tab proposals.Tab) {
	fmt.Fprintf(w, "── %s ──\n", strings.ToUpper(tab.Label()))
	switch tab {
	case proposals.TabAnalysis:
		renderAnalysis(w, d.Proposal.Analysis)
	case proposals.TabProposal:
		renderPricing(w, d)
	case proposals.TabEmail:
		renderEmail(w, d)
	}
	fmt.Fprintln(w)
}

func renderAnalysis(w io.Writer, a models.Analysis) {
	cc := a.CompanyContext
	fmt.Fprintln(w, "Company context")
	fmt.Fprintf(w, "  Industry: %s\n", dash(cc.Industry))
	fmt.Fprintf(w, "  Size: %s\n", dash(cc.EstimatedSize))
	fmt.Fprintf(w, "  Maturity: %s\n", cc.CurrentMaturityLevel.Label())
	if cc.MaturityRationale != "" {
		fmt.Fprintf(w, "    %s\n", cc.MaturityRationale)
	}
	if len(cc.KeySystemsMentioned) > 0 {
		fmt.Fprintf(w, "  Systems: %s\n", strings.Join(cc.KeySystemsMentioned, ", "))
	}

	sm := a.StakeholderMap
	fmt.Fprintln(w, "\nStakeholders")
	if sm.Champion.Name != "" {
		fmt.Fprintf(w, "  Champion: %s (%s)\n", sm.Champion.Name, dash(sm.Champion.Role))
	}
	for _, dm := range sm.DecisionMakers {
		fmt.Fprintf(w, "  %s (%s): %s\n", dm.Name, dash(dm.Role), dash(dm.Stance))
	}
	if sm.PoliticalNotes != "" {
		fmt.Fprintf(w, "  Notes: %s\n", sm.PoliticalNotes)
	}

	if len(a.PainSignals) > 0 {
		fmt.Fprintln(w, "\nPain signals")
		for _, ps := range a.PainSignals {
			fmt.Fprintf(w, "  • %s [%s]", ps.Signal, ps.Category)
			if ps.QuantifiedImpact != "" {
				fmt.Fprintf(w, " %s", ps.QuantifiedImpact)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, "\nBudget & timeline")
	if a.BudgetSignals.LowFrictionThreshold != "" {
		fmt.Fprintf(w, "  Low friction under: %s\n", a.BudgetSignals.LowFrictionThreshold)
	}
	if a.BudgetSignals.RequiresBusinessCaseAbove != "" {
		fmt.Fprintf(w, "  Business case above: %s\n", a.BudgetSignals.RequiresBusinessCaseAbove)
	}
	fmt.Fprintf(w, "  Urgency: %d/10\n", a.TimelineSignals.UrgencyScore)
	for _, dl := range a.TimelineSignals.DeadlinesMentioned {
		fmt.Fprintf(w, "  Deadline: %s\n", dl)
	}

	if len(a.Cautions) > 0 {
		fmt.Fprintln(w, "\nCautions")
		for _, c := range a.Cautions {
			fmt.Fprintf(w, "  ⚠️  %s\n", c)
		}
	}
}

func renderPricing(w io.Writer, d *proposals.Detail) {
	approach := d.Proposal.Analysis.RecommendedApproach
	if approach.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", approach.Summary)
	}
	for _, phase := range approach.Phases {
		fmt.Fprintf(w, "Phase %d: %s  %s\n", phase.PhaseNumber, phase.PhaseLabel,
			models.FormatRange(phase.PhaseTotalLow, phase.PhaseTotalHigh))
		if phase.PricingNote != "" {
			fmt.Fprintf(w, "  (%s)\n", phase.PricingNote)
		}
		for _, o := range phase.Offerings {
			fmt.Fprintf(w, "  - %s %s  %s  %s\n", o.Code, o.Name,
				models.FormatRange(o.PriceLow, o.PriceHigh), o.Timeline)
			if o.CustomScope != "" {
				fmt.Fprintf(w, "      %s\n", o.CustomScope)
			}
		}
	}

	pricing := d.Pricing()
	fmt.Fprintf(w, "\nInitial investment: %s\n", pricing.InitialLabel())
	if pricing.HasOngoing {
		fmt.Fprintf(w, "Ongoing: %s\n", pricing.OngoingLabel())
	}
}

func renderEmail(w io.Writer, d *proposals.Detail) {
	fmt.Fprintf(w, "To: %s\n", d.Recipient())
	fmt.Fprintf(w, "Subject: %s\n\n", d.Subject)
	fmt.Fprintln(w, d.Body)

	var actions []string
	if d.CanMarkSent() {
		actions = append(actions, "pitch mark-sent "+d.Proposal.ID)
	}
	if d.CanRecordOutcome() {
		actions = append(actions, "pitch outcome --status won|lost|stalled "+d.Proposal.ID)
	}
	if len(actions) > 0 {
		fmt.Fprintln(w, "\nNext:")
		for _, a := range actions {
			fmt.Fprintf(w, "  %s\n", a)
		}
	}
}
