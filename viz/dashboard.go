// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII pipeline overview of the user's proposals
package viz

import (
	"fmt"
	"strings"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

type StatusGroup struct {
	Status models.ProposalStatus
	Count  int
	// Value sums the proposals' initial investment ranges.
	Value models.Range
}

// PipelineByStatus groups proposals by status. Unknown statuses are dropped.
func PipelineByStatus(list []models.Proposal) map[models.ProposalStatus]StatusGroup {
	groups := make(map[models.ProposalStatus]StatusGroup)
	for _, p := range list {
		if !p.Status.Valid() {
			continue
		}
		g := groups[p.Status]
		g.Status = p.Status
		g.Count++
		g.Value.Low += p.TotalEstimateLow
		g.Value.High += p.TotalEstimateHigh
		groups[p.Status] = g
	}
	return groups
}

func RenderDashboard(d *proposals.Dashboard, all []models.Proposal) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  PITCH PROPOSAL DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE\n")
	renderPipeline(&out, PipelineByStatus(all))
	out.WriteString("\n")

	st := d.Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  %d total  %d pending review  %d sent  %d won  %d%% win rate\n",
		st.Total, st.Pending, st.Sent, st.Won, st.WinRate))

	if st.Pending > 0 {
		out.WriteString("\nNEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d proposals waiting for review\n", st.Pending))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, groups map[models.ProposalStatus]StatusGroup) {
	maxCount := 0
	for _, g := range groups {
		if g.Count > maxCount {
			maxCount = g.Count
		}
	}
	if maxCount == 0 {
		out.WriteString("  (no proposals)\n")
		return
	}

	for _, status := range models.AllStatuses {
		g, ok := groups[status]
		if !ok {
			continue
		}
		barLength := (g.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-15s %s  %2d (%s)\n", status.Label(), bar, g.Count, g.Value))
	}
}
