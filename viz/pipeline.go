// ABOUTME: Pipeline graph showing proposals grouped by lifecycle status
// ABOUTME: Status nodes carry counts and are chained in lifecycle order
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/pitch/models"
)

var statusColors = map[models.ProposalStatus]string{
	models.StatusDraft:         "lightgrey",
	models.StatusPendingReview: "lightyellow",
	models.StatusSent:          "lightblue",
	models.StatusWon:           "palegreen",
	models.StatusLost:          "lightsalmon",
	models.StatusStalled:       "wheat",
}

// PipelineGraph renders one node per status and one node per proposal
// hanging off its status.
func PipelineGraph(ctx context.Context, list []models.Proposal) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Proposal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	groups := PipelineByStatus(list)
	statusNodes := make(map[models.ProposalStatus]*cgraph.Node, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		node, err := graph.CreateNodeByName("status_" + string(status))
		if err != nil {
			return "", fmt.Errorf("failed to create status node: %w", err)
		}
		g := groups[status]
		node.SetLabel(fmt.Sprintf("%s\n%d", status.Label(), g.Count))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(statusColors[status])
		statusNodes[status] = node
	}

	// lifecycle edges: draft -> pending_review -> sent -> each outcome
	chain := [][2]models.ProposalStatus{
		{models.StatusDraft, models.StatusPendingReview},
		{models.StatusPendingReview, models.StatusSent},
		{models.StatusSent, models.StatusWon},
		{models.StatusSent, models.StatusLost},
		{models.StatusSent, models.StatusStalled},
	}
	for i, link := range chain {
		edge, err := graph.CreateEdgeByName(fmt.Sprintf("flow_%d", i), statusNodes[link[0]], statusNodes[link[1]])
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dashed")
	}

	for i, p := range list {
		parent, ok := statusNodes[p.Status]
		if !ok {
			continue
		}
		node, err := graph.CreateNodeByName(fmt.Sprintf("proposal_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create proposal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", p.CompanyName(), models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh)))
		node.SetShape("note")
		if _, err := graph.CreateEdgeByName(fmt.Sprintf("member_%d", i), parent, node); err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
