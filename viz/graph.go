// ABOUTME: GraphViz generation for proposals
// ABOUTME: Renders a proposal's stakeholder map as DOT source
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/pitch/models"
)

// Source supplies proposals to graph. *proposals.Service satisfies it.
type Source interface {
	List(ctx context.Context) ([]models.Proposal, error)
	Get(ctx context.Context, id string) (*models.Proposal, error)
}

type GraphGenerator struct {
	source Source
}

func NewGraphGenerator(source Source) *GraphGenerator {
	return &GraphGenerator{source: source}
}

// GenerateStakeholderGraph loads the proposal and renders its stakeholder map.
func (g *GraphGenerator) GenerateStakeholderGraph(ctx context.Context, id string) (string, error) {
	p, err := g.source.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to fetch proposal: %w", err)
	}
	return StakeholderGraph(ctx, p)
}

// GeneratePipelineGraph renders the signed-in user's proposals by status.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context) (string, error) {
	list, err := g.source.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch proposals: %w", err)
	}
	return PipelineGraph(ctx, list)
}

var stanceColors = map[string]string{
	"champion":  "palegreen",
	"supporter": "lightgreen",
	"neutral":   "lightgrey",
	"skeptic":   "lightsalmon",
	"blocker":   "tomato",
}

func stanceColor(stance string) string {
	if c, ok := stanceColors[stance]; ok {
		return c
	}
	return "white"
}

// StakeholderGraph draws the company with its champion and decision makers.
// Edges are labelled with each person's stance.
func StakeholderGraph(ctx context.Context, p *models.Proposal) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel(fmt.Sprintf("Stakeholders: %s", p.CompanyName()))

	company, err := graph.CreateNodeByName("company")
	if err != nil {
		return "", fmt.Errorf("failed to create company node: %w", err)
	}
	company.SetLabel(p.CompanyName())
	company.SetShape("box")
	company.SetStyle("filled")
	company.SetFillColor("lightblue")

	sm := p.Analysis.StakeholderMap
	people := make([]models.Stakeholder, 0, len(sm.DecisionMakers)+1)
	if sm.Champion.Name != "" {
		people = append(people, sm.Champion)
	}
	people = append(people, sm.DecisionMakers...)

	for i, person := range people {
		node, err := graph.CreateNodeByName(fmt.Sprintf("person_%d", i))
		if err != nil {
			return "", fmt.Errorf("failed to create stakeholder node: %w", err)
		}
		label := person.Name
		if person.Role != "" {
			label += "\n" + person.Role
		}
		node.SetLabel(label)
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(stanceColor(person.Stance))

		edge, err := graph.CreateEdgeByName(fmt.Sprintf("stance_%d", i), node, company)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		if i == 0 && sm.Champion.Name != "" {
			edge.SetLabel("champion")
			edge.SetStyle("bold")
		} else if person.Stance != "" {
			edge.SetLabel(person.Stance)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
