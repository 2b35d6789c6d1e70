// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pitch/viz"
)

type VizHandlers struct {
	generator *viz.GraphGenerator
}

func NewVizHandlers(source viz.Source) *VizHandlers {
	return &VizHandlers{generator: viz.NewGraphGenerator(source)}
}

type GenerateGraphInput struct {
	Type       string `json:"type" jsonschema:"Graph type: stakeholders or pipeline"`
	ProposalID string `json:"proposal_id,omitempty" jsonschema:"Proposal ID (required for stakeholders)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	var dot string
	var err error

	switch input.Type {
	case "stakeholders":
		if input.ProposalID == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("proposal_id required for stakeholders graph")
		}
		dot, err = h.generator.GenerateStakeholderGraph(ctx, input.ProposalID)
	case "pipeline":
		dot, err = h.generator.GeneratePipelineGraph(ctx)
	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("invalid graph type: %s (valid: stakeholders, pipeline)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: countNodes(dot),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}

// countNodes counts node statements in DOT source: lines with attributes
// that are neither edges nor graph/node/edge defaults.
func countNodes(dot string) int {
	count := 0
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "[") || strings.Contains(line, "->") {
			continue
		}
		if strings.HasPrefix(line, "graph") || strings.HasPrefix(line, "node") || strings.HasPrefix(line, "edge") {
			continue
		}
		count++
	}
	return count
}

func (h *VizHandlers) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz stakeholder map for a proposal or a pipeline graph of all proposals",
	}, h.GenerateGraph)
}
