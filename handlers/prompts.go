// ABOUTME: MCP prompt handlers for proposal workflow templates
// ABOUTME: Builds follow-up and pipeline review prompts from stored proposals
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

type PromptHandlers struct {
	svc *proposals.Service
}

func NewPromptHandlers(svc *proposals.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "follow-up-email":
		return h.getFollowUpPrompt(ctx, request.Params.Arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getFollowUpPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["proposal_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("proposal_id is required")
	}

	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}

	var text strings.Builder
	text.WriteString("Please help me follow up on this proposal:\n\n")
	text.WriteString(fmt.Sprintf("Company: %s\n", p.CompanyName()))
	if line := proposals.ContactLine(p); line != "" {
		text.WriteString(fmt.Sprintf("Contact: %s\n", line))
	}
	text.WriteString(fmt.Sprintf("Status: %s\n", p.Status.Label()))
	if p.SentAt != nil {
		text.WriteString(fmt.Sprintf("Sent: %s\n", p.SentAt.Format("2006-01-02")))
	}
	pricing := proposals.PricingFor(p)
	text.WriteString(fmt.Sprintf("Initial investment: %s\n", pricing.InitialLabel()))
	if pricing.HasOngoing {
		text.WriteString(fmt.Sprintf("Ongoing: %s\n", pricing.OngoingLabel()))
	}
	if p.Analysis.RecommendedApproach.Summary != "" {
		text.WriteString(fmt.Sprintf("\nApproach: %s\n", p.Analysis.RecommendedApproach.Summary))
	}
	if len(p.Analysis.Cautions) > 0 {
		text.WriteString("\nCautions:\n")
		for _, c := range p.Analysis.Cautions {
			text.WriteString(fmt.Sprintf("- %s\n", c))
		}
	}
	text.WriteString(fmt.Sprintf("\nOriginal email subject: %s\n", p.DraftEmailSubject))

	text.WriteString("\nPlease draft:")
	text.WriteString("\n1. A short follow-up email that references the original proposal")
	text.WriteString("\n2. One question that would move the decision forward")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Follow-up for %s", p.CompanyName()),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPipelineReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	d, err := h.svc.Dashboard(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposals: %w", err)
	}

	var text strings.Builder
	text.WriteString("Please review my proposal pipeline:\n\n")
	text.WriteString(fmt.Sprintf("Total: %d, pending review: %d, sent: %d, won: %d, win rate: %d%%\n\n",
		d.Stats.Total, d.Stats.Pending, d.Stats.Sent, d.Stats.Won, d.Stats.WinRate))

	for _, p := range d.Proposals {
		if p.Status.IsOutcome() {
			continue
		}
		text.WriteString(fmt.Sprintf("- %s (%s): %s\n", p.CompanyName(), p.Status.Label(),
			models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh)))
	}

	text.WriteString("\nWhich open proposals need attention first, and why?")

	return &mcp.GetPromptResult{
		Description: "Pipeline review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) Register(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-email",
		Description: "Draft a follow-up for a sent proposal",
		Arguments: []*mcp.PromptArgument{
			{Name: "proposal_id", Description: "Proposal to follow up on", Required: true},
		},
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Review open proposals and suggest what to work on next",
	}, h.GetPrompt)
}
