// ABOUTME: Proposal MCP tool handlers
// ABOUTME: Implements list, show, generate, mark-sent, outcome, and PDF tools over the view model
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

type ProposalHandlers struct {
	svc *proposals.Service
}

func NewProposalHandlers(svc *proposals.Service) *ProposalHandlers {
	return &ProposalHandlers{svc: svc}
}

// toolError turns a view-model error into the message the agent sees.
func toolError(err error, fallback string) error {
	msg := proposals.GatewayNotice(err, fallback).Message
	if strings.Contains(err.Error(), msg) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

type ProposalSummary struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	Priority    string `json:"priority,omitempty"`
	Estimate    string `json:"estimate"`
	CreatedAt   string `json:"created_at"`
}

func summarize(p *models.Proposal) ProposalSummary {
	return ProposalSummary{
		ID:          p.ID,
		CompanyName: p.CompanyName(),
		Status:      string(p.Status),
		Priority:    string(p.Priority),
		Estimate:    models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

type ListProposalsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: draft, pending_review, sent, won, lost, stalled (default all)"`
}

type ListProposalsOutput struct {
	Stats     proposals.Stats   `json:"stats"`
	Filter    string            `json:"filter"`
	Proposals []ProposalSummary `json:"proposals"`
	Message   string            `json:"message,omitempty"`
}

func (h *ProposalHandlers) ListProposals(ctx context.Context, request *mcp.CallToolRequest, input ListProposalsInput) (*mcp.CallToolResult, ListProposalsOutput, error) {
	status, err := models.ParseStatus(input.Status)
	if err != nil {
		return nil, ListProposalsOutput{}, err
	}

	d, err := h.svc.Dashboard(ctx, status)
	if err != nil {
		return nil, ListProposalsOutput{}, toolError(err, "Failed to load proposals")
	}

	out := ListProposalsOutput{
		Stats:     d.Stats,
		Filter:    d.Filter.Label,
		Proposals: make([]ProposalSummary, 0, len(d.Proposals)),
	}
	for i := range d.Proposals {
		out.Proposals = append(out.Proposals, summarize(&d.Proposals[i]))
	}
	if len(out.Proposals) == 0 {
		out.Message = d.Filter.EmptyMessage()
	}
	return nil, out, nil
}

type GetProposalInput struct {
	ID string `json:"id" jsonschema:"Proposal ID (required)"`
}

type ProposalOutput struct {
	Proposal       *models.Proposal `json:"proposal"`
	InitialPricing string           `json:"initial_pricing"`
	OngoingPricing string           `json:"ongoing_pricing,omitempty"`
	Recipient      string           `json:"recipient"`
	Actions        []string         `json:"available_actions"`
}

func availableActions(status models.ProposalStatus) []string {
	actions := []string{"generate_pdf"}
	if proposals.CanMarkSent(status) {
		actions = append(actions, "mark_proposal_sent")
	}
	if proposals.CanRecordOutcome(status) {
		actions = append(actions, "record_outcome")
	}
	return actions
}

func (h *ProposalHandlers) GetProposal(ctx context.Context, request *mcp.CallToolRequest, input GetProposalInput) (*mcp.CallToolResult, ProposalOutput, error) {
	if input.ID == "" {
		return nil, ProposalOutput{}, fmt.Errorf("id is required")
	}

	p, err := h.svc.Get(ctx, input.ID)
	if err != nil {
		return nil, ProposalOutput{}, toolError(err, "Failed to load proposal")
	}

	d := proposals.NewDetail(p)
	pricing := d.Pricing()
	return nil, ProposalOutput{
		Proposal:       p,
		InitialPricing: pricing.InitialLabel(),
		OngoingPricing: pricing.OngoingLabel(),
		Recipient:      d.Recipient(),
		Actions:        availableActions(p.Status),
	}, nil
}

type GenerateProposalInput struct {
	CompanyName        string `json:"company_name" jsonschema:"Prospect company name (required)"`
	ContactName        string `json:"contact_name,omitempty" jsonschema:"Primary contact name"`
	ContactEmail       string `json:"contact_email,omitempty" jsonschema:"Primary contact email"`
	ContactRole        string `json:"contact_role,omitempty" jsonschema:"Primary contact role or title"`
	DiscoveryNotes     string `json:"discovery_notes" jsonschema:"Notes from the discovery call (required)"`
	AdditionalContext  string `json:"additional_context,omitempty" jsonschema:"Anything else the analysis should consider"`
	FirefliesMeetingID string `json:"fireflies_meeting_id,omitempty" jsonschema:"Fireflies meeting the notes came from"`
}

type GenerateProposalOutput struct {
	Message  string          `json:"message"`
	Proposal ProposalSummary `json:"proposal"`
}

func (h *ProposalHandlers) GenerateProposal(ctx context.Context, request *mcp.CallToolRequest, input GenerateProposalInput) (*mcp.CallToolResult, GenerateProposalOutput, error) {
	p, err := h.svc.Generate(ctx, proposals.GenerateInput{
		CompanyName:        input.CompanyName,
		ContactName:        input.ContactName,
		ContactEmail:       input.ContactEmail,
		ContactRole:        input.ContactRole,
		DiscoveryNotes:     input.DiscoveryNotes,
		AdditionalContext:  input.AdditionalContext,
		FirefliesMeetingID: input.FirefliesMeetingID,
	})
	if err != nil {
		return nil, GenerateProposalOutput{}, toolError(err, "Failed to generate proposal")
	}
	return nil, GenerateProposalOutput{
		Message:  "Proposal generated successfully!",
		Proposal: summarize(p),
	}, nil
}

type ProposalIDInput struct {
	ID string `json:"id" jsonschema:"Proposal ID (required)"`
}

type StatusOutput struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

func (h *ProposalHandlers) MarkSent(ctx context.Context, request *mcp.CallToolRequest, input ProposalIDInput) (*mcp.CallToolResult, StatusOutput, error) {
	if input.ID == "" {
		return nil, StatusOutput{}, fmt.Errorf("id is required")
	}
	p, err := h.svc.MarkSent(ctx, input.ID)
	if err != nil {
		return nil, StatusOutput{}, toolError(err, "Failed to update status")
	}
	return nil, StatusOutput{Message: "Proposal marked as sent", ID: p.ID, Status: string(p.Status)}, nil
}

type RecordOutcomeInput struct {
	ID            string   `json:"id" jsonschema:"Proposal ID (required)"`
	Outcome       string   `json:"outcome" jsonschema:"Outcome: won, lost, or stalled (required)"`
	Notes         string   `json:"notes,omitempty" jsonschema:"Outcome notes"`
	WhatWorked    string   `json:"what_worked,omitempty" jsonschema:"What worked (won only)"`
	Tags          []string `json:"tags,omitempty" jsonschema:"Example tags (won only)"`
	SaveAsExample *bool    `json:"save_as_example,omitempty" jsonschema:"Save as an example for future proposals (won only, default true)"`
}

func (h *ProposalHandlers) RecordOutcome(ctx context.Context, request *mcp.CallToolRequest, input RecordOutcomeInput) (*mcp.CallToolResult, StatusOutput, error) {
	if input.ID == "" {
		return nil, StatusOutput{}, fmt.Errorf("id is required")
	}
	outcome := models.ProposalStatus(input.Outcome)

	save := outcome == models.StatusWon
	if input.SaveAsExample != nil {
		save = *input.SaveAsExample
	}

	p, err := h.svc.RecordOutcome(ctx, proposals.OutcomeInput{
		ProposalID:    input.ID,
		Outcome:       outcome,
		Notes:         input.Notes,
		WhatWorked:    input.WhatWorked,
		Tags:          input.Tags,
		SaveAsExample: save,
	})
	if err != nil {
		return nil, StatusOutput{}, toolError(err, "Failed to update status")
	}
	return nil, StatusOutput{
		Message: proposals.OutcomeNotice(outcome).Message,
		ID:      p.ID,
		Status:  string(p.Status),
	}, nil
}

type PDFOutput struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
	URL     string `json:"url,omitempty"`
}

func (h *ProposalHandlers) GeneratePDF(ctx context.Context, request *mcp.CallToolRequest, input ProposalIDInput) (*mcp.CallToolResult, PDFOutput, error) {
	if input.ID == "" {
		return nil, PDFOutput{}, fmt.Errorf("id is required")
	}
	res := h.svc.RequestPDF(ctx, input.ID)
	notice := res.Notice()
	if res.Kind == proposals.PDFFailed {
		return nil, PDFOutput{}, fmt.Errorf("%s", notice.Message)
	}
	return nil, PDFOutput{Message: notice.Message, Kind: string(res.Kind), URL: res.URL}, nil
}

type ListMeetingsInput struct{}

type ListMeetingsOutput struct {
	Meetings []models.Meeting `json:"meetings"`
}

func (h *ProposalHandlers) ListMeetings(ctx context.Context, request *mcp.CallToolRequest, input ListMeetingsInput) (*mcp.CallToolResult, ListMeetingsOutput, error) {
	meetings, err := h.svc.Meetings(ctx)
	if err != nil {
		return nil, ListMeetingsOutput{}, toolError(err, "Failed to load meetings")
	}
	return nil, ListMeetingsOutput{Meetings: meetings}, nil
}

type GetTranscriptInput struct {
	MeetingID string `json:"meeting_id" jsonschema:"Fireflies meeting ID (required)"`
}

type GetTranscriptOutput struct {
	MeetingID  string `json:"meeting_id"`
	Transcript string `json:"transcript"`
}

func (h *ProposalHandlers) GetTranscript(ctx context.Context, request *mcp.CallToolRequest, input GetTranscriptInput) (*mcp.CallToolResult, GetTranscriptOutput, error) {
	text, err := h.svc.Transcript(ctx, input.MeetingID)
	if err != nil {
		return nil, GetTranscriptOutput{}, toolError(err, "Failed to load transcript")
	}
	return nil, GetTranscriptOutput{MeetingID: input.MeetingID, Transcript: text}, nil
}

// Register adds every proposal tool to the server.
func (h *ProposalHandlers) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_proposals",
		Description: "List your proposals with pipeline stats, optionally filtered by status",
	}, h.ListProposals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_proposal",
		Description: "Get a proposal's analysis, pricing, email draft, and available actions",
	}, h.GetProposal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_proposal",
		Description: "Generate a new proposal from discovery call notes",
	}, h.GenerateProposal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mark_proposal_sent",
		Description: "Mark a draft or pending-review proposal as sent",
	}, h.MarkSent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "record_outcome",
		Description: "Record a sent proposal as won, lost, or stalled",
	}, h.RecordOutcome)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pdf",
		Description: "Render a proposal as a PDF and return its URL",
	}, h.GeneratePDF)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List recorded Fireflies meetings",
	}, h.ListMeetings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Fetch a Fireflies meeting transcript to use as discovery notes",
	}, h.GetTranscript)
}
