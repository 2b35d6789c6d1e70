// ABOUTME: Typed request and response shapes for the five webhook operations
// ABOUTME: Generate, manage, PDF, and Fireflies meeting list/transcript
package gateway

import (
	"context"

	"github.com/harperreed/pitch/models"
)

const (
	EndpointGenerate  = "/proposal/generate"
	EndpointManage    = "/proposal/manage"
	EndpointPDF       = "/proposal/pdf"
	EndpointFireflies = "/fireflies"
)

type ProspectInput struct {
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactRole  string `json:"contact_role,omitempty"`
}

type GenerateRequest struct {
	UserID             string        `json:"user_id"`
	Prospect           ProspectInput `json:"prospect"`
	DiscoveryNotes     string        `json:"discovery_notes"`
	AdditionalContext  string        `json:"additional_context,omitempty"`
	FirefliesMeetingID string        `json:"fireflies_meeting_id,omitempty"`
}

type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Totals struct {
	InitialInvestmentLow  float64 `json:"initial_investment_low"`
	InitialInvestmentHigh float64 `json:"initial_investment_high"`
	OngoingMonthlyLow     float64 `json:"ongoing_monthly_low"`
	OngoingMonthlyHigh    float64 `json:"ongoing_monthly_high"`
}

// GenerateResult is what the analysis service returns for a new proposal.
// Status and Priority are optional; the service decides them.
type GenerateResult struct {
	ProposalID        string                `json:"proposal_id"`
	ProspectID        string                `json:"prospect_id"`
	Status            models.ProposalStatus `json:"status,omitempty"`
	Priority          models.Priority       `json:"priority,omitempty"`
	Analysis          models.Analysis       `json:"analysis"`
	RecommendedPhases []models.Phase        `json:"recommended_phases"`
	Email             Email                 `json:"email"`
	Totals            Totals                `json:"totals"`
}

type ManageAction string

const (
	ActionUpdateStatus ManageAction = "update_status"
	ActionSaveExample  ManageAction = "save_example"
)

type ManageRequest struct {
	Action        ManageAction          `json:"action"`
	ProposalID    string                `json:"proposal_id"`
	UserID        string                `json:"user_id"`
	Status        models.ProposalStatus `json:"status,omitempty"`
	OutcomeNotes  string                `json:"outcome_notes,omitempty"`
	WhatWorked    string                `json:"what_worked,omitempty"`
	Tags          []string              `json:"tags,omitempty"`
	SaveAsExample *bool                 `json:"save_as_example,omitempty"`
}

type ManageResult struct {
	Success bool `json:"success"`
}

type PDFRequest struct {
	ProposalID string `json:"proposal_id"`
	UserID     string `json:"user_id"`
}

type PDFResult struct {
	PDFURL string `json:"pdf_url,omitempty"`
}

type FirefliesRequest struct {
	Action    string `json:"action"`
	UserID    string `json:"user_id"`
	MeetingID string `json:"meeting_id,omitempty"`
}

type MeetingsResult struct {
	Meetings []models.Meeting `json:"meetings"`
}

type TranscriptResult struct {
	Transcript string `json:"transcript"`
}

func (c *Client) GenerateProposal(ctx context.Context, req GenerateRequest) Response[GenerateResult] {
	return Call[GenerateResult](ctx, c, EndpointGenerate, req)
}

func (c *Client) ManageProposal(ctx context.Context, req ManageRequest) Response[ManageResult] {
	return Call[ManageResult](ctx, c, EndpointManage, req)
}

func (c *Client) GeneratePDF(ctx context.Context, proposalID, userID string) Response[PDFResult] {
	return Call[PDFResult](ctx, c, EndpointPDF, PDFRequest{ProposalID: proposalID, UserID: userID})
}

func (c *Client) ListMeetings(ctx context.Context, userID string) Response[MeetingsResult] {
	return Call[MeetingsResult](ctx, c, EndpointFireflies, FirefliesRequest{Action: "list_meetings", UserID: userID})
}

func (c *Client) GetTranscript(ctx context.Context, userID, meetingID string) Response[TranscriptResult] {
	return Call[TranscriptResult](ctx, c, EndpointFireflies, FirefliesRequest{
		Action:    "get_transcript",
		UserID:    userID,
		MeetingID: meetingID,
	})
}
