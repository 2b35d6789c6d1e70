// ABOUTME: Proposal generation from discovery notes through the webhook
// ABOUTME: Validates input before any call and reads back the stored row when needed
package proposals

import (
	"context"
	"strings"

	"github.com/harperreed/pitch/cache"
	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/models"
)

// GenerateInput is the new-proposal form.
type GenerateInput struct {
	CompanyName        string
	ContactName        string
	ContactEmail       string
	ContactRole        string
	DiscoveryNotes     string
	AdditionalContext  string
	FirefliesMeetingID string
}

func (in GenerateInput) validate() error {
	if strings.TrimSpace(in.CompanyName) == "" {
		return &ValidationError{Field: "company_name", Message: "Company name is required"}
	}
	if strings.TrimSpace(in.DiscoveryNotes) == "" {
		return &ValidationError{Field: "discovery_notes", Message: "Discovery notes are required"}
	}
	return nil
}

func (in GenerateInput) request(userID string) gateway.GenerateRequest {
	return gateway.GenerateRequest{
		UserID: userID,
		Prospect: gateway.ProspectInput{
			CompanyName:  in.CompanyName,
			ContactName:  in.ContactName,
			ContactEmail: in.ContactEmail,
			ContactRole:  in.ContactRole,
		},
		DiscoveryNotes:     in.DiscoveryNotes,
		AdditionalContext:  in.AdditionalContext,
		FirefliesMeetingID: in.FirefliesMeetingID,
	}
}

// Generate submits discovery notes for analysis. Input is validated before
// anything is sent; on success the user's list is invalidated and the new
// proposal is cached under its id.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*models.Proposal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.user()
	if err != nil {
		return nil, err
	}

	done, err := s.begin(ActionGenerate, u.ID)
	if err != nil {
		return nil, err
	}
	defer done()

	logger := s.logger.With("company", in.CompanyName)
	logger.Info("generating proposal")

	resp := s.gw.GenerateProposal(ctx, in.request(u.ID))
	if !resp.Success || resp.Data == nil {
		logger.Warn("generate failed", "err", resp.Error)
		return nil, &GatewayError{Op: "generate proposal", Message: resp.Error}
	}
	if resp.Data.ProposalID == "" {
		logger.Warn("generate returned no proposal id")
		return nil, &GatewayError{Op: "generate proposal", Message: "no proposal id returned"}
	}

	p := s.fromResult(u, in, resp.Data)

	switch {
	case s.recorder != nil:
		if err := s.recorder.SaveProposal(ctx, p); err != nil {
			return nil, err
		}
	case p.Status == "":
		stored, err := s.repo.GetProposal(ctx, p.ID)
		if err != nil || stored == nil {
			logger.Warn("generated proposal not readable yet, assuming draft", "proposal_id", p.ID, "err", err)
			p.Status = models.StatusDraft
		} else {
			p = stored
		}
	}

	s.cache.Invalidate(cache.ProposalsKey(u.ID))
	s.cache.Set(cache.ProposalKey(p.ID), p)
	logger.Info("proposal generated", "proposal_id", p.ID, "status", p.Status)
	return p, nil
}

func (s *Service) fromResult(u *models.User, in GenerateInput, r *gateway.GenerateResult) *models.Proposal {
	analysis := r.Analysis
	if len(analysis.RecommendedApproach.Phases) == 0 {
		analysis.RecommendedApproach.Phases = r.RecommendedPhases
	}

	p := &models.Proposal{
		ID:         r.ProposalID,
		ProspectID: r.ProspectID,
		Prospect: &models.Prospect{
			ID:           r.ProspectID,
			CompanyName:  in.CompanyName,
			ContactName:  in.ContactName,
			ContactEmail: in.ContactEmail,
			ContactRole:  in.ContactRole,
		},
		CreatedBy:         u.ID,
		Status:            r.Status,
		Priority:          r.Priority,
		DiscoveryNotes:    in.DiscoveryNotes,
		AdditionalContext: in.AdditionalContext,
		Analysis:          analysis,
		DraftEmailSubject: r.Email.Subject,
		DraftEmailBody:    r.Email.Body,
		TotalEstimateLow:  r.Totals.InitialInvestmentLow,
		TotalEstimateHigh: r.Totals.InitialInvestmentHigh,
		CreatedAt:         s.now(),
	}
	if r.Totals.OngoingMonthlyLow > 0 || r.Totals.OngoingMonthlyHigh > 0 {
		low, high := r.Totals.OngoingMonthlyLow, r.Totals.OngoingMonthlyHigh
		p.OngoingMonthlyLow = &low
		p.OngoingMonthlyHigh = &high
	}
	return p
}
