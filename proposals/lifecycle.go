// ABOUTME: Status changes after a proposal is generated
// ABOUTME: Mark as sent, then record a won, lost, or stalled outcome
package proposals

import (
	"context"
	"fmt"

	"github.com/harperreed/pitch/cache"
	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/models"
)

// MarkSent records that the email went out. Allowed from draft and pending_review.
func (s *Service) MarkSent(ctx context.Context, id string) (*models.Proposal, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	done, err := s.begin(ActionMarkSent, id)
	if err != nil {
		return nil, err
	}
	defer done()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMarkSent(p.Status) {
		return nil, invalidTransition(string(p.Status), string(models.StatusSent))
	}

	resp := s.gw.ManageProposal(ctx, gateway.ManageRequest{
		Action:     gateway.ActionUpdateStatus,
		ProposalID: id,
		UserID:     u.ID,
		Status:     models.StatusSent,
	})
	if !resp.Success {
		s.logger.Warn("mark sent failed", "proposal_id", id, "err", resp.Error)
		return nil, &GatewayError{Op: "update status", Message: resp.Error}
	}

	sentAt := s.now()
	if s.recorder != nil {
		if err := s.recorder.UpdateStatus(ctx, id, models.StatusSent, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to record sent status: %w", err)
		}
	}

	updated := *p
	updated.Status = models.StatusSent
	updated.SentAt = &sentAt
	s.cache.Invalidate(cache.ProposalKey(id), cache.ProposalsKey(u.ID))
	s.logger.Info("proposal marked sent", "proposal_id", id)
	return &updated, nil
}

// OutcomeInput is the outcome form. WhatWorked, Tags, and SaveAsExample
// only apply to won.
type OutcomeInput struct {
	ProposalID    string
	Outcome       models.ProposalStatus
	Notes         string
	WhatWorked    string
	Tags          []string
	SaveAsExample bool
}

func (in OutcomeInput) validate() error {
	if !in.Outcome.IsOutcome() {
		return &ValidationError{Field: "outcome", Message: fmt.Sprintf("%q is not an outcome (won, lost, stalled)", in.Outcome)}
	}
	if in.Outcome != models.StatusWon && (in.WhatWorked != "" || len(in.Tags) > 0 || in.SaveAsExample) {
		return &ValidationError{Field: "outcome", Message: "What worked, tags, and saving as an example only apply to won proposals"}
	}
	return nil
}

// Request builds the manage payload for the outcome.
func (in OutcomeInput) Request(userID string) gateway.ManageRequest {
	req := gateway.ManageRequest{
		Action:       gateway.ActionUpdateStatus,
		ProposalID:   in.ProposalID,
		UserID:       userID,
		Status:       in.Outcome,
		OutcomeNotes: in.Notes,
	}
	if in.Outcome != models.StatusWon {
		return req
	}

	req.WhatWorked = in.WhatWorked
	req.Tags = models.NewTagSet(in.Tags...).Slice()
	save := in.SaveAsExample
	req.SaveAsExample = &save
	if save {
		req.Action = gateway.ActionSaveExample
	}
	return req
}

// RecordOutcome closes a sent proposal as won, lost, or stalled.
func (s *Service) RecordOutcome(ctx context.Context, in OutcomeInput) (*models.Proposal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	done, err := s.begin(ActionOutcome, in.ProposalID)
	if err != nil {
		return nil, err
	}
	defer done()

	p, err := s.Get(ctx, in.ProposalID)
	if err != nil {
		return nil, err
	}
	if !CanRecordOutcome(p.Status) {
		return nil, invalidTransition(string(p.Status), string(in.Outcome))
	}

	req := in.Request(u.ID)
	resp := s.gw.ManageProposal(ctx, req)
	if !resp.Success {
		s.logger.Warn("record outcome failed", "proposal_id", in.ProposalID, "outcome", in.Outcome, "err", resp.Error)
		return nil, &GatewayError{Op: "update status", Message: resp.Error}
	}

	if s.recorder != nil {
		outcome := &models.Outcome{
			ProposalID:    in.ProposalID,
			Status:        in.Outcome,
			Notes:         req.OutcomeNotes,
			WhatWorked:    req.WhatWorked,
			Tags:          req.Tags,
			SaveAsExample: req.SaveAsExample != nil && *req.SaveAsExample,
			RecordedAt:    s.now(),
		}
		if err := s.recorder.RecordOutcome(ctx, outcome); err != nil {
			return nil, fmt.Errorf("failed to record outcome: %w", err)
		}
	}

	updated := *p
	updated.Status = in.Outcome
	s.cache.Invalidate(cache.ProposalKey(in.ProposalID), cache.ProposalsKey(u.ID))
	s.logger.Info("outcome recorded", "proposal_id", in.ProposalID, "outcome", in.Outcome, "action", req.Action)
	return &updated, nil
}

// CanMarkSent reports whether the Mark as Sent action applies.
func CanMarkSent(status models.ProposalStatus) bool {
	return status.CanTransition(models.StatusSent)
}

// CanRecordOutcome reports whether outcome actions apply.
func CanRecordOutcome(status models.ProposalStatus) bool {
	return status == models.StatusSent
}

// OutcomeNotice is the confirmation shown after an outcome is recorded.
func OutcomeNotice(outcome models.ProposalStatus) Notice {
	return Success("Proposal marked as " + string(outcome))
}
