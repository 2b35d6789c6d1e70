// ABOUTME: Recorded won/lost/stalled outcomes and the saved-example library
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pitch/models"
)

// RecordOutcome applies the outcome status and keeps its notes and tags.
func (r *Repository) RecordOutcome(ctx context.Context, o *models.Outcome) error {
	if !o.Status.IsOutcome() {
		return fmt.Errorf("%s is not an outcome", o.Status)
	}
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}
	if err := r.UpdateStatus(ctx, o.ProposalID, o.Status, nil); err != nil {
		return err
	}

	tags := o.Tags
	if tags == nil {
		tags = []string{}
	}
	tagJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO proposal_outcomes (id, proposal_id, status, outcome_notes, what_worked, tags, save_as_example, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), o.ProposalID, string(o.Status), nullString(o.Notes), nullString(o.WhatWorked),
		string(tagJSON), o.SaveAsExample, o.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// ListExamples returns outcomes saved as examples, newest first.
func (r *Repository) ListExamples(ctx context.Context) ([]models.Outcome, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT proposal_id, status, COALESCE(outcome_notes, ''), COALESCE(what_worked, ''), tags, save_as_example, recorded_at
		FROM proposal_outcomes
		WHERE save_as_example = 1
		ORDER BY recorded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []models.Outcome
	for rows.Next() {
		var o models.Outcome
		var status, tags string
		if err := rows.Scan(&o.ProposalID, &status, &o.Notes, &o.WhatWorked, &tags, &o.SaveAsExample, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Status = models.ProposalStatus(status)
		if err := json.Unmarshal([]byte(tags), &o.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
