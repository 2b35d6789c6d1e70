// ABOUTME: Proposal and prospect rows for the local backend
// ABOUTME: Stores the analysis as a JSON column and joins the prospect on read
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pitch/models"
)

const proposalColumns = `
	p.id, p.prospect_id, p.created_by, p.status, p.priority, p.discovery_notes,
	p.additional_context, p.ai_analysis, p.draft_email_subject, p.draft_email_body,
	p.total_estimate_low, p.total_estimate_high, p.ongoing_monthly_low, p.ongoing_monthly_high,
	p.created_at, p.sent_at,
	pr.id, pr.company_name, pr.contact_name, pr.contact_email, pr.contact_role`

const proposalJoin = `FROM proposals p LEFT JOIN prospects pr ON pr.id = p.prospect_id`

// SaveProposal inserts a proposal and its prospect in one transaction.
// Missing ids are generated.
func (r *Repository) SaveProposal(ctx context.Context, p *models.Proposal) error {
	if p.Prospect == nil {
		return errors.New("proposal has no prospect")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Prospect.ID == "" {
		p.Prospect.ID = p.ProspectID
	}
	if p.Prospect.ID == "" {
		p.Prospect.ID = uuid.New().String()
	}
	p.ProspectID = p.Prospect.ID
	if p.Status == "" {
		p.Status = models.StatusDraft
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	// stored as text, so keep one zone for ORDER BY
	p.CreatedAt = p.CreatedAt.UTC()

	analysis, err := json.Marshal(p.Analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pr := p.Prospect
	_, err = tx.ExecContext(ctx, `
		INSERT INTO prospects (id, company_name, contact_name, contact_email, contact_role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			contact_name = excluded.contact_name,
			contact_email = excluded.contact_email,
			contact_role = excluded.contact_role
	`, pr.ID, pr.CompanyName, nullString(pr.ContactName), nullString(pr.ContactEmail), nullString(pr.ContactRole))
	if err != nil {
		return fmt.Errorf("failed to save prospect: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO proposals (
			id, prospect_id, created_by, status, priority, discovery_notes, additional_context,
			ai_analysis, draft_email_subject, draft_email_body,
			total_estimate_low, total_estimate_high, ongoing_monthly_low, ongoing_monthly_high,
			created_at, sent_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ProspectID, p.CreatedBy, string(p.Status), nullString(string(p.Priority)), p.DiscoveryNotes,
		nullString(p.AdditionalContext), string(analysis), p.DraftEmailSubject, p.DraftEmailBody,
		p.TotalEstimateLow, p.TotalEstimateHigh, nullFloat(p.OngoingMonthlyLow), nullFloat(p.OngoingMonthlyHigh),
		p.CreatedAt, p.SentAt)
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	return tx.Commit()
}

// GetProposal returns nil, nil when no proposal has the id.
func (r *Repository) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` `+proposalJoin+` WHERE p.id = ?`, id)
	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return p, nil
}

// ListProposals returns the user's proposals, newest first.
func (r *Repository) ListProposals(ctx context.Context, userID string) ([]models.Proposal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+proposalColumns+` `+proposalJoin+`
		WHERE p.created_by = ?
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var proposals []models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, *p)
	}
	return proposals, rows.Err()
}

// UpdateStatus moves a proposal along the status machine.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, sentAt *time.Time) error {
	current, err := r.GetProposal(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrProposalNotFound
	}
	if !current.Status.CanTransition(status) {
		return fmt.Errorf("cannot move proposal from %s to %s", current.Status, status)
	}

	if sentAt != nil {
		_, err = r.db.ExecContext(ctx, `UPDATE proposals SET status = ?, sent_at = ? WHERE id = ?`, string(status), *sentAt, id)
	} else {
		_, err = r.db.ExecContext(ctx, `UPDATE proposals SET status = ? WHERE id = ?`, string(status), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(s rowScanner) (*models.Proposal, error) {
	p := &models.Proposal{}
	var (
		status, analysis        string
		priority, additional    sql.NullString
		ongoingLow, ongoingHigh sql.NullFloat64
		sentAt                  sql.NullTime
		prID, company, contact  sql.NullString
		contactEmail, role      sql.NullString
	)

	err := s.Scan(
		&p.ID, &p.ProspectID, &p.CreatedBy, &status, &priority, &p.DiscoveryNotes,
		&additional, &analysis, &p.DraftEmailSubject, &p.DraftEmailBody,
		&p.TotalEstimateLow, &p.TotalEstimateHigh, &ongoingLow, &ongoingHigh,
		&p.CreatedAt, &sentAt,
		&prID, &company, &contact, &contactEmail, &role,
	)
	if err != nil {
		return nil, err
	}

	p.Status = models.ProposalStatus(status)
	p.Priority = models.Priority(priority.String)
	p.AdditionalContext = additional.String
	if ongoingLow.Valid {
		p.OngoingMonthlyLow = &ongoingLow.Float64
	}
	if ongoingHigh.Valid {
		p.OngoingMonthlyHigh = &ongoingHigh.Float64
	}
	if sentAt.Valid {
		p.SentAt = &sentAt.Time
	}
	if err := json.Unmarshal([]byte(analysis), &p.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if prID.Valid {
		p.Prospect = &models.Prospect{
			ID:           prID.String,
			CompanyName:  company.String,
			ContactName:  contact.String,
			ContactEmail: contactEmail.String,
			ContactRole:  role.String,
		}
	}
	return p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
