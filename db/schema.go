// ABOUTME: Schema for the local proposal backend
// ABOUTME: Mirrors the hosted users, prospects, and proposals tables plus recorded outcomes
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	full_name TEXT NOT NULL,
	fireflies_api_key TEXT,
	default_signature_name TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS prospects (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	contact_name TEXT,
	contact_email TEXT,
	contact_role TEXT
);

CREATE INDEX IF NOT EXISTS idx_prospects_company ON prospects(company_name);

CREATE TABLE IF NOT EXISTS proposals (
	id TEXT PRIMARY KEY,
	prospect_id TEXT NOT NULL,
	created_by TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft' CHECK(status IN ('draft', 'pending_review', 'sent', 'won', 'lost', 'stalled')),
	priority TEXT,
	discovery_notes TEXT NOT NULL,
	additional_context TEXT,
	ai_analysis TEXT NOT NULL DEFAULT '{}',
	draft_email_subject TEXT NOT NULL DEFAULT '',
	draft_email_body TEXT NOT NULL DEFAULT '',
	total_estimate_low REAL NOT NULL DEFAULT 0,
	total_estimate_high REAL NOT NULL DEFAULT 0,
	ongoing_monthly_low REAL,
	ongoing_monthly_high REAL,
	created_at DATETIME NOT NULL,
	sent_at DATETIME,
	FOREIGN KEY (prospect_id) REFERENCES prospects(id),
	FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_proposals_created_by ON proposals(created_by, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status);

CREATE TABLE IF NOT EXISTS proposal_outcomes (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('won', 'lost', 'stalled')),
	outcome_notes TEXT,
	what_worked TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	save_as_example INTEGER NOT NULL DEFAULT 0,
	recorded_at DATETIME NOT NULL,
	FOREIGN KEY (proposal_id) REFERENCES proposals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_outcomes_proposal ON proposal_outcomes(proposal_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_examples ON proposal_outcomes(save_as_example) WHERE save_as_example = 1;
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
