package models

import "time"

// Outcome records how a sent proposal ended.
type Outcome struct {
	ProposalID    string         `json:"proposal_id"`
	Status        ProposalStatus `json:"status"`
	Notes         string         `json:"outcome_notes,omitempty"`
	WhatWorked    string         `json:"what_worked,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	SaveAsExample bool           `json:"save_as_example,omitempty"`
	RecordedAt    time.Time      `json:"recorded_at"`
}
