// ABOUTME: Proposal lifecycle status, priority, and maturity definitions
// ABOUTME: Encodes the forward-only status machine and display labels
package models

import (
	"fmt"
	"strings"
)

type ProposalStatus string

const (
	StatusDraft         ProposalStatus = "draft"
	StatusPendingReview ProposalStatus = "pending_review"
	StatusSent          ProposalStatus = "sent"
	StatusWon           ProposalStatus = "won"
	StatusLost          ProposalStatus = "lost"
	StatusStalled       ProposalStatus = "stalled"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []ProposalStatus{
	StatusDraft,
	StatusPendingReview,
	StatusSent,
	StatusWon,
	StatusLost,
	StatusStalled,
}

var statusLabels = map[ProposalStatus]string{
	StatusDraft:         "Draft",
	StatusPendingReview: "Pending Review",
	StatusSent:          "Sent",
	StatusWon:           "Won",
	StatusLost:          "Lost",
	StatusStalled:       "Stalled",
}

// rank orders statuses along draft -> pending_review -> sent -> outcome.
func (s ProposalStatus) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusPendingReview:
		return 1
	case StatusSent:
		return 2
	case StatusWon, StatusLost, StatusStalled:
		return 3
	}
	return -1
}

func (s ProposalStatus) Valid() bool {
	return s.rank() >= 0
}

func (s ProposalStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsOutcome reports whether s is one of the terminal outcomes.
func (s ProposalStatus) IsOutcome() bool {
	return s.rank() == 3
}

// CanTransition reports whether a proposal may move from s to next.
// Outcomes are only reachable from sent.
func (s ProposalStatus) CanTransition(next ProposalStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.IsOutcome() {
		return false
	}
	if next.IsOutcome() {
		return s == StatusSent
	}
	return next.rank() > s.rank()
}

// ParseStatus accepts a status value or "all" (returned as the empty status).
func ParseStatus(raw string) (ProposalStatus, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || raw == "all" {
		return "", nil
	}
	s := ProposalStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status: %s (valid: draft, pending_review, sent, won, lost, stalled)", raw)
	}
	return s, nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

type MaturityLevel int

var maturityLabels = []string{"", "Ad Hoc", "Early Learning", "Applied AI", "Integrated AI", "Autonomous AI"}

// Label renders "Level N: <name>".
func (m MaturityLevel) Label() string {
	if m < 1 || int(m) >= len(maturityLabels) {
		return fmt.Sprintf("Level %d", m)
	}
	return fmt.Sprintf("Level %d: %s", m, maturityLabels[m])
}
