// ABOUTME: Dashboard view: status filter, pipeline stats, and win rate
package proposals

import (
	"context"
	"math"
	"strings"

	"github.com/harperreed/pitch/models"
)

// Filter is a dashboard status filter; the zero value shows everything.
type Filter struct {
	Label  string
	Status models.ProposalStatus
}

var Filters = []Filter{
	{Label: "All"},
	{Label: "Drafts", Status: models.StatusDraft},
	{Label: "Pending Review", Status: models.StatusPendingReview},
	{Label: "Sent", Status: models.StatusSent},
	{Label: "Won", Status: models.StatusWon},
	{Label: "Lost", Status: models.StatusLost},
}

// EmptyMessage is shown when the filter matches nothing.
func (f Filter) EmptyMessage() string {
	if f.Status == "" {
		return "No proposals yet. Create your first one!"
	}
	return "No " + strings.ReplaceAll(string(f.Status), "_", " ") + " proposals."
}

type Stats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Won     int `json:"won"`
	// WinRate is a whole percentage of won over sent plus won.
	WinRate int `json:"win_rate"`
}

func ComputeStats(proposals []models.Proposal) Stats {
	var st Stats
	st.Total = len(proposals)
	for _, p := range proposals {
		switch p.Status {
		case models.StatusPendingReview:
			st.Pending++
		case models.StatusSent:
			st.Sent++
		case models.StatusWon:
			st.Won++
		}
	}
	if decided := st.Sent + st.Won; decided > 0 {
		st.WinRate = int(math.Round(float64(st.Won) / float64(decided) * 100))
	}
	return st
}

// FilterProposals keeps proposals with the given status; "" keeps all.
func FilterProposals(proposals []models.Proposal, status models.ProposalStatus) []models.Proposal {
	if status == "" {
		return proposals
	}
	var out []models.Proposal
	for _, p := range proposals {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

type Dashboard struct {
	Stats     Stats             `json:"stats"`
	Filter    Filter            `json:"filter"`
	Proposals []models.Proposal `json:"proposals"`
}

// Dashboard loads the user's proposals and applies status. Stats always
// cover the whole list.
func (s *Service) Dashboard(ctx context.Context, status models.ProposalStatus) (*Dashboard, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filter := Filter{Label: status.Label(), Status: status}
	for _, f := range Filters {
		if f.Status == status {
			filter = f
		}
	}
	return &Dashboard{
		Stats:     ComputeStats(all),
		Filter:    filter,
		Proposals: FilterProposals(all, status),
	}, nil
}
