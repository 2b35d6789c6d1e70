// ABOUTME: PostgREST row access for profiles and proposals
// ABOUTME: Proposals are read with their prospect joined, newest first
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/harperreed/pitch/models"
)

const proposalSelect = "*,prospect:prospects(*)"

func (c *Client) rows(ctx context.Context, method, table string, query url.Values, body any, prefer string, out any) error {
	return c.do(ctx, c.rest, request{
		method: method,
		path:   "/rest/v1/" + table,
		query:  query,
		body:   body,
		prefer: prefer,
	}, out)
}

// GetUser returns nil, nil when the profile row does not exist.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var users []models.User
	q := url.Values{"select": {"*"}, "id": {"eq." + id}}
	if err := c.rows(ctx, http.MethodGet, "users", q, nil, "", &users); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	body := map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.Name,
	}
	var created []models.User
	if err := c.rows(ctx, http.MethodPost, "users", nil, body, "return=representation", &created); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if len(created) > 0 {
		*user = created[0]
	}
	return nil
}

// UpdateUser writes the editable profile fields. Empty optional fields are
// stored as null.
func (c *Client) UpdateUser(ctx context.Context, user *models.User) error {
	body := map[string]any{
		"full_name":              user.Name,
		"fireflies_api_key":      nullable(user.FirefliesAPIKey),
		"default_signature_name": nullable(user.DefaultSignatureName),
	}
	q := url.Values{"id": {"eq." + user.ID}}
	if err := c.rows(ctx, http.MethodPatch, "users", q, body, "return=minimal", nil); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListProposals returns the user's proposals, newest first.
func (c *Client) ListProposals(ctx context.Context, userID string) ([]models.Proposal, error) {
	q := url.Values{
		"select":     {proposalSelect},
		"created_by": {"eq." + userID},
		"order":      {"created_at.desc"},
	}
	var proposals []models.Proposal
	if err := c.rows(ctx, http.MethodGet, "proposals", q, nil, "", &proposals); err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// GetProposal returns nil, nil when no proposal has the id.
func (c *Client) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	q := url.Values{"select": {proposalSelect}, "id": {"eq." + id}}
	var proposals []models.Proposal
	if err := c.rows(ctx, http.MethodGet, "proposals", q, nil, "", &proposals); err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	if len(proposals) == 0 {
		return nil, nil
	}
	return &proposals[0], nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
