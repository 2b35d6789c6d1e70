// ABOUTME: Repository for the local backend and its profile rows
// ABOUTME: Get returns nil, nil on a missing row like the hosted adapter
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/pitch/models"
)

var ErrProposalNotFound = errors.New("proposal not found")

// Repository serves profile and proposal rows from SQLite.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	var firefliesKey, signature sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, fireflies_api_key, default_signature_name
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.Name, &firefliesKey, &signature)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.FirefliesAPIKey = firefliesKey.String
	user.DefaultSignatureName = signature.String
	return user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, fireflies_api_key, default_signature_name)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.Name, nullString(user.FirefliesAPIKey), nullString(user.DefaultSignatureName))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser stores empty optional fields as NULL.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, fireflies_api_key = ?, default_signature_name = ?
		WHERE id = ?
	`, user.Name, nullString(user.FirefliesAPIKey), nullString(user.DefaultSignatureName), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to update user: %s does not exist", user.ID)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
