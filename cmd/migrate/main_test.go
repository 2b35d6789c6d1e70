package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/db"
	"github.com/harperreed/pitch/models"
)

type fakeSource struct {
	ident *auth.Identity
	user  *models.User
	list  []models.Proposal
}

func (s *fakeSource) CurrentSession(ctx context.Context) (*auth.Identity, error) {
	return s.ident, nil
}

func (s *fakeSource) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}

func (s *fakeSource) ListProposals(ctx context.Context, userID string) ([]models.Proposal, error) {
	return s.list, nil
}

func setupLocal(t *testing.T) *db.Repository {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "pitch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return db.NewRepository(database)
}

func hostedSource() *fakeSource {
	return &fakeSource{
		ident: &auth.Identity{ID: "u1", Email: "dana@acme.com", FullName: "Dana"},
		user:  &models.User{ID: "u1", Email: "dana@acme.com", Name: "Dana Scully"},
		list: []models.Proposal{
			{
				ID:             "p1",
				ProspectID:     "pr1",
				Prospect:       &models.Prospect{ID: "pr1", CompanyName: "Acme Corp"},
				CreatedBy:      "u1",
				Status:         models.StatusSent,
				DiscoveryNotes: "Met the COO",
				CreatedAt:      time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:             "p2",
				ProspectID:     "pr2",
				Prospect:       &models.Prospect{ID: "pr2", CompanyName: "Globex"},
				Status:         models.StatusDraft,
				DiscoveryNotes: "Intro call",
				CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestMigrateCopiesProposals(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)

	res, err := migrate(ctx, hostedSource(), local, false)
	require.NoError(t, err)
	assert.Equal(t, result{Copied: 2}, res)

	user, err := local.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Dana Scully", user.Name)

	list, err := local.ListProposals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Corp", list[0].CompanyName())
	assert.Equal(t, models.StatusSent, list[0].Status)
}

func TestMigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)

	_, err := migrate(ctx, hostedSource(), local, false)
	require.NoError(t, err)

	res, err := migrate(ctx, hostedSource(), local, false)
	require.NoError(t, err)
	assert.Equal(t, result{Skipped: 2}, res)
}

func TestMigrateDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)

	res, err := migrate(ctx, hostedSource(), local, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Copied)

	user, err := local.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user)

	list, err := local.ListProposals(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMigrateRequiresSession(t *testing.T) {
	src := hostedSource()
	src.ident = nil

	_, err := migrate(context.Background(), src, setupLocal(t), false)
	assert.EqualError(t, err, "not signed in, run 'pitch login' first")
}

func TestBackupDatabase(t *testing.T) {
	dir := t.TempDir()

	// nothing to back up yet
	require.NoError(t, backupDatabase(filepath.Join(dir, "missing.db")))

	path := filepath.Join(dir, "pitch.db")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))
	require.NoError(t, backupDatabase(path))

	matches, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}
