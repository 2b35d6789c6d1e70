// ABOUTME: Migration utility copying hosted proposals into the local SQLite backend.
// ABOUTME: Provides dry-run and backup capabilities so PITCH_BACKEND=sqlite starts with real data.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/config"
	"github.com/harperreed/pitch/db"
	"github.com/harperreed/pitch/logging"
	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/supabase"
)

// Source is the hosted backend, read with the signed-in session.
type Source interface {
	CurrentSession(ctx context.Context) (*auth.Identity, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListProposals(ctx context.Context, userID string) ([]models.Proposal, error)
}

// Destination is the local store.
type Destination interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetProposal(ctx context.Context, id string) (*models.Proposal, error)
	SaveProposal(ctx context.Context, p *models.Proposal) error
}

type result struct {
	Copied  int
	Skipped int
	Failed  int
}

func main() {
	dbPath := flag.String("db", config.DefaultDBPath(), "Path to local database file")
	envFile := flag.String("env-file", "", "Load configuration from this .env file")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if *backup && !*dryRun {
		if err := backupDatabase(*dbPath); err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
	}

	database, err := db.OpenDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = database.Close() }()

	logger := logging.New(cfg.LogLevel)
	source := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey,
		supabase.WithLogger(logger),
		supabase.WithTokenStore(supabase.FileStore{Path: config.SessionPath()}),
	)

	res, err := migrate(context.Background(), source, db.NewRepository(database), *dryRun)
	if err != nil {
		_ = database.Close()
		log.Fatalf("Migration failed: %v", err)
	}

	if *dryRun {
		log.Printf("[DRY RUN] Would copy %d proposals (%d already present)", res.Copied, res.Skipped)
		return
	}
	log.Printf("Migration completed: %d copied, %d already present, %d failed", res.Copied, res.Skipped, res.Failed)
}

// backupDatabase copies an existing database file aside. A missing file is fine.
func backupDatabase(path string) error {
	input, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	log.Printf("Creating backup: %s", backupPath)
	if err := os.WriteFile(backupPath, input, 0600); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return nil
}

// migrate copies the signed-in user's profile and proposals. Proposals
// already in dst are left alone, so running it twice is safe.
func migrate(ctx context.Context, src Source, dst Destination, dryRun bool) (result, error) {
	var res result

	ident, err := src.CurrentSession(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to read session: %w", err)
	}
	if ident == nil {
		return res, errors.New("not signed in, run 'pitch login' first")
	}

	if err := ensureUser(ctx, src, dst, ident, dryRun); err != nil {
		return res, err
	}

	list, err := src.ListProposals(ctx, ident.ID)
	if err != nil {
		return res, fmt.Errorf("failed to list hosted proposals: %w", err)
	}
	log.Printf("Found %d hosted proposals", len(list))

	for i := range list {
		p := list[i]
		existing, err := dst.GetProposal(ctx, p.ID)
		if err != nil {
			return res, fmt.Errorf("failed to check proposal %s: %w", p.ID, err)
		}
		if existing != nil {
			res.Skipped++
			continue
		}
		if dryRun {
			log.Printf("[DRY RUN] - %s (%s)", p.CompanyName(), p.Status)
			res.Copied++
			continue
		}
		if p.CreatedBy == "" {
			p.CreatedBy = ident.ID
		}
		if p.Prospect == nil {
			p.Prospect = &models.Prospect{ID: p.ProspectID, CompanyName: p.CompanyName()}
		}
		if err := dst.SaveProposal(ctx, &p); err != nil {
			log.Printf("Skipping %s: %v", p.ID, err)
			res.Failed++
			continue
		}
		res.Copied++
	}
	return res, nil
}

func ensureUser(ctx context.Context, src Source, dst Destination, ident *auth.Identity, dryRun bool) error {
	local, err := dst.GetUser(ctx, ident.ID)
	if err != nil {
		return fmt.Errorf("failed to read local profile: %w", err)
	}
	if local != nil {
		return nil
	}

	user, err := src.GetUser(ctx, ident.ID)
	if err != nil {
		return fmt.Errorf("failed to read hosted profile: %w", err)
	}
	if user == nil {
		user = &models.User{ID: ident.ID, Email: ident.Email, Name: auth.DisplayName(ident)}
	}
	if dryRun {
		log.Printf("[DRY RUN] - Create local profile for %s", user.Email)
		return nil
	}
	return dst.CreateUser(ctx, user)
}
