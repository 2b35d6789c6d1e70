// ABOUTME: Entry point for the pitch proposal CLI, TUI, and MCP server
// ABOUTME: Loads config, wires the session and view model, and routes commands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/cache"
	"github.com/harperreed/pitch/cli"
	"github.com/harperreed/pitch/config"
	"github.com/harperreed/pitch/db"
	"github.com/harperreed/pitch/gateway"
	"github.com/harperreed/pitch/logging"
	"github.com/harperreed/pitch/proposals"
	"github.com/harperreed/pitch/supabase"
	"github.com/harperreed/pitch/tui"
)

const version = "0.1.0"

// app is everything a command may need, built once per process.
type app struct {
	cfg     *config.Config
	logger  *charmlog.Logger
	session *auth.Store
	svc     *proposals.Service
	db      *sql.DB
}

func (a *app) Close() {
	a.session.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func newApp(ctx context.Context, envFile, dbPath string) (*app, error) {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	logger := logging.New(cfg.LogLevel)

	client := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey,
		supabase.WithLogger(logger),
		supabase.WithTokenStore(supabase.FileStore{Path: config.SessionPath()}),
	)

	a := &app{cfg: cfg, logger: logger}

	// Identity always comes from the hosted provider; rows live in the
	// configured backend.
	var repo proposals.Repository = client
	var profiles auth.ProfileStore = client
	if cfg.Backend == config.BackendSQLite {
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		local := db.NewRepository(database)
		repo, profiles = local, local
		a.db = database
		logger.Debug("using local backend", "path", cfg.DBPath)
	}

	a.session = auth.NewStore(client, profiles, logger)
	a.session.Start(ctx)

	gw := gateway.New(cfg.WebhookBaseURL, gateway.WithLogger(logger))
	a.svc = proposals.NewService(gw, repo, a.session, cache.New(), logger)
	return a, nil
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	envFile := flag.String("env-file", "", "Load configuration from this .env file")
	dbPath := flag.String("db-path", "", "Local database path when PITCH_BACKEND=sqlite")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("pitch version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	if command == "help" {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, *envFile, *dbPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer a.Close()

	if err := run(ctx, a, command, commandArgs); err != nil {
		a.Close()
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, a *app, command string, args []string) error {
	svc := a.svc

	switch command {
	// Session commands
	case "login":
		return cli.LoginCommand(ctx, a.session, args)
	case "logout":
		return cli.LogoutCommand(ctx, a.session, args)
	case "whoami":
		return cli.WhoamiCommand(a.session, args)

	// Proposal commands
	case "list":
		return cli.ListCommand(ctx, svc, args)
	case "show":
		return cli.ShowCommand(ctx, svc, args)
	case "new":
		return cli.NewCommand(ctx, svc, args)
	case "mark-sent":
		return cli.MarkSentCommand(ctx, svc, args)
	case "outcome":
		return cli.OutcomeCommand(ctx, svc, args)
	case "pdf":
		return cli.PDFCommand(ctx, svc, args)
	case "email":
		return cli.EmailCommand(ctx, svc, args)

	// Meeting and profile commands
	case "meetings":
		return cli.MeetingsCommand(ctx, svc, args)
	case "transcript":
		return cli.TranscriptCommand(ctx, svc, args)
	case "settings":
		return cli.SettingsCommand(ctx, svc, args)

	case "mcp":
		return cli.MCPCommand(ctx, svc, a.logger, version)

	case "web":
		return cli.WebCommand(ctx, svc, a.logger, args)

	case "tui":
		if a.session.State() != auth.StateAuthenticated {
			return fmt.Errorf("not signed in, run 'pitch login' first")
		}
		return tui.Run(ctx, svc)

	case "viz":
		return runViz(ctx, svc, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func runViz(ctx context.Context, svc *proposals.Service, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: viz requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	vizCommand := args[0]
	vizArgs := args[1:]

	switch vizCommand {
	case "dashboard":
		return cli.VizDashboardCommand(ctx, svc, vizArgs)
	case "graph":
		if len(vizArgs) == 0 {
			fmt.Println("Error: viz graph requires a type (stakeholders or pipeline)")
			printUsage()
			os.Exit(1)
		}
		switch vizArgs[0] {
		case "stakeholders":
			return cli.VizGraphStakeholdersCommand(ctx, svc, vizArgs[1:])
		case "pipeline":
			return cli.VizGraphPipelineCommand(ctx, svc, vizArgs[1:])
		default:
			fmt.Printf("Unknown graph type: %s\n\n", vizArgs[0])
			printUsage()
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Printf(`pitch v%s - AI sales proposal assistant

USAGE:
  pitch [global flags] <command> [flags] [id]

GLOBAL FLAGS:
  --version              Show version and exit
  --env-file <path>      Load configuration from this .env file
  --db-path <path>       Local database path (default: ~/.local/share/pitch/pitch.db)

CONFIGURATION:
  PITCH_WEBHOOK_BASE_URL    Webhook service base URL (required)
  PITCH_SUPABASE_URL        Hosted backend URL (required)
  PITCH_SUPABASE_ANON_KEY   Hosted backend public key (required)
  PITCH_BACKEND             supabase (default) or sqlite
  PITCH_LOG_LEVEL           debug, info, warn, or error (default: info)

SESSION:
  pitch login               Sign in (prompts for password)
    --email <email>           Account email
  pitch logout              Sign out
  pitch whoami              Show the signed-in user

PROPOSALS:
  pitch list                List proposals with pipeline stats
    --status <status>         draft, pending_review, sent, won, lost, stalled

  pitch show [flags] <id>   Show a proposal
    --tab <tab>               analysis, proposal, email, or all (default: analysis)

  pitch new                 Generate a proposal from discovery notes
    --company <name>          Company name (required)
    --contact <name>          Contact name
    --email <email>           Contact email
    --role <role>             Contact role
    --notes <text>            Discovery notes
    --notes-file <path>       Read discovery notes from a file
    --context <text>          Additional context
    --meeting <id>            Fireflies meeting ID (its transcript is used when no notes are given)

  pitch mark-sent <id>      Mark a proposal as sent

  pitch outcome [flags] <id>  Record the outcome of a sent proposal
    --status <status>         won, lost, or stalled (required)
    --notes <text>            Outcome notes
    --what-worked <text>      What worked (won only)
    --tags <a,b,c>            Example tags (won only)
    --save-example            Save a won proposal as an example (default: true)

  pitch pdf <id>            Generate a PDF of the proposal

  pitch email [flags] <id>  Show the draft email
    --subject <text>          Override the subject
    --body <text>             Override the body
    --copy                    Copy to the clipboard

MEETINGS AND SETTINGS:
  pitch meetings            List recent Fireflies meetings
  pitch transcript <id>     Print a meeting transcript
  pitch settings            Show or update profile settings
    --name <name>             Display name
    --fireflies-key <key>     Fireflies API key
    --signature <text>        Email signature

INTERFACES:
  pitch tui                 Interactive dashboard
  pitch mcp                 Start MCP server (for Claude Desktop integration)
  pitch web                 Read-only web dashboard
    --port <n>                Port to listen on (default: 8080)

VIZ COMMANDS:
  pitch viz dashboard               Terminal pipeline dashboard
  pitch viz graph stakeholders <id> Stakeholder map of a proposal (DOT)
    --output <file>                   Output file (default: stdout)
  pitch viz graph pipeline          Proposals by status (DOT)
    --output <file>                   Output file (default: stdout)

EXAMPLES:
  # Generate a proposal from call notes
  pitch new --company "Acme Corp" --contact "Jane Smith" --notes-file call.md

  # Review the draft email and copy it
  pitch email --copy <id>

  # Close a won deal and keep it as an example
  pitch outcome --status won --tags pilot,manufacturing <id>

`, version)
}
