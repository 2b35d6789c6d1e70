// ABOUTME: Proposal CLI commands
// ABOUTME: List, show, generate, mark sent, record outcomes, PDFs, and email copy
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
)

// copyToClipboard is swapped in tests; the real clipboard needs a display.
var copyToClipboard = clipboard.WriteAll

// noticeError reports a failed action with the message the user should see.
func noticeError(err error, fallback string) error {
	n := proposals.GatewayNotice(err, fallback)
	if n.Level == proposals.LevelInfo {
		printNotice(n)
		return nil
	}
	return errors.New(n.Message)
}

func requireID(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() < 1 {
		return "", fmt.Errorf("%s ID required", what)
	}
	return fs.Arg(0), nil
}

// ListCommand prints the dashboard stats and the proposal table.
func ListCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	statusFlag := fs.String("status", "all", "Filter by status: all, draft, pending_review, sent, won, lost, stalled")
	_ = fs.Parse(args)

	status, err := models.ParseStatus(*statusFlag)
	if err != nil {
		return err
	}

	d, err := svc.Dashboard(ctx, status)
	if err != nil {
		return noticeError(err, "Failed to load proposals")
	}

	st := d.Stats
	fmt.Fprintf(stdout, "%d total · %d pending review · %d sent · %d won · %d%% win rate\n\n",
		st.Total, st.Pending, st.Sent, st.Won, st.WinRate)

	if len(d.Proposals) == 0 {
		fmt.Fprintln(stdout, d.Filter.EmptyMessage())
		return nil
	}
	renderList(stdout, d.Proposals)
	return nil
}

// ShowCommand prints one proposal. --tab picks analysis, proposal, email, or all.
func ShowCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	tabFlag := fs.String("tab", "analysis", "Tab to show: analysis, proposal, email, or all")
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}

	tabs := proposals.Tabs
	if *tabFlag != "all" {
		tab, err := proposals.ParseTab(*tabFlag)
		if err != nil {
			return err
		}
		tabs = []proposals.Tab{tab}
	}

	p, err := svc.Get(ctx, id)
	if err != nil {
		return noticeError(err, "Failed to load proposal")
	}

	d := proposals.NewDetail(p)
	renderHeader(stdout, d)
	for _, tab := range tabs {
		renderTab(stdout, d, tab)
	}
	return nil
}

// NewCommand submits discovery notes and prints the generated proposal.
func NewCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	company := fs.String("company", "", "Company name (required)")
	contact := fs.String("contact", "", "Contact name")
	email := fs.String("email", "", "Contact email")
	role := fs.String("role", "", "Contact role")
	notes := fs.String("notes", "", "Discovery notes")
	notesFile := fs.String("notes-file", "", "Read discovery notes from a file")
	extra := fs.String("context", "", "Additional context")
	meeting := fs.String("meeting", "", "Fireflies meeting ID; its transcript is used when no notes are given")
	_ = fs.Parse(args)

	input := proposals.GenerateInput{
		CompanyName:        *company,
		ContactName:        *contact,
		ContactEmail:       *email,
		ContactRole:        *role,
		DiscoveryNotes:     *notes,
		AdditionalContext:  *extra,
		FirefliesMeetingID: *meeting,
	}

	if *notesFile != "" {
		data, err := os.ReadFile(*notesFile)
		if err != nil {
			return fmt.Errorf("failed to read notes file: %w", err)
		}
		input.DiscoveryNotes = string(data)
	}
	if strings.TrimSpace(input.DiscoveryNotes) == "" && *meeting != "" {
		transcript, err := svc.Transcript(ctx, *meeting)
		if err != nil {
			return noticeError(err, "Failed to load transcript")
		}
		input.DiscoveryNotes = transcript
	}

	fmt.Fprintf(stdout, "Analyzing discovery notes for %s...\n", strings.TrimSpace(*company))
	p, err := svc.Generate(ctx, input)
	if err != nil {
		return noticeError(err, "Failed to generate proposal")
	}

	printNotice(proposals.Success("Proposal generated successfully!"))
	fmt.Fprintf(stdout, "  ID: %s\n", p.ID)
	fmt.Fprintf(stdout, "  Status: %s\n", p.Status.Label())
	if p.Priority != "" {
		fmt.Fprintf(stdout, "  Priority: %s\n", p.Priority.Label())
	}
	fmt.Fprintf(stdout, "  Estimate: %s\n", models.FormatRange(p.TotalEstimateLow, p.TotalEstimateHigh))
	fmt.Fprintf(stdout, "\nNext step: run 'pitch show --tab all %s' to review it\n", p.ID)
	return nil
}

// MarkSentCommand records that the proposal email went out.
func MarkSentCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("mark-sent", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}
	if _, err := svc.MarkSent(ctx, id); err != nil {
		return noticeError(err, "Failed to update status")
	}
	printNotice(proposals.Success("Proposal marked as sent"))
	return nil
}

// OutcomeCommand closes a sent proposal as won, lost, or stalled.
func OutcomeCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("outcome", flag.ExitOnError)
	status := fs.String("status", "", "Outcome: won, lost, or stalled (required)")
	notes := fs.String("notes", "", "Outcome notes")
	whatWorked := fs.String("what-worked", "", "What worked (won only)")
	tags := fs.String("tags", "", "Comma-separated example tags (won only)")
	saveExample := fs.Bool("save-example", true, "Save a won proposal as an example")
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}
	if *status == "" {
		return fmt.Errorf("--status is required")
	}

	outcome := models.ProposalStatus(strings.ToLower(*status))
	input := proposals.OutcomeInput{
		ProposalID:    id,
		Outcome:       outcome,
		Notes:         *notes,
		WhatWorked:    *whatWorked,
		SaveAsExample: *saveExample && outcome == models.StatusWon,
	}
	if *tags != "" {
		input.Tags = strings.Split(*tags, ",")
	}

	if _, err := svc.RecordOutcome(ctx, input); err != nil {
		return noticeError(err, "Failed to update status")
	}
	printNotice(proposals.OutcomeNotice(outcome))
	return nil
}

// PDFCommand asks the service to render the proposal as a PDF.
func PDFCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}

	res := svc.RequestPDF(ctx, id)
	if res.Kind == proposals.PDFFailed {
		return errors.New(res.Notice().Message)
	}
	printNotice(res.Notice())
	if res.URL != "" {
		fmt.Fprintf(stdout, "  %s\n", res.URL)
	}
	return nil
}

// EmailCommand prints the email draft, optionally edited, and can copy it.
func EmailCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("email", flag.ExitOnError)
	subject := fs.String("subject", "", "Override the draft subject")
	body := fs.String("body", "", "Override the draft body")
	copyFlag := fs.Bool("copy", false, "Copy subject and body to the clipboard")
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}

	p, err := svc.Get(ctx, id)
	if err != nil {
		return noticeError(err, "Failed to load proposal")
	}

	d := proposals.NewDetail(p)
	if *subject != "" {
		d.Subject = *subject
	}
	if *body != "" {
		d.Body = *body
	}

	if !*copyFlag {
		renderEmail(stdout, d)
		return nil
	}
	if err := copyToClipboard(d.CopyText()); err != nil {
		printNotice(proposals.Failure("Failed to copy"))
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	printNotice(proposals.Success("Copied to clipboard!"))
	return nil
}
