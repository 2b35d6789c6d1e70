// ABOUTME: Fireflies meeting and profile settings CLI commands
// ABOUTME: Lists meetings, prints transcripts, and edits the signed-in profile
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/pitch/proposals"
)

// MeetingsCommand lists recorded Fireflies meetings.
func MeetingsCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("meetings", flag.ExitOnError)
	_ = fs.Parse(args)

	meetings, err := svc.Meetings(ctx)
	if err != nil {
		return noticeError(err, "Failed to load meetings")
	}
	if len(meetings) == 0 {
		fmt.Fprintln(stdout, "No meetings found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tDATE\tMINUTES\tPARTICIPANTS\tID")
	fmt.Fprintln(w, "-----\t----\t-------\t------------\t--")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%d\t%s\n", m.Title, dash(m.Date), m.Duration, len(m.Participants), m.ID)
	}
	return w.Flush()
}

// TranscriptCommand prints one meeting's transcript.
func TranscriptCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("transcript", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "meeting")
	if err != nil {
		return err
	}
	text, err := svc.Transcript(ctx, id)
	if err != nil {
		return noticeError(err, "Failed to load transcript")
	}
	fmt.Fprintln(stdout, text)
	return nil
}

// SettingsCommand prints the profile, or updates the fields given as flags.
func SettingsCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	name := fs.String("name", "", "Full name")
	firefliesKey := fs.String("fireflies-key", "", "Fireflies API key (empty clears it)")
	signature := fs.String("signature", "", "Default email signature name (empty clears it)")
	_ = fs.Parse(args)

	current, err := svc.CurrentSettings()
	if err != nil {
		return noticeError(err, "Failed to load settings")
	}

	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "name":
			current.FullName = *name
		case "fireflies-key":
			current.FirefliesAPIKey = *firefliesKey
		case "signature":
			current.DefaultSignatureName = *signature
		}
	})

	if !changed {
		fmt.Fprintf(stdout, "Name: %s\n", dash(current.FullName))
		fmt.Fprintf(stdout, "Signature: %s\n", dash(current.DefaultSignatureName))
		if current.FirefliesAPIKey != "" {
			fmt.Fprintln(stdout, "Fireflies key: set")
		} else {
			fmt.Fprintln(stdout, "Fireflies key: -")
		}
		return nil
	}

	if err := svc.UpdateSettings(ctx, current); err != nil {
		return noticeError(err, "Failed to update settings")
	}
	printNotice(proposals.Success("Settings saved successfully"))
	return nil
}
