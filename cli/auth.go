// ABOUTME: Session CLI commands
// ABOUTME: Sign in with a hidden password prompt, sign out, and show the current user
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/models"
)

// Session is the part of the session store the commands use. *auth.Store satisfies it.
type Session interface {
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	State() auth.State
	Current() *models.User
}

var stdin io.Reader = os.Stdin

// readPassword reads without echo; tests replace it.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(stdout)
	return string(b), err
}

// LoginCommand signs in with email and password.
func LoginCommand(ctx context.Context, session Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (prompted when omitted)")
	_ = fs.Parse(args)

	if *email == "" {
		fmt.Fprint(stdout, "Email: ")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read email: %w", err)
		}
		*email = strings.TrimSpace(line)
	}
	if *email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Fprint(stdout, "Password: ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := session.SignIn(ctx, *email, password); err != nil {
		if auth.IsKind(err, auth.KindInvalidCredentials) {
			return fmt.Errorf("invalid email or password")
		}
		return fmt.Errorf("sign in failed: %w", err)
	}

	u := session.Current()
	fmt.Fprintln(stdout, "✓ Welcome back!")
	if u != nil {
		fmt.Fprintf(stdout, "  Signed in as %s (%s)\n", u.Name, u.Email)
	}
	return nil
}

// LogoutCommand ends the session. It succeeds even when nobody is signed in.
func LogoutCommand(ctx context.Context, session Session, args []string) error {
	if err := session.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	fmt.Fprintln(stdout, "✓ Signed out")
	return nil
}

// WhoamiCommand prints the signed-in profile.
func WhoamiCommand(session Session, args []string) error {
	u := session.Current()
	if session.State() != auth.StateAuthenticated || u == nil {
		fmt.Fprintln(stdout, "Not signed in. Run 'pitch login' first.")
		return nil
	}
	fmt.Fprintf(stdout, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(stdout, "  ID: %s\n", u.ID)
	if u.DefaultSignatureName != "" {
		fmt.Fprintf(stdout, "  Signature: %s\n", u.DefaultSignatureName)
	}
	if u.FirefliesAPIKey != "" {
		fmt.Fprintln(stdout, "  Fireflies: connected")
	}
	return nil
}
