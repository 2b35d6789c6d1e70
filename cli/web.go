// ABOUTME: Web dashboard subcommand
// ABOUTME: Serves the read-only proposal dashboard until interrupted
package cli

import (
	"context"
	"flag"

	"github.com/charmbracelet/log"

	"github.com/harperreed/pitch/proposals"
	"github.com/harperreed/pitch/web"
)

// WebCommand starts the web dashboard on localhost.
func WebCommand(ctx context.Context, svc *proposals.Service, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	server, err := web.NewServer(svc, logger)
	if err != nil {
		return err
	}
	return server.Start(ctx, *port)
}
