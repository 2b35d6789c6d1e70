// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pitch/handlers"
	"github.com/harperreed/pitch/proposals"
)

// NewMCPServer builds the server with every proposal tool, resource, and prompt.
func NewMCPServer(svc *proposals.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pitch",
		Version: version,
	}, nil)

	handlers.NewProposalHandlers(svc).Register(server)
	handlers.NewVizHandlers(svc).Register(server)
	handlers.NewResourceHandlers(svc).Register(server)
	handlers.NewPromptHandlers(svc).Register(server)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, svc *proposals.Service, logger *log.Logger, version string) error {
	logger.Info("starting pitch MCP server", "version", version)
	return NewMCPServer(svc, version).Run(ctx, &mcp.StdioTransport{})
}
