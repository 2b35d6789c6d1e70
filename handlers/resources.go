// ABOUTME: MCP resource handlers exposing proposal data
// ABOUTME: Provides read-only JSON for the dashboard, the proposal list, and single proposals
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pitch/proposals"
)

const resourceScheme = "pitch://"

type ResourceHandlers struct {
	svc *proposals.Service
}

func NewResourceHandlers(svc *proposals.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch parts[0] {
	case "proposals":
		if len(parts) == 1 || parts[1] == "" {
			list, err := h.svc.List(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch proposals: %w", err)
			}
			return jsonResource(uri, list)
		}
		p, err := h.svc.Get(ctx, parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch proposal: %w", err)
		}
		return jsonResource(uri, p)

	case "dashboard":
		d, err := h.svc.Dashboard(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
		}
		return jsonResource(uri, d.Stats)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) Register(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "proposals",
		Name:        "proposals",
		Description: "All of your proposals, newest first",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "dashboard",
		Name:        "dashboard",
		Description: "Pipeline stats and win rate",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "proposals/{id}",
		Name:        "proposal",
		Description: "A single proposal with its analysis and email draft",
		MIMEType:    "application/json",
	}, h.ReadResource)
}
