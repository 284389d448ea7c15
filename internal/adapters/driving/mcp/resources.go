package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Retrieva resources.
const uriScheme = "retrieva://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Index == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Vector index name, record count and dimension",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource returns the current index statistics.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}

	type indexInfo struct {
		Name      string `json:"name"`
		Records   int64  `json:"records"`
		Dimension int    `json:"dimension,omitempty"`
	}

	data, err := json.MarshalIndent(indexInfo{
		Name:      stats.Name,
		Records:   stats.Records,
		Dimension: stats.Dimension,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
