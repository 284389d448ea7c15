package mcp

import (
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers questions from the indexed corpus.
	Ask driving.AskService

	// Retrieve finds the indexed passages most similar to a query.
	Retrieve driving.RetrieveService

	// Index reports vector index state. Optional; the index resource
	// is omitted when nil.
	Index driving.IndexAdmin
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Retrieve == nil {
		return ErrMissingRetrieveService
	}
	return nil
}
