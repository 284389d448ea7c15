// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Retrieva. It lets AI assistants like Claude query the indexed
// document corpus and ask grounded questions.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")

// ErrMissingRetrieveService is returned when the retrieve service is not provided.
var ErrMissingRetrieveService = errors.New("mcp: retrieve service is required")
