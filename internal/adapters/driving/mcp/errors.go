// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfrag.
// It lets AI assistants ask questions about, and add documents to, the local index.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")
