// ABOUTME: MCP server setup for the apnea club data layer.
// ABOUTME: Wraps the MCP server around the club repositories and integrity coordinator.
package mcp

import (
	"context"

	"github.com/harperreed/apnealog/internal/integrity"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with club data access.
type Server struct {
	mcpServer *mcp.Server
	repos     *storage.Repositories
	coord     *integrity.Coordinator
}

// NewServer creates a new MCP server over repos. Cascading edits go through coord.
func NewServer(repos *storage.Repositories, coord *integrity.Coordinator) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "apnealog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repos:     repos,
		coord:     coord,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
