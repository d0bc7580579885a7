package mcp

import (
	"context"

	"risk-mcs/internal/config"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server exposes the simulation engine as MCP tools.
type Server struct {
	cfg    *config.AppConfig
	server *gomcp.Server
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(cfg *config.AppConfig, version string) (*Server, error) {
	s := &Server{
		cfg: cfg,
		server: gomcp.NewServer(&gomcp.Implementation{
			Name:    "risk-mcs",
			Version: version,
		}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start serves MCP over stdio until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t gomcp.Transport) (*gomcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}
