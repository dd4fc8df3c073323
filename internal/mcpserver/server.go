// Package mcpserver exposes the chunking engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/stats"
)

const (
	// ServerName is the MCP server name.
	ServerName = "docchunk"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the chunking engine.
type Server struct {
	mcp    *server.MCPServer
	engine *chunker.Engine
	stats  *stats.Latency
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates the MCP server and registers its tools.
func NewServer(engine *chunker.Engine, st *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		mcp:    server.NewMCPServer(ServerName, ServerVersion),
		engine: engine,
		stats:  st,
		log:    log,
		cfg:    cfg,
	}
	s.mcp.AddTool(chunkDocumentTool(cfg), s.handleChunkDocument)
	s.mcp.AddTool(listMethodsTool(), s.handleListMethods)
	s.mcp.AddTool(chunkingStatsTool(), s.handleChunkingStats)
	return s
}

// Serve speaks MCP over stdin/stdout until stdin closes or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server listening on stdio", "tools", 3)
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}
