package mcp

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/czfsss/word-tool/internal/anchor"
)

const (
	// ServerName is the MCP server name
	ServerName = "word-tool"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	anchor *anchor.Engine
	logger *log.Logger
}

// NewServer creates a new MCP server instance. The logger receives
// anchoring diagnostics; nil disables them.
func NewServer(logger *log.Logger) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		anchor: anchor.New(logger),
		logger: logger,
	}

	// Register tools
	s.registerTools()

	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(chunkDocumentTool(), s.handleChunkDocument)
	s.mcp.AddTool(addCommentsTool(), s.handleAddComments)
	s.mcp.AddTool(insertTextTool(), s.handleInsertText)
	s.mcp.AddTool(markdownToDocxTool(), s.handleMarkdownToDocx)
}
