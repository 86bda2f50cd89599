// Package mcp exposes the note index to agents over the Model Context
// Protocol: search, read, and index status tools on stdio or HTTP.
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/search"
)

// NewServer creates a new MCP server for inkwell.
func NewServer(store *db.Store, service *search.Service, version string) *mcp.Server {
	logger := slog.New(slog.NewJSONHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelInfo},
	))

	server := mcp.NewServer(
		&mcp.Implementation{Name: "inkwell", Version: version},
		&mcp.ServerOptions{Logger: logger},
	)

	handlers := NewHandlers(store, service)

	mcp.AddTool(server, newTool("search_notes", "Search indexed notes with @tag, status:, type: and free-text filters"),
		func(ctx context.Context, req *mcp.CallToolRequest, input SearchNotesInput) (*mcp.CallToolResult, any, error) {
			logger.Info("Tool call: search_notes", "query", input.Query, "limit", input.Limit)
			return handlers.SearchNotesHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("read_note", "Read the full content of a note by filepath"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ReadNoteInput) (*mcp.CallToolResult, any, error) {
			logger.Info("Tool call: read_note", "path", input.Path)
			return handlers.ReadNoteHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("index_status", "Report store location, document count, and schema version"),
		func(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
			logger.Info("Tool call: index_status")
			return handlers.IndexStatusHandler(ctx, req, input)
		})

	return server
}

// RunStdio runs the server using the stdio transport.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP runs the server using the streamable HTTP transport.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	f := func(r *http.Request) *mcp.Server { return server }
	handler := mcp.NewStreamableHTTPHandler(f, nil)

	s := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()

	return s.ListenAndServe()
}

func newTool(n, d string) *mcp.Tool {
	return &mcp.Tool{Name: n, Description: d}
}
