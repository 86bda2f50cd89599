package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/note"
	"github.com/stormlightlabs/inkwell/internal/search"
)

type Handlers struct {
	store   *db.Store
	service *search.Service
}

func NewHandlers(store *db.Store, service *search.Service) *Handlers {
	return &Handlers{store: store, service: service}
}

func (h *Handlers) SearchNotesHandler(ctx context.Context, req *mcp.CallToolRequest, input SearchNotesInput) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	docs, err := h.service.Search(ctx, input.Query, search.Options{Limit: limit})
	if err != nil {
		return nil, nil, err
	}

	results := make([]NoteSummary, 0, len(docs))
	for _, doc := range docs {
		results = append(results, newSummary(doc))
	}
	return nil, SearchNotesOutput{Results: results, Total: len(results)}, nil
}

func (h *Handlers) ReadNoteHandler(ctx context.Context, req *mcp.CallToolRequest, input ReadNoteInput) (*mcp.CallToolResult, any, error) {
	if h.store != nil {
		doc, err := h.store.GetDocument(ctx, input.Path)
		if err == nil && doc.FullContent != nil {
			if _, body, err := note.Parse(doc.FullContent); err == nil {
				return nil, ReadNoteOutput{Title: doc.Title, Content: body}, nil
			}
		}
	}

	// Store disabled or content not retained: read from disk.
	body, err := note.Body(input.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("read note %s: %w", input.Path, err)
	}
	return nil, ReadNoteOutput{Content: body}, nil
}

func (h *Handlers) IndexStatusHandler(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	if h.store == nil {
		return nil, IndexStatusOutput{}, nil
	}

	count, err := h.store.CountDocuments(ctx)
	if err != nil {
		return nil, nil, err
	}
	version, err := h.store.CurrentVersion(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, IndexStatusOutput{
		DatabasePath:  h.store.Path(),
		Documents:     count,
		SchemaVersion: version,
	}, nil
}
