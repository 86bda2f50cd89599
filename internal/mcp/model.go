package mcp

import "github.com/stormlightlabs/inkwell/internal/db"

// SearchNotesInput defines the input schema for the search_notes tool.
type SearchNotesInput struct {
	Query string `json:"query" jsonschema:"Query in the note mini-language: @tag, status:value, type:value, free text"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// NoteSummary is one search hit without its full content.
type NoteSummary struct {
	Filepath string   `json:"filepath"`
	Title    string   `json:"title"`
	DocType  string   `json:"doc_type"`
	Status   string   `json:"status"`
	Date     string   `json:"date"`
	Topics   []string `json:"topics,omitempty"`
	Entities []string `json:"entities,omitempty"`
	Preview  string   `json:"preview"`
}

// SearchNotesOutput defines the output schema for the search_notes tool.
type SearchNotesOutput struct {
	Results []NoteSummary `json:"results"`
	Total   int           `json:"total"`
}

// ReadNoteInput defines the input schema for the read_note tool.
type ReadNoteInput struct {
	Path string `json:"path" jsonschema:"Filepath of the note as returned by search_notes"`
}

// ReadNoteOutput defines the output schema for the read_note tool.
type ReadNoteOutput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	DatabasePath  string `json:"database_path"`
	Documents     int    `json:"documents"`
	SchemaVersion int    `json:"schema_version"`
}

func newSummary(doc db.Document) NoteSummary {
	return NoteSummary{
		Filepath: doc.Filepath,
		Title:    doc.Title,
		DocType:  doc.DocType,
		Status:   doc.Status,
		Date:     doc.Date,
		Topics:   doc.Topics,
		Entities: doc.Entities,
		Preview:  doc.ContentPreview,
	}
}
