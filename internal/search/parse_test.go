package search

import (
	"testing"

	"github.com/stormlightlabs/inkwell/internal/db"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Filter
	}{
		{
			name: "tag status and free text",
			raw:  "@meeting status:draft planning notes",
			want: Filter{Tag: "meeting", Status: "draft", FreeText: "planning notes"},
		},
		{
			name: "empty",
			raw:  "",
			want: Filter{},
		},
		{
			name: "tokens in any order",
			raw:  "notes type:journal @work status:done planning",
			want: Filter{Tag: "work", Status: "done", DocType: "journal", FreeText: "notes planning"},
		},
		{
			name: "last occurrence wins",
			raw:  "@a @b status:draft status:done",
			want: Filter{Tag: "b", Status: "done"},
		},
		{
			name: "free text only",
			raw:  "  just   some   words  ",
			want: Filter{FreeText: "just some words"},
		},
		{
			name: "bare prefixes are free text",
			raw:  "@ status: type:",
			want: Filter{FreeText: "@ status: type:"},
		},
		{
			name: "prefix mid-word not recognized",
			raw:  "email@example.com",
			want: Filter{FreeText: "email@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.raw)
			if got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	doc := db.Document{
		Filepath:       "notes/projects/roadmap.md",
		Title:          "Roadmap Q3",
		DocType:        "plan",
		Status:         "draft",
		ContentPreview: "milestones and deadlines",
		Topics:         []string{"planning", "roadmap"},
		Entities:       []string{"alice"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches all", Filter{}, true},
		{"tag in topics", Filter{Tag: "planning"}, true},
		{"tag in entities", Filter{Tag: "alice"}, true},
		{"tag absent", Filter{Tag: "cooking"}, false},
		{"tag is exact not substring", Filter{Tag: "plan"}, false},
		{"status match", Filter{Status: "draft"}, true},
		{"status mismatch", Filter{Status: "done"}, false},
		{"type match", Filter{DocType: "plan"}, true},
		{"type mismatch", Filter{DocType: "journal"}, false},
		{"free text in title case-insensitive", Filter{FreeText: "roadmap q3"}, true},
		{"free text in preview", Filter{FreeText: "deadlines"}, true},
		{"free text in path", Filter{FreeText: "projects"}, true},
		{"free text in tags", Filter{FreeText: "alice"}, true},
		{"free text absent", Filter{FreeText: "groceries"}, false},
		{"all fields AND-combined", Filter{Tag: "planning", Status: "draft", DocType: "plan", FreeText: "milestones"}, true},
		{"one failing field fails all", Filter{Tag: "planning", Status: "done"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(doc); got != tt.want {
				t.Errorf("Matches = %v, want %v (filter %+v)", got, tt.want, tt.filter)
			}
		})
	}
}
