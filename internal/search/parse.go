package search

import (
	"slices"
	"strings"

	"github.com/stormlightlabs/inkwell/internal/db"
)

// Filter is the structured form of a raw query string. Fields are
// AND-combined; empty fields match everything.
type Filter struct {
	Tag      string
	Status   string
	DocType  string
	FreeText string
}

// ParseQuery turns a free-form query into a Filter. Three prefix tokens
// are recognized in any order: "@word" (tag), "status:word" and
// "type:word"; the last occurrence wins when repeated. Recognized tokens
// are stripped and the remaining text, whitespace-collapsed, becomes
// FreeText. Tokens are single words; no quoting syntax is supported.
func ParseQuery(raw string) Filter {
	var f Filter
	var rest []string

	for _, token := range strings.Fields(raw) {
		switch {
		case len(token) > 1 && strings.HasPrefix(token, "@"):
			f.Tag = token[1:]
		case len(token) > len("status:") && strings.HasPrefix(token, "status:"):
			f.Status = token[len("status:"):]
		case len(token) > len("type:") && strings.HasPrefix(token, "type:"):
			f.DocType = token[len("type:"):]
		default:
			rest = append(rest, token)
		}
	}

	f.FreeText = strings.Join(rest, " ")
	return f
}

// Matches reports whether doc satisfies every set field of the filter.
// Tag matching is exact membership over topics and entities; status and
// type are exact; free text is a case-insensitive substring match over
// title, preview, tags, and path.
func (f Filter) Matches(doc db.Document) bool {
	if f.Tag != "" && !slices.Contains(doc.Topics, f.Tag) && !slices.Contains(doc.Entities, f.Tag) {
		return false
	}
	if f.Status != "" && doc.Status != f.Status {
		return false
	}
	if f.DocType != "" && doc.DocType != f.DocType {
		return false
	}
	if f.FreeText != "" && !matchesFreeText(doc, f.FreeText) {
		return false
	}
	return true
}

// IsEmpty reports whether no field of the filter is set.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

func matchesFreeText(doc db.Document, text string) bool {
	needle := strings.ToLower(text)
	haystacks := []string{doc.Title, doc.ContentPreview, doc.Filepath}
	haystacks = append(haystacks, doc.Topics...)
	haystacks = append(haystacks, doc.Entities...)

	for _, hay := range haystacks {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}
