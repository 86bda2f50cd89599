package index

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/note"
	"github.com/stormlightlabs/inkwell/internal/shared"
)

// ExtractFunc is the metadata extraction collaborator. It is treated as
// untrusted and best-effort: a failure degrades the derived fields to
// defaults instead of aborting indexing.
type ExtractFunc func(path string) (map[string]any, error)

// Defaults applied when a note's metadata block omits a field.
const (
	DefaultDocType = "document"
	DefaultStatus  = "draft"
)

// Derive builds the Document shape for a note from its content and
// metadata, without touching the store. The indexer and the filesystem
// search fallback both build rows through here so their results agree.
func Derive(path string, content []byte, modTime time.Time, extract ExtractFunc, previewLen int) db.Document {
	meta, err := extract(path)
	if err != nil {
		meta = map[string]any{}
	}

	title := note.String(meta, "title")
	if title == "" {
		title = titleFromFilename(path)
	}
	docType := note.String(meta, "type", "doc_type")
	if docType == "" {
		docType = DefaultDocType
	}
	status := note.String(meta, "status")
	if status == "" {
		status = DefaultStatus
	}
	date := note.String(meta, "date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	_, body, _ := note.Parse(content)

	return db.Document{
		Filepath:       path,
		Title:          title,
		DocType:        docType,
		Status:         status,
		Date:           date,
		ModifiedTime:   modTime.Unix(),
		ContentHash:    Fingerprint(content),
		ContentPreview: Preview(body, previewLen),
		Topics:         note.StringList(meta, "topics", "tags"),
		Entities:       note.StringList(meta, "entities", "people"),
	}
}

// Preview returns a bounded, word-boundary-trimmed prefix of body text
// with whitespace collapsed, used for free-text search without loading
// full content.
func Preview(body string, maxLen int) string {
	return shared.TrimToWordBoundary(shared.CollapseWhitespace(body), maxLen)
}

func titleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return shared.Capitalize(stem)
}
