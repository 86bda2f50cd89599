// Package index keeps the document store in step with the note tree:
// it decides which files are stale, re-extracts their metadata, and
// upserts one authoritative row per filepath.
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/note"
)

// Options configures an Indexer. Zero values fall back to defaults.
type Options struct {
	Extension     string      // File extension filter, default ".md"
	PreviewLength int         // Max preview bytes, default 320
	KeepContent   bool        // Retain full content in the store
	Extract       ExtractFunc // Metadata collaborator, default note.Extract
}

// Indexer owns an injected store handle. A nil store means the cache
// feature is disabled and every indexing call fails with ErrStoreDisabled.
type Indexer struct {
	store       *db.Store
	ext         string
	previewLen  int
	keepContent bool
	extract     ExtractFunc
}

func New(store *db.Store, opts Options) *Indexer {
	if opts.Extension == "" {
		opts.Extension = ".md"
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 320
	}
	if opts.Extract == nil {
		opts.Extract = note.Extract
	}
	return &Indexer{
		store:       store,
		ext:         opts.Extension,
		previewLen:  opts.PreviewLength,
		keepContent: opts.KeepContent,
		extract:     opts.Extract,
	}
}

// Extension returns the file extension filter in effect.
func (ix *Indexer) Extension() string {
	return ix.ext
}

// Derive builds the document shape for a note using this indexer's
// collaborator and preview settings, without touching the store. The
// search fallback uses it to serve store-free results that agree with
// indexed ones.
func (ix *Indexer) Derive(path string, content []byte, modTime time.Time) db.Document {
	return Derive(path, content, modTime, ix.safeExtract, ix.previewLen)
}

// IndexDocument brings the row for path up to date. It returns false
// without touching the store when the cached row is current: the row is
// stale only when the file's mtime is newer than the stored one, or, on
// equal mtimes, when the content fingerprint differs.
func (ix *Indexer) IndexDocument(ctx context.Context, path string) (bool, error) {
	if ix.store == nil {
		return false, ErrStoreDisabled
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrFileUnavailable, path, err)
	}
	modTime := info.ModTime()

	var content []byte
	stale := false
	exists := false

	existing, err := ix.store.GetDocument(ctx, path)
	switch {
	case errors.Is(err, db.ErrNotFound):
		stale = true
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	case modTime.Unix() > existing.ModifiedTime:
		exists = true
		stale = true
	case modTime.Unix() == existing.ModifiedTime:
		exists = true
		// Same-second writes on coarse filesystem clocks: fall back to
		// the content fingerprint.
		content, err = os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrFileUnavailable, path, err)
		}
		stale = Fingerprint(content) != existing.ContentHash
	}

	if !stale {
		return false, nil
	}

	if content == nil {
		content, err = os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrFileUnavailable, path, err)
		}
	}

	doc := Derive(path, content, modTime, ix.safeExtract, ix.previewLen)
	if ix.keepContent {
		doc.FullContent = content
	}

	now := time.Now().UTC()
	doc.CreatedAt = now
	if exists {
		doc.CreatedAt = existing.CreatedAt
	}
	doc.UpdatedAt = now

	if err := ix.store.UpsertDocument(ctx, doc); err != nil {
		return false, fmt.Errorf("%w: upsert %s: %v", ErrStoreUnavailable, path, err)
	}
	return true, nil
}

// safeExtract wraps the collaborator so its failure degrades to an empty
// metadata map rather than aborting the index pass.
func (ix *Indexer) safeExtract(path string) (map[string]any, error) {
	meta, err := ix.extract(path)
	if err != nil {
		log.Debug("metadata extraction failed, using defaults", "path", path, "err", err)
		return map[string]any{}, nil
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// SyncFilesystem walks root and indexes every matching file, relying on
// the staleness check to make already-current files cheap no-ops. It is
// meant for frequent incremental calls.
func (ix *Indexer) SyncFilesystem(ctx context.Context, root string) (ok, failed int, err error) {
	_, ok, failed, err = ix.walk(ctx, root)
	return ok, failed, err
}

// RebuildIndex walks root like SyncFilesystem and then, when prune is
// set, sweeps rows whose files no longer exist under root. Per-file
// failures never abort the rebuild; they are counted and reported.
func (ix *Indexer) RebuildIndex(ctx context.Context, root string, prune bool) (ok, failed int, err error) {
	seen, ok, failed, err := ix.walk(ctx, root)
	if err != nil {
		return ok, failed, err
	}
	if !prune {
		return ok, failed, nil
	}

	pruned, err := ix.sweep(ctx, root, seen)
	if err != nil {
		return ok, failed, err
	}
	if pruned > 0 {
		log.Info("pruned deleted notes from index", "count", pruned)
	}
	return ok, failed, nil
}

func (ix *Indexer) walk(ctx context.Context, root string) (seen map[string]struct{}, ok, failed int, err error) {
	if ix.store == nil {
		return nil, 0, 0, ErrStoreDisabled
	}
	// Rows are keyed by absolute path regardless of how the root was given.
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if _, err := os.Stat(root); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %s: %v", ErrFileUnavailable, root, err)
	}

	seen = make(map[string]struct{})
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			failed++
			log.Warn("skipping unreadable entry", "path", path, "err", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ix.ext) {
			return nil
		}

		seen[path] = struct{}{}
		if _, err := ix.IndexDocument(ctx, path); err != nil {
			failed++
			log.Warn("indexing failed", "path", path, "err", err)
			return nil
		}
		ok++
		return nil
	})
	return seen, ok, failed, err
}

// sweep deletes rows under root whose files were not seen by the walk.
// Rows outside root are left alone.
func (ix *Indexer) sweep(ctx context.Context, root string, seen map[string]struct{}) (int, error) {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	paths, err := ix.store.ListPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	prefix := strings.TrimSuffix(root, string(filepath.Separator)) + string(filepath.Separator)
	pruned := 0
	for _, path := range paths {
		if _, found := seen[path]; found {
			continue
		}
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if err := ix.store.DeleteDocument(ctx, path); err != nil {
			return pruned, fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, path, err)
		}
		pruned++
	}
	return pruned, nil
}
