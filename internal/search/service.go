// Package search parses the query mini-language and serves filtered,
// sorted results from the document store, degrading to a live filesystem
// scan when the store is disabled or unreachable.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/inkwell/internal/db"
	"github.com/stormlightlabs/inkwell/internal/index"
)

// Options controls result ordering and size.
type Options struct {
	SortBy    string // "modified" (default), "title", "date", "created"
	Ascending bool   // Descending by default
	Limit     int    // 0 means unlimited
}

// Service answers queries over the cached documents. The store handle is
// injected; a nil store means the cache feature is disabled and every
// search is served by the filesystem fallback.
type Service struct {
	store   *db.Store
	indexer *index.Indexer
	root    string
}

func NewService(store *db.Store, ix *index.Indexer, root string) *Service {
	return &Service{store: store, indexer: ix, root: root}
}

// Search parses rawQuery, fetches candidates, and applies the filter and
// sort. A failing store never fails the search: the service degrades to a
// live walk of the note tree that derives the same document shape per
// file. An empty result is an empty slice, not an error.
func (s *Service) Search(ctx context.Context, rawQuery string, opts Options) ([]db.Document, error) {
	filter := ParseQuery(rawQuery)

	docs, err := s.fetch(ctx)
	if err != nil {
		if !errors.Is(err, index.ErrStoreDisabled) {
			log.Warn("store unavailable, falling back to filesystem scan", "err", err)
		}
		docs, err = s.scanFilesystem(ctx)
		if err != nil {
			return nil, err
		}
	}

	results := make([]db.Document, 0, len(docs))
	for _, doc := range docs {
		if filter.Matches(doc) {
			results = append(results, doc)
		}
	}

	sortDocuments(results, opts.SortBy, opts.Ascending)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// fetch returns the cached candidate set, syncing the note tree first
// when the store is empty so a fresh install heals itself on first use.
func (s *Service) fetch(ctx context.Context) ([]db.Document, error) {
	if s.store == nil {
		return nil, index.ErrStoreDisabled
	}
	if err := s.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrStoreUnavailable, err)
	}

	count, err := s.store.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrStoreUnavailable, err)
	}
	if count == 0 && s.indexer != nil {
		ok, failed, err := s.indexer.SyncFilesystem(ctx, s.root)
		if err != nil {
			return nil, err
		}
		log.Info("populated empty store", "indexed", ok, "failed", failed)
	}

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		if errors.Is(err, db.ErrMalformedRow) {
			// Undecodable rows are dropped from the result, never a crash.
			log.Warn("skipping malformed rows", "err", err)
			return docs, nil
		}
		return nil, fmt.Errorf("%w: %v", index.ErrStoreUnavailable, err)
	}
	return docs, nil
}

// scanFilesystem re-derives the document shape per file on the fly, with
// no caching. Per-file read failures are skipped.
func (s *Service) scanFilesystem(ctx context.Context) ([]db.Document, error) {
	if s.indexer == nil {
		return nil, errors.New("no indexer configured for filesystem fallback")
	}
	// Derive with absolute paths so fallback results key identically to
	// indexed rows.
	root := s.root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", index.ErrFileUnavailable, root, err)
	}

	var docs []db.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), s.indexer.Extension()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Debug("skipping unreadable note during fallback scan", "path", path, "err", err)
			return nil
		}
		docs = append(docs, s.indexer.Derive(path, content, info.ModTime()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func sortDocuments(docs []db.Document, sortBy string, ascending bool) {
	less := func(a, b db.Document) bool {
		switch sortBy {
		case "title":
			if !strings.EqualFold(a.Title, b.Title) {
				return strings.ToLower(a.Title) < strings.ToLower(b.Title)
			}
		case "date":
			if a.Date != b.Date {
				return a.Date < b.Date
			}
		case "created":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default: // modified
			if a.ModifiedTime != b.ModifiedTime {
				return a.ModifiedTime < b.ModifiedTime
			}
		}
		return a.Filepath < b.Filepath
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if ascending {
			return less(docs[i], docs[j])
		}
		return less(docs[j], docs[i])
	})
}
