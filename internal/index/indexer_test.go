package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stormlightlabs/inkwell/internal/db"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIndexDocumentInsertsNewFile(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{KeepContent: true})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "plan.md", "---\ntitle: Weekly Plan\nstatus: active\ntopics: [planning]\n---\n\n# Plan\n")

	changed, err := ix.IndexDocument(ctx, path)
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if !changed {
		t.Error("first index of a new file should report changed")
	}

	doc, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "Weekly Plan" || doc.Status != "active" || doc.DocType != DefaultDocType {
		t.Errorf("derived fields wrong: %+v", doc)
	}
	if len(doc.Topics) != 1 || doc.Topics[0] != "planning" {
		t.Errorf("topics = %v", doc.Topics)
	}
	if doc.ContentHash == "" || doc.ModifiedTime == 0 {
		t.Errorf("staleness fields not populated: %+v", doc)
	}
}

func TestIndexDocumentIdempotent(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "same.md", "unchanged content\n")

	if _, err := ix.IndexDocument(ctx, path); err != nil {
		t.Fatalf("first index: %v", err)
	}
	first, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}

	changed, err := ix.IndexDocument(ctx, path)
	if err != nil {
		t.Fatalf("second index: %v", err)
	}
	if changed {
		t.Error("unchanged file should report changed=false on re-index")
	}

	second, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("updated_at moved on a no-op index: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestIndexDocumentDetectsNewerMtime(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "stale.md", "v1\n")
	if _, err := ix.IndexDocument(ctx, path); err != nil {
		t.Fatalf("first index: %v", err)
	}

	if err := os.WriteFile(path, []byte("v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	changed, err := ix.IndexDocument(ctx, path)
	if err != nil {
		t.Fatalf("re-index: %v", err)
	}
	if !changed {
		t.Error("advanced mtime should force changed=true")
	}
}

func TestIndexDocumentEqualMtimeHashTieBreak(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "tie.md", "original content\n")
	if _, err := ix.IndexDocument(ctx, path); err != nil {
		t.Fatalf("first index: %v", err)
	}
	stored, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}

	// Same-second rewrite: pin the mtime back to the stored one so only
	// the fingerprint can reveal the change.
	if err := os.WriteFile(path, []byte("rewritten content\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pinned := time.Unix(stored.ModifiedTime, 0)
	if err := os.Chtimes(path, pinned, pinned); err != nil {
		t.Fatal(err)
	}

	changed, err := ix.IndexDocument(ctx, path)
	if err != nil {
		t.Fatalf("re-index: %v", err)
	}
	if !changed {
		t.Error("content change under equal mtime should force changed=true")
	}

	after, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if after.ContentHash == stored.ContentHash {
		t.Error("content hash not refreshed")
	}
}

func TestIndexDocumentUpsertUniqueness(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "unique.md", "v0\n")
	for i := range 4 {
		content := []byte{'v', byte('1' + i), '\n'}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Duration(i+1) * 5 * time.Second)
		if err := os.Chtimes(path, future, future); err != nil {
			t.Fatal(err)
		}
		if _, err := ix.IndexDocument(ctx, path); err != nil {
			t.Fatalf("index %d: %v", i, err)
		}
	}

	count, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d rows after repeated indexing, want 1", count)
	}
}

func TestIndexDocumentPreservesCreatedAt(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "created.md", "v1\n")
	if _, err := ix.IndexDocument(ctx, path); err != nil {
		t.Fatalf("first index: %v", err)
	}
	first, _ := store.GetDocument(ctx, path)

	future := time.Now().Add(5 * time.Second)
	if err := os.WriteFile(path, []byte("v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if _, err := ix.IndexDocument(ctx, path); err != nil {
		t.Fatalf("re-index: %v", err)
	}

	second, _ := store.GetDocument(ctx, path)
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on re-index: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestIndexDocumentStoreDisabled(t *testing.T) {
	ix := New(nil, Options{})

	_, err := ix.IndexDocument(context.Background(), "whatever.md")
	if !errors.Is(err, ErrStoreDisabled) {
		t.Errorf("got %v, want ErrStoreDisabled", err)
	}
}

func TestIndexDocumentFileUnavailable(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})

	_, err := ix.IndexDocument(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	if !errors.Is(err, ErrFileUnavailable) {
		t.Errorf("got %v, want ErrFileUnavailable", err)
	}
}

func TestIndexDocumentMetadataFailureDegrades(t *testing.T) {
	store := openTestStore(t)
	failing := func(path string) (map[string]any, error) {
		return nil, errors.New("extractor exploded")
	}
	ix := New(store, Options{Extract: failing})
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNote(t, dir, "weekly-review.md", "body only\n")
	changed, err := ix.IndexDocument(ctx, path)
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if !changed {
		t.Error("expected changed=true")
	}

	doc, err := store.GetDocument(ctx, path)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "Weekly Review" {
		t.Errorf("title default = %q, want filename-derived", doc.Title)
	}
	if doc.DocType != DefaultDocType || doc.Status != DefaultStatus {
		t.Errorf("defaults not applied: %+v", doc)
	}
	if doc.Date != time.Now().Format("2006-01-02") {
		t.Errorf("date default = %q", doc.Date)
	}
}

func TestRebuildIndexBulkResilience(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	writeNote(t, dir, "a.md", "alpha\n")
	writeNote(t, dir, "sub/b.md", "beta\n")
	writeNote(t, dir, "sub/c.md", "gamma\n")
	// A dangling symlink stats as an unreadable source file.
	if err := os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "broken.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ok, failed, err := ix.RebuildIndex(ctx, dir, true)
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if ok != 3 || failed != 1 {
		t.Errorf("got (ok=%d, failed=%d), want (3, 1)", ok, failed)
	}

	count, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 3 {
		t.Errorf("indexed %d documents, want 3", count)
	}
}

func TestRebuildIndexPrunesDeletedFiles(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	keep := writeNote(t, dir, "keep.md", "stays\n")
	gone := writeNote(t, dir, "gone.md", "leaves\n")

	if _, _, err := ix.RebuildIndex(ctx, dir, true); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ix.RebuildIndex(ctx, dir, true); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	if _, err := store.GetDocument(ctx, keep); err != nil {
		t.Errorf("surviving file missing from index: %v", err)
	}
	if _, err := store.GetDocument(ctx, gone); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("deleted file still indexed: %v", err)
	}
}

func TestRelativeRootStoresAbsolutePaths(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	writeNote(t, dir, "idea.md", "relative roots still key rows absolutely\n")
	gone := writeNote(t, dir, "gone.md", "pruned via relative root\n")

	t.Chdir(filepath.Dir(dir))
	rel := filepath.Base(dir)

	if _, _, err := ix.SyncFilesystem(ctx, rel); err != nil {
		t.Fatalf("sync with relative root: %v", err)
	}

	paths, err := store.ListPaths(ctx)
	if err != nil {
		t.Fatalf("ListPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("indexed %d rows, want 2", len(paths))
	}
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			t.Errorf("row key %q is not absolute", path)
		}
	}

	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ix.RebuildIndex(ctx, rel, true); err != nil {
		t.Fatalf("rebuild with relative root: %v", err)
	}
	paths, err = store.ListPaths(ctx)
	if err != nil {
		t.Fatalf("ListPaths after prune: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "idea.md" {
		t.Errorf("prune with relative root left %v, want only idea.md", paths)
	}
}

func TestSyncFilesystemDoesNotPrune(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	gone := writeNote(t, dir, "gone.md", "leaves\n")
	if _, _, err := ix.SyncFilesystem(ctx, dir); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ix.SyncFilesystem(ctx, dir); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if _, err := store.GetDocument(ctx, gone); err != nil {
		t.Errorf("sync should not remove rows for deleted files: %v", err)
	}
}

func TestSyncFilesystemSecondPassIsNoOp(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	writeNote(t, dir, "one.md", "1\n")
	writeNote(t, dir, "two.md", "2\n")

	if _, _, err := ix.SyncFilesystem(ctx, dir); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	before, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}

	if _, _, err := ix.SyncFilesystem(ctx, dir); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	after, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}

	for i := range before {
		if !after[i].UpdatedAt.Equal(before[i].UpdatedAt) {
			t.Errorf("%s re-upserted on a no-op sync", before[i].Filepath)
		}
	}
}

func TestWalkRespectsCancellation(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()

	writeNote(t, dir, "a.md", "a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := ix.SyncFilesystem(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestWalkSkipsOtherExtensions(t *testing.T) {
	store := openTestStore(t)
	ix := New(store, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	writeNote(t, dir, "note.md", "indexed\n")
	writeNote(t, dir, "image.png", "not a note\n")
	writeNote(t, dir, ".hidden/secret.md", "skipped\n")

	ok, failed, err := ix.SyncFilesystem(ctx, dir)
	if err != nil {
		t.Fatalf("SyncFilesystem: %v", err)
	}
	if ok != 1 || failed != 0 {
		t.Errorf("got (ok=%d, failed=%d), want (1, 0)", ok, failed)
	}
}
