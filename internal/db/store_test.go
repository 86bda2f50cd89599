package db

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return store
}

func testDocument(path string) Document {
	now := time.Now().UTC()
	return Document{
		Filepath:       path,
		Title:          "Planning Notes",
		DocType:        "note",
		Status:         "draft",
		Date:           "2026-08-26",
		ModifiedTime:   now.Unix(),
		ContentHash:    "abc123",
		ContentPreview: "planning notes for the week",
		FullContent:    []byte("# Planning\n\nnotes for the week\n"),
		Topics:         []string{"planning", "meeting"},
		Entities:       []string{"alice"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestUpsertDocumentUniqueness(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDocument("notes/planning.md")

	for range 3 {
		if err := store.UpsertDocument(ctx, doc); err != nil {
			t.Fatalf("UpsertDocument: %v", err)
		}
	}

	count, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d rows after repeated upserts, want 1", count)
	}
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := testDocument("notes/a.md")
	doc.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc.UpdatedAt = doc.CreatedAt
	if err := store.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	doc.Title = "Renamed"
	doc.CreatedAt = time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	doc.UpdatedAt = doc.CreatedAt
	if err := store.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := store.GetDocument(ctx, "notes/a.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !got.CreatedAt.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("created_at changed on update: %v", got.CreatedAt)
	}
	if got.Title != "Renamed" {
		t.Errorf("title not updated: %q", got.Title)
	}
	if !got.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %v", got.UpdatedAt)
	}
}

func TestGetDocumentRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDocument("notes/roundtrip.md")

	if err := store.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, err := store.GetDocument(ctx, doc.Filepath)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != doc.Title || got.Status != doc.Status || got.DocType != doc.DocType {
		t.Errorf("metadata mismatch: got %+v", got)
	}
	if string(got.FullContent) != string(doc.FullContent) {
		t.Errorf("content mismatch: %q", got.FullContent)
	}
	if !slices.Equal(got.Topics, doc.Topics) || !slices.Equal(got.Entities, doc.Entities) {
		t.Errorf("tags mismatch: topics=%v entities=%v", got.Topics, got.Entities)
	}
	if got.ContentHash != doc.ContentHash || got.ModifiedTime != doc.ModifiedTime {
		t.Errorf("staleness fields mismatch: %+v", got)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.UpsertDocument(ctx, testDocument("notes/gone.md")); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	if err := store.DeleteDocument(ctx, "notes/gone.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := store.GetDocument(ctx, "notes/gone.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}

func TestListPathsOrdered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"b.md", "a.md", "c.md"} {
		if err := store.UpsertDocument(ctx, testDocument(path)); err != nil {
			t.Fatalf("UpsertDocument(%s): %v", path, err)
		}
	}

	paths, err := store.ListPaths(ctx)
	if err != nil {
		t.Fatalf("ListPaths: %v", err)
	}
	want := []string{"a.md", "b.md", "c.md"}
	if !slices.Equal(paths, want) {
		t.Errorf("ListPaths = %v, want %v", paths, want)
	}
}

func TestNilContentStaysNil(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := testDocument("notes/light.md")
	doc.FullContent = nil
	if err := store.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, err := store.GetDocument(ctx, doc.Filepath)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.FullContent != nil {
		t.Errorf("expected nil content, got %d bytes", len(got.FullContent))
	}
}
