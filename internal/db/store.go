// Package db is the storage gateway for the note index: a SQLite-backed
// document cache with a versioned schema. All statements use bound
// parameters; values are never interpolated into SQL text.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stormlightlabs/inkwell/internal/codec"
)

var (
	// ErrNotFound is returned when no document row matches the requested path.
	ErrNotFound = errors.New("document not found")

	// ErrMalformedRow is returned when a stored row cannot be decoded.
	// Callers should treat the query as zero results, never panic.
	ErrMalformedRow = errors.New("malformed document row")
)

type Store struct {
	db   *sql.DB
	path string
}

// Document is one indexed note file plus its derived metadata and
// cached content. Exactly one row exists per distinct Filepath.
type Document struct {
	Filepath       string
	Title          string
	DocType        string
	Status         string
	Date           string
	ModifiedTime   int64
	ContentHash    string
	ContentPreview string
	FullContent    []byte
	Topics         []string
	Entities       []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Open opens (creating if absent) the SQLite file at path and configures
// it for one-writer/many-reader coexistence with other processes.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if err := EnsureDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the filesystem location of the store.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying SQL database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// UpsertDocument inserts or updates the row keyed by doc.Filepath.
// created_at is preserved on update; everything else is replaced.
func (s *Store) UpsertDocument(ctx context.Context, doc Document) error {
	topics, err := json.Marshal(emptyIfNil(doc.Topics))
	if err != nil {
		return err
	}
	entities, err := json.Marshal(emptyIfNil(doc.Entities))
	if err != nil {
		return err
	}

	var content []byte
	if doc.FullContent != nil {
		content, err = codec.Compress(doc.FullContent)
		if err != nil {
			return fmt.Errorf("compress content: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (
			filepath, title, doc_type, status, date,
			modified_time, content_hash, content_preview, full_content,
			topics, entities, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filepath) DO UPDATE SET
			title = excluded.title,
			doc_type = excluded.doc_type,
			status = excluded.status,
			date = excluded.date,
			modified_time = excluded.modified_time,
			content_hash = excluded.content_hash,
			content_preview = excluded.content_preview,
			full_content = excluded.full_content,
			topics = excluded.topics,
			entities = excluded.entities,
			updated_at = excluded.updated_at`,
		doc.Filepath, doc.Title, doc.DocType, doc.Status, doc.Date,
		doc.ModifiedTime, doc.ContentHash, doc.ContentPreview, content,
		string(topics), string(entities),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetDocument returns the row for the given filepath, or ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, path string) (Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM documents WHERE filepath = ?`, path)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// ListDocuments returns every cached document. Rows that cannot be
// decoded are skipped and reported through the returned error, which
// wraps ErrMalformedRow; the decoded rows are still returned.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM documents ORDER BY filepath`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	var malformed error
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			malformed = err
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return docs, err
	}
	return docs, malformed
}

// ListPaths returns all indexed filepaths in lexical order.
func (s *Store) ListPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filepath FROM documents ORDER BY filepath`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// DeleteDocument removes the row for the given filepath, if any.
func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE filepath = ?`, path)
	return err
}

func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `VACUUM`)
	return err
}

const selectColumns = `SELECT filepath, title, doc_type, status, date,
	modified_time, content_hash, content_preview, full_content,
	topics, entities, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (Document, error) {
	var doc Document
	var content []byte
	var topics, entities, createdAt, updatedAt string

	err := row.Scan(
		&doc.Filepath, &doc.Title, &doc.DocType, &doc.Status, &doc.Date,
		&doc.ModifiedTime, &doc.ContentHash, &doc.ContentPreview, &content,
		&topics, &entities, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, err
		}
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	if err := json.Unmarshal([]byte(topics), &doc.Topics); err != nil {
		return Document{}, fmt.Errorf("%w: topics for %s: %v", ErrMalformedRow, doc.Filepath, err)
	}
	if err := json.Unmarshal([]byte(entities), &doc.Entities); err != nil {
		return Document{}, fmt.Errorf("%w: entities for %s: %v", ErrMalformedRow, doc.Filepath, err)
	}
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, fmt.Errorf("%w: created_at for %s: %v", ErrMalformedRow, doc.Filepath, err)
	}
	if doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Document{}, fmt.Errorf("%w: updated_at for %s: %v", ErrMalformedRow, doc.Filepath, err)
	}

	if len(content) > 0 {
		doc.FullContent, err = codec.Decompress(content)
		if err != nil {
			return Document{}, fmt.Errorf("%w: content for %s: %v", ErrMalformedRow, doc.Filepath, err)
		}
	}

	return doc, nil
}

func emptyIfNil(set []string) []string {
	if set == nil {
		return []string{}
	}
	return set
}
