package db

import (
	"context"
	"database/sql"
)

// SchemaVersion is the version the migration chain in EnsureSchema
// brings a store up to.
const SchemaVersion = 1

const Schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY,
	filepath TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	doc_type TEXT NOT NULL DEFAULT 'document',
	status TEXT NOT NULL DEFAULT 'draft',
	date TEXT NOT NULL DEFAULT '',
	modified_time INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT NOT NULL DEFAULT '',
	content_preview TEXT NOT NULL DEFAULT '',
	full_content BLOB,
	topics TEXT NOT NULL DEFAULT '[]',
	entities TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_info (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_filepath ON documents(filepath);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_doc_type ON documents(doc_type);
CREATE INDEX IF NOT EXISTS idx_documents_modified ON documents(modified_time);
`

// migrations maps a from-version to the step that brings the store to
// from-version+1. The chain is empty for now; version 1 is created
// directly by Schema. Future schema changes append steps here.
var migrations = map[int]func(context.Context, *sql.Tx) error{}
