package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// EnsureSchema creates all tables and indexes on first use and walks the
// migration chain for stores created by older versions. It is idempotent:
// calling it on an already-current store performs no destructive work.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	version, err := s.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if version == 0 {
		// Fresh store: Schema already created the current layout.
		return s.setVersion(ctx, SchemaVersion)
	}

	if version > SchemaVersion {
		return fmt.Errorf("store schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	for version < SchemaVersion {
		if err := s.applyMigration(ctx, version); err != nil {
			return err
		}
		version++
	}
	return nil
}

// CurrentVersion returns the schema version recorded in the store, or 0
// when the store has never been initialized.
func (s *Store) CurrentVersion(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM schema_info WHERE key = 'version'`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: schema version %q: %v", ErrMalformedRow, raw, err)
	}
	return version, nil
}

func (s *Store) setVersion(ctx context.Context, version int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schema_info (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(version))
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// applyMigration runs the step from `from` to `from+1` and records the
// new version, all in one transaction so a failed step leaves the store
// at its previous version.
func (s *Store) applyMigration(ctx context.Context, from int) error {
	step, ok := migrations[from]
	if !ok {
		// No step registered: version bump only.
		return s.setVersion(ctx, from+1)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := step(ctx, tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migrate %d -> %d: %w", from, from+1, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_info (key, value) VALUES ('version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(from+1)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record version %d: %w", from+1, err)
	}
	return tx.Commit()
}
