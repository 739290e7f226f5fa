package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"marketfetch/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveSnapshots(ctx context.Context, snapshots []store.Snapshot) (err error) {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots (key, fetched_at, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(key, fetched_at) DO UPDATE SET payload = excluded.payload
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		if _, err = stmt.ExecContext(ctx, snap.Key, snap.FetchedAt.UTC().UnixNano(), snap.Payload); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", snap.Key, err)
		}
	}

	return tx.Commit()
}

func (s *Store) ListSnapshots(ctx context.Context, key string) ([]store.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, fetched_at, payload
		FROM snapshots
		WHERE key = ?
		ORDER BY fetched_at
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Snapshot
	for rows.Next() {
		var (
			snap store.Snapshot
			ts   int64
		)
		if err := rows.Scan(&snap.Key, &ts, &snap.Payload); err != nil {
			return nil, err
		}
		snap.FetchedAt = time.Unix(0, ts).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT    NOT NULL,
			fetched_at INTEGER NOT NULL,
			payload    TEXT    NOT NULL,
			PRIMARY KEY (key, fetched_at)
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}
