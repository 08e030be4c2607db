// Package sqlite persists audit history so operators can see what was
// posted where, and when.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/prguardian/prguardian/internal/usecase/audit"
)

// Store implements the audit.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates the audits table if it doesn't exist.
func (s *Store) createSchema() error {
	schema := `
	-- One row per submitted review
	CREATE TABLE IF NOT EXISTS audits (
		audit_id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner TEXT NOT NULL,
		repo TEXT NOT NULL,
		pull_number INTEGER NOT NULL,
		review_id INTEGER NOT NULL,
		event TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		comments_posted INTEGER NOT NULL,
		comments_skipped INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_repo ON audits(owner, repo, pull_number);
	CREATE INDEX IF NOT EXISTS idx_audits_created ON audits(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordAudit stores one submitted review.
func (s *Store) RecordAudit(ctx context.Context, rec audit.Record) error {
	query := `
		INSERT INTO audits (owner, repo, pull_number, review_id, event, provider, model, comments_posted, comments_skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.Owner,
		rec.Repo,
		rec.PullNumber,
		rec.ReviewID,
		rec.Event,
		rec.Provider,
		rec.Model,
		rec.CommentsPosted,
		rec.CommentsSkipped,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit: %w", err)
	}

	return nil
}

// ListRecent returns the most recent audits, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT owner, repo, pull_number, review_id, event, provider, model, comments_posted, comments_skipped, created_at
		FROM audits
		ORDER BY created_at DESC, audit_id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var rec audit.Record
		var createdAt int64
		if err := rows.Scan(
			&rec.Owner,
			&rec.Repo,
			&rec.PullNumber,
			&rec.ReviewID,
			&rec.Event,
			&rec.Provider,
			&rec.Model,
			&rec.CommentsPosted,
			&rec.CommentsSkipped,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audits: %w", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
