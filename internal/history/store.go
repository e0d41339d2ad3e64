package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = "id, run_id, clip_path, stem, session, orientation, stage, status, video_url, archive_path, record_digest, error_message, created_at"

// Record appends a clip attempt to the ledger. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	if strings.TrimSpace(entry.RunID) == "" {
		return 0, errors.New("record attempt: run id required")
	}
	if strings.TrimSpace(entry.ClipPath) == "" {
		return 0, errors.New("record attempt: clip path required")
	}
	if _, ok := ParseStatus(string(entry.Status)); !ok {
		return 0, fmt.Errorf("record attempt: unknown status %q", entry.Status)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO clip_attempts (
            run_id, clip_path, stem, session, orientation, stage, status,
            video_url, archive_path, record_digest, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.ClipPath,
		nullableString(entry.Stem),
		nullableString(entry.Session),
		nullableString(entry.Orientation),
		nullableString(entry.Stage),
		entry.Status,
		nullableString(entry.VideoURL),
		nullableString(entry.ArchivePath),
		nullableString(entry.RecordDigest),
		nullableString(entry.ErrorMessage),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the newest attempts first, optionally filtered by status.
// A limit <= 0 returns every row.
func (s *Store) Recent(ctx context.Context, limit int, statuses ...Status) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + entryColumns + ` FROM clip_attempts`
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForRun returns every attempt recorded by a batch run in insertion order.
func (s *Store) ForRun(ctx context.Context, runID string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM clip_attempts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// LastPublished returns the most recent published attempt for a clip, or nil.
func (s *Store) LastPublished(ctx context.Context, clipPath string) (*Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM clip_attempts WHERE clip_path = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		clipPath,
		StatusPublished,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last published: %w", err)
	}
	return &entry, nil
}

// Summarize counts attempts per status for a run.
func (s *Store) Summarize(ctx context.Context, runID string) (Summary, error) {
	ctx = ensureContext(ctx)
	summary := Summary{RunID: runID}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM clip_attempts WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return summary, fmt.Errorf("summarize run: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return summary, fmt.Errorf("scan summary: %w", err)
		}
		switch Status(status) {
		case StatusPublished:
			summary.Published = count
		case StatusFailed:
			summary.Failed = count
		case StatusUnarchived:
			summary.Unarchived = count
		}
	}
	return summary, rows.Err()
}
