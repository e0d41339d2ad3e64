package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		stem         sql.NullString
		session      sql.NullString
		orientation  sql.NullString
		stage        sql.NullString
		statusStr    string
		videoURL     sql.NullString
		archivePath  sql.NullString
		recordDigest sql.NullString
		errorMessage sql.NullString
		createdRaw   string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.ClipPath,
		&stem,
		&session,
		&orientation,
		&stage,
		&statusStr,
		&videoURL,
		&archivePath,
		&recordDigest,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.Stem = stem.String
	entry.Session = session.String
	entry.Orientation = orientation.String
	entry.Stage = stage.String
	entry.Status = Status(statusStr)
	entry.VideoURL = videoURL.String
	entry.ArchivePath = archivePath.String
	entry.RecordDigest = recordDigest.String
	entry.ErrorMessage = errorMessage.String
	created, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	entry.CreatedAt = created
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
