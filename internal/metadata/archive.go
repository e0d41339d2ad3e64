package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"reelforge/internal/services"
)

// Archive stores finalized records under a root directory keyed by session date.
type Archive struct {
	root string
}

// NewArchive returns an archive rooted at dir. The directory is created lazily.
func NewArchive(dir string) *Archive {
	return &Archive{root: dir}
}

// Root returns the archive root directory.
func (a *Archive) Root() string {
	return a.root
}

// DateDir returns the directory holding records for a session date. Both
// YYYY-MM-DD and YYYY.MM.DD inputs are accepted.
func (a *Archive) DateDir(sessionDate string) string {
	return filepath.Join(a.root, strings.ReplaceAll(strings.TrimSpace(sessionDate), "-", "."))
}

// PathFor returns the file a record would be written to.
func (a *Archive) PathFor(rec Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	return filepath.Join(a.DateDir(rec.SessionDate), rec.archiveStem()+".json"), nil
}

// Exists reports whether a record for stem is already archived under sessionDate.
func (a *Archive) Exists(sessionDate, stem string) bool {
	info, err := os.Stat(filepath.Join(a.DateDir(sessionDate), stem+".json"))
	return err == nil && info.Mode().IsRegular()
}

// Persist writes rec atomically and returns its path. Records are written
// once: an existing record for the same stem is never replaced.
func (a *Archive) Persist(rec Record) (string, error) {
	path, err := a.PathFor(rec)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(path); err == nil {
		return "", services.Wrap(services.ErrPersistence, "archive", "persist", "record already exists: "+path, fs.ErrExist)
	}
	data, err := json.MarshalIndent(rec.normalized(), "", "  ")
	if err != nil {
		return "", services.Wrap(services.ErrPersistence, "archive", "encode record", path, err)
	}
	data = append(data, '\n')

	writer, err := newAtomicWriter(path)
	if err != nil {
		return "", services.Wrap(services.ErrPersistence, "archive", "open", path, err)
	}
	if _, err := writer.Write(data); err != nil {
		_ = writer.Abort()
		return "", services.Wrap(services.ErrPersistence, "archive", "write", path, err)
	}
	if err := writer.Commit(); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", services.Wrap(services.ErrPersistence, "archive", "persist", "record already exists: "+path, err)
		}
		return "", services.Wrap(services.ErrPersistence, "archive", "commit", path, err)
	}
	return path, nil
}

// Count returns the number of records archived for a session date.
func (a *Archive) Count(sessionDate string) (int, error) {
	entries, err := os.ReadDir(a.DateDir(sessionDate))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, services.Wrap(services.ErrPersistence, "archive", "count", sessionDate, err)
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			count++
		}
	}
	return count, nil
}

// Load reads a record back from disk.
func (a *Archive) Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read record %s: %w", path, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, services.Wrap(services.ErrInvalidMetadata, "archive", "decode record", path, err)
	}
	return rec, nil
}
