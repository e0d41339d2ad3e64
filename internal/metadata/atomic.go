package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// atomicWriter writes to a temp file in the target directory and moves it into
// place on Commit, so a record is never observed half-written. Commit never
// replaces an existing file.
type atomicWriter struct {
	path    string
	tmpPath string
	file    *os.File
}

func newAtomicWriter(path string) (*atomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".reelforge-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &atomicWriter{path: path, tmpPath: tmp.Name(), file: tmp}, nil
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *atomicWriter) Commit() error {
	if err := w.file.Sync(); err != nil {
		_ = w.Abort()
		return fmt.Errorf("sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(w.tmpPath, 0o644); err != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("chmod: %w", err)
	}
	defer os.Remove(w.tmpPath)
	err := os.Link(w.tmpPath, w.path)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}
	// Some network shares refuse hard links.
	if _, statErr := os.Lstat(w.path); statErr == nil {
		return fmt.Errorf("%s: %w", w.path, fs.ErrExist)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (w *atomicWriter) Abort() error {
	_ = w.file.Close()
	return os.Remove(w.tmpPath)
}
