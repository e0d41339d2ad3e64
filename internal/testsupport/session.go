package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SessionDir creates a session directory under root and returns its path.
func SessionDir(t testing.TB, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir session %s: %v", dir, err)
	}
	return dir
}

// Clip writes a placeholder clip into a session subfolder and returns its path.
func Clip(t testing.TB, sessionDir, subfolder, filename string) string {
	t.Helper()
	path := filepath.Join(sessionDir, subfolder, filename)
	WriteFile(t, path, 64)
	return path
}
