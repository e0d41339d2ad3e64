package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneBatchLogs deletes files in dir matching pattern whose modification
// time is more than keepDays old, never touching current. It returns the
// number of files removed. keepDays <= 0 keeps everything.
func PruneBatchLogs(logger *slog.Logger, dir, pattern string, keepDays int, current string) int {
	if keepDays <= 0 || dir == "" || pattern == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	keep := filepath.Clean(current)

	removed := 0
	for _, path := range matches {
		if filepath.Clean(path) == keep {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "batch log prune failed", "log_prune_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check ownership of the log directory"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Debug("batch logs pruned",
			Int("removed", removed),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}
