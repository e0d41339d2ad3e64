package history

import (
	"strings"
	"time"
)

// Status is the outcome recorded for a clip attempt.
type Status string

const (
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
	StatusUnarchived Status = "unarchived"
)

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPublished:
		return StatusPublished, true
	case StatusFailed:
		return StatusFailed, true
	case StatusUnarchived:
		return StatusUnarchived, true
	default:
		return "", false
	}
}

// Entry is a single clip attempt.
type Entry struct {
	ID           int64
	RunID        string
	ClipPath     string
	Stem         string
	Session      string
	Orientation  string
	Stage        string
	Status       Status
	VideoURL     string
	ArchivePath  string
	RecordDigest string
	ErrorMessage string
	CreatedAt    time.Time
}

// Summary aggregates entry counts per status for a run.
type Summary struct {
	RunID      string
	Published  int
	Failed     int
	Unarchived int
}

// Total returns the number of attempts in the summary.
func (s Summary) Total() int {
	return s.Published + s.Failed + s.Unarchived
}
