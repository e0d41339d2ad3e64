// Package logging assembles structured slog loggers and formatting helpers used
// across reelforge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, clip paths, and stages. WarnWithContext and
// ErrorWithContext enforce the event_type/error_hint/impact fields every
// operator-facing warning should carry.
package logging
