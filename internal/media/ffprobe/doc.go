// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect executes ffprobe and returns a Result; helper methods expose the
// duration (and midpoint, used for thumbnail extraction), the first video
// stream, and audio presence.
package ffprobe
