// Package logs reads the per-batch log files written under paths.log_dir.
//
// Latest picks the newest batch log, Last returns its final lines with
// bounded memory, and Follow polls for appended lines until the caller's
// context ends. The "reelforge logs" command is built on these helpers.
package logs
