// Package publish uploads a rendered video and archives its metadata.
//
// Orchestrator.Publish walks a fixed sequence of stages for one rendered
// file: authenticate, resolve metadata, title, description, upload,
// thumbnail, playlist, recording date, persist, cleanup. Each failure is
// returned as a *StageError naming the stage. A failure to persist after the
// video went live is reported as *UnarchivedError so the operator can repair
// the archive by hand; the batch keeps going either way.
//
// The video platform and the description generator sit behind the Platform
// and DescriptionSource interfaces. Production implementations live in
// internal/services/youtube and GeneratedDescriptions (backed by
// internal/services/llm).
package publish
