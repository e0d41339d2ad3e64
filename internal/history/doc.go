// Package history persists one row per clip attempt in SQLite so operators can
// see what each batch published, what failed, and at which stage.
//
// The ledger lives next to the logs (history.db under paths.log_dir). It is an
// audit trail, not a work queue: the filesystem and the metadata archive stay
// the source of truth for what still needs processing. Schema changes bump
// schemaVersion; operators delete the database to adopt a new schema.
package history
