// Package workflow runs the sequential publishing batch.
//
// A Runner takes the single-instance lock, runs preflight checks, discovers
// every clip under the NAS root, and then renders and publishes each clip in
// turn. Every attempt is recorded in the history ledger and reported through
// the notification service. One clip's failure never stops the batch; only
// lock, preflight, discovery, and cancellation errors end it early.
//
// When the metrics textfile path is configured the batch outcome is written
// in Prometheus exposition format for node_exporter's textfile collector.
package workflow
