// Command reelforge renders gameplay clips from the NAS into branded videos
// and publishes them.
//
// "reelforge run" is the batch entry point, usually driven by a timer. The
// remaining commands inspect sessions and history, verify the environment,
// manage configuration, and render or publish a single file by hand.
package main
