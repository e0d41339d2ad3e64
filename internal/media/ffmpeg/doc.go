// Package ffmpeg describes ffmpeg invocations as data and runs them.
//
// Callers build a Spec (inputs, filter graph, stream maps, output options)
// and hand it to an Encoder. The exec-backed Runner is the production
// Encoder; tests substitute a recording fake so filter graphs can be asserted
// without a real encoder.
package ffmpeg
