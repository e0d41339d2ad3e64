// Package preflight provides readiness checks for the assets, binaries and
// directories reelforge depends on.
//
// These checks run in two contexts:
//   - The batch runner calls RunAll before discovering clips. If any check
//     fails the batch stops before rendering anything.
//   - The CLI "reelforge check" command prints every result, including the
//     optional LLM reachability probe.
package preflight
