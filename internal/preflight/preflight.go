package preflight

import (
	"context"
	"slices"

	"reelforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a batch needs: brand assets, media binaries,
// NAS readability, archive writability and free space.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckAssets(cfg)...)
	results = append(results, CheckBinaries(cfg)...)
	results = append(results, CheckDirectoryAccess("NAS root", cfg.Paths.NASRoot))
	results = append(results, CheckDirectoryAccess("Archive directory", cfg.Paths.ArchiveDir))
	if cfg.Workflow.MinFreeGiB > 0 {
		results = append(results, CheckFreeSpace("NAS free space", cfg.Paths.NASRoot, uint64(cfg.Workflow.MinFreeGiB)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	return slices.DeleteFunc(slices.Clone(results), func(r Result) bool { return r.Passed })
}
