package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify assets, binaries, directories, and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			sections := checkSections(cmd.Context(), cfg, skipLLM)
			failed := 0
			for _, section := range sections {
				failed += printCheckSection(out, section.title, section.results, colorize)
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the description API probe")
	return cmd
}

type checkSection struct {
	title   string
	results []preflight.Result
}

func checkSections(ctx context.Context, cfg *config.Config, skipLLM bool) []checkSection {
	credentials := []preflight.Result{
		preflight.CheckRegularFile("YouTube client secrets", cfg.YouTube.ClientSecretsPath),
		preflight.CheckRegularFile("YouTube token", cfg.YouTube.TokenPath),
	}
	if !skipLLM {
		credentials = append(credentials, preflight.CheckLLM(ctx, cfg.LLM))
	}
	return []checkSection{
		{title: "Batch preflight", results: preflight.RunAll(ctx, cfg)},
		{title: "Credentials", results: credentials},
	}
}

func printCheckSection(out io.Writer, title string, results []preflight.Result, colorize bool) int {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	failed := 0
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
			failed++
		}
		fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	fmt.Fprintln(out)
	return failed
}
