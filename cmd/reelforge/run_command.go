package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"reelforge/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render and publish every clip under the NAS root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if debug {
				cfg.Workflow.Debug = true
			}

			logger, logPath, err := ctx.runLogger(time.Now())
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			runner := workflow.NewRunner(cfg, p.renderer, p.orchestrator, p.store, logger)
			summary, runErr := runner.Run(cmd.Context())

			out := cmd.OutOrStdout()
			printRunSummary(out, summary, logPath, shouldColorize(out))
			if runErr != nil {
				return runErr
			}
			if failed := summary.Failed + summary.Unarchived; failed > 0 {
				return fmt.Errorf("batch finished with %d failed and %d unarchived clip(s)", summary.Failed, summary.Unarchived)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Upload privately and keep source sessions")
	return cmd
}

func printRunSummary(out io.Writer, summary workflow.Summary, logPath string, colorize bool) {
	for _, line := range renderSectionHeader("Batch", colorize) {
		fmt.Fprintln(out, line)
	}
	if summary.RunID != "" {
		fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Discovered", statusInfo, fmt.Sprintf("%d clip(s)", summary.Discovered), colorize))
	fmt.Fprintln(out, renderStatusLine("Published", countKind(summary.Published, statusOK, statusInfo), fmt.Sprint(summary.Published), colorize))
	fmt.Fprintln(out, renderStatusLine("Failed", countKind(summary.Failed, statusError, statusOK), fmt.Sprint(summary.Failed), colorize))
	fmt.Fprintln(out, renderStatusLine("Unarchived", countKind(summary.Unarchived, statusError, statusOK), fmt.Sprint(summary.Unarchived), colorize))
	if summary.Skipped > 0 {
		fmt.Fprintln(out, renderStatusLine("Already archived", statusInfo, fmt.Sprint(summary.Skipped), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatDuration(summary.Duration), colorize))
	if logPath != "" {
		fmt.Fprintln(out, renderStatusLine("Log", statusInfo, logPath, colorize))
	}
}

func countKind(count int, nonZero, zero statusKind) statusKind {
	if count > 0 {
		return nonZero
	}
	return zero
}
