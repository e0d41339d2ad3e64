package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reelforge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit    int
		statuses []string
		runID    string
		clipPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded clip attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			switch {
			case strings.TrimSpace(clipPath) != "":
				entry, err := store.LastPublished(cmd.Context(), clipPath)
				if err != nil {
					return err
				}
				if entry == nil {
					fmt.Fprintf(out, "%s has not been published\n", clipPath)
					return nil
				}
				printEntries(out, []history.Entry{*entry})
				return nil
			case strings.TrimSpace(runID) != "":
				entries, err := store.ForRun(cmd.Context(), runID)
				if err != nil {
					return err
				}
				summary, err := store.Summarize(cmd.Context(), runID)
				if err != nil {
					return err
				}
				printEntries(out, entries)
				fmt.Fprintf(out, "Run %s: %d attempt(s), %d published, %d failed, %d unarchived\n",
					summary.RunID, summary.Total(), summary.Published, summary.Failed, summary.Unarchived)
				return nil
			}

			filter := make([]history.Status, 0, len(statuses))
			for _, value := range statuses {
				status, ok := history.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q (want published, failed or unarchived)", value)
				}
				filter = append(filter, status)
			}
			entries, err := store.Recent(cmd.Context(), limit, filter...)
			if err != nil {
				return err
			}
			printEntries(out, entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (published, failed, unarchived)")
	cmd.Flags().StringVar(&runID, "run", "", "Show every attempt of one batch run")
	cmd.Flags().StringVar(&clipPath, "clip", "", "Show the last publish of a clip path")
	return cmd
}

func printEntries(out io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded")
		return
	}
	headers := []string{"When", "Status", "Stage", "Session", "Clip", "Result"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		result := entry.VideoURL
		if entry.Status == history.StatusFailed || result == "" {
			result = entry.ErrorMessage
		}
		rows = append(rows, []string{
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(entry.Status),
			entry.Stage,
			entry.Session,
			entry.Stem,
			result,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, nil, withMaxWidth(5, 60)))
}
