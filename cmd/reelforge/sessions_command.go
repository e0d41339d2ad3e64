package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"reelforge/internal/metadata"
	"reelforge/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions waiting on the NAS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := session.Discover(cfg.Paths.NASRoot); err != nil {
				return err
			}
			sessions := session.Sessions(cfg.Paths.NASRoot)
			if len(sessions) == 0 {
				fmt.Fprintf(out, "No sessions under %s\n", cfg.Paths.NASRoot)
				return nil
			}

			headers := []string{"Session", "Date"}
			for _, t := range session.KnownTypes {
				headers = append(headers, t.Label())
			}
			headers = append(headers, "Other", "Notes")
			aligns := make([]columnAlignment, len(headers))
			for i := 2; i < len(headers)-1; i++ {
				aligns[i] = alignRight
			}

			rows := make([][]string, 0, len(sessions))
			for _, sess := range sessions {
				counts := make(map[session.ClipType]int)
				for clip := range session.SessionClips(sess) {
					counts[clip.Type]++
				}
				row := []string{sess.Name(), sess.DisplayDate()}
				for _, t := range session.KnownTypes {
					row = append(row, strconv.Itoa(counts[t]))
				}
				row = append(row, strconv.Itoa(counts[session.TypeUnknown]), yesNo(hasNotes(sess.Dir)))
				rows = append(rows, row)
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func hasNotes(dir string) bool {
	for _, name := range []string{metadata.NotesFile, metadata.NotesTextFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
