package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/history"
	"reelforge/internal/logging"
	"reelforge/internal/publish"
	"reelforge/internal/services"
	"reelforge/internal/session"
)

const manualRunID = "manual"

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var (
		stem       string
		sessionDir string
	)

	cmd := &cobra.Command{
		Use:   "publish <rendered-file>",
		Short: "Publish an already rendered video",
		Long: "Publish an already rendered video. The session defaults to the parent of the\n" +
			"rendered/ directory holding the file; --stem names the source clip it was made from.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rendered, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			req, err := publishRequest(rendered, sessionDir, stem)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			runCtx := services.WithRunID(cmd.Context(), manualRunID)
			res, pubErr := p.orchestrator.Publish(runCtx, req)
			recordManualPublish(runCtx, logger, p.store, req, res, pubErr)

			out := cmd.OutOrStdout()
			if res.VideoURL != "" {
				fmt.Fprintf(out, "Video: %s\n", res.VideoURL)
			}
			if pubErr != nil {
				return pubErr
			}
			fmt.Fprintf(out, "Published %q\n", res.Title)
			fmt.Fprintf(out, "Archived to %s\n", res.ArchivePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&stem, "stem", "", "Stem of the source clip (filename without extension)")
	cmd.Flags().StringVar(&sessionDir, "session", "", "Session directory (defaults to the rendered file's session)")
	_ = cmd.MarkFlagRequired("stem")
	return cmd
}

func publishRequest(rendered, sessionDir, stem string) (publish.Request, error) {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return publish.Request{}, errors.New("--stem is required")
	}
	abs, err := filepath.Abs(rendered)
	if err != nil {
		return publish.Request{}, fmt.Errorf("resolve rendered file: %w", err)
	}
	dir := strings.TrimSpace(sessionDir)
	if dir == "" {
		dir = filepath.Dir(filepath.Dir(abs))
	} else if dir, err = config.ExpandPath(dir); err != nil {
		return publish.Request{}, err
	}
	return publish.Request{
		RenderedFile: abs,
		SessionDir:   dir,
		SourceStem:   stem,
		Orientation:  session.OrientationOf(stem),
	}, nil
}

func recordManualPublish(ctx context.Context, logger *slog.Logger, store *history.Store, req publish.Request, res publish.Result, err error) {
	entry := history.Entry{
		RunID:        manualRunID,
		ClipPath:     req.RenderedFile,
		Stem:         req.SourceStem,
		Session:      filepath.Base(req.SessionDir),
		Orientation:  string(req.Orientation),
		Stage:        string(res.Stage),
		Status:       history.StatusPublished,
		VideoURL:     res.VideoURL,
		ArchivePath:  res.ArchivePath,
		RecordDigest: res.Digest,
	}
	if err != nil {
		entry.Status = services.FailureStatus(err)
		entry.ErrorMessage = err.Error()
	}
	if _, recErr := store.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		logging.WarnWithContext(logger, "failed to record manual publish", "history_write_failed",
			logging.Error(recErr),
			logging.String(logging.FieldErrorHint, "check history database access under paths.log_dir"),
			logging.String(logging.FieldImpact, "publish missing from reelforge history"),
		)
	}
}
