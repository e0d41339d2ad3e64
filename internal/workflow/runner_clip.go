package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reelforge/internal/history"
	"reelforge/internal/logging"
	"reelforge/internal/publish"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/session"
)

const stageRender = "render"

type clipOutcome struct {
	status   history.Status
	stage    string
	result   publish.Result
	err      error
	duration time.Duration
}

func (r *Runner) processClip(ctx context.Context, clip session.Clip) clipOutcome {
	ctx = services.WithClip(ctx, clip.Path)
	started := r.now()
	if seconds := r.cfg.Workflow.ClipTimeoutSeconds; seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
		defer cancel()
	}

	logging.WithContext(ctx, r.logger).Info("processing clip",
		logging.String("session", clip.Session.Name()),
		logging.String("type", string(clip.Type)),
		logging.String("orientation", string(clip.Orientation)),
	)

	outcome := clipOutcome{stage: stageRender}
	rendered, err := render.NewJob(r.cfg, clip).Run(services.WithStage(ctx, stageRender), r.renderer)
	if err == nil {
		outcome.result, err = r.publisher.Publish(services.WithStage(ctx, "publish"), publish.Request{
			RenderedFile: rendered,
			SessionDir:   clip.Session.Dir,
			SourceStem:   clip.Stem,
			Orientation:  clip.Orientation,
		})
		outcome.stage = string(outcome.result.Stage)
		var stageErr *publish.StageError
		if errors.As(err, &stageErr) {
			outcome.stage = string(stageErr.Stage)
		}
	}

	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, services.ErrTimeout) {
		err = services.Wrap(services.ErrTimeout, outcome.stage, "process clip",
			fmt.Sprintf("exceeded %ds", r.cfg.Workflow.ClipTimeoutSeconds), err)
	}
	outcome.err = err
	outcome.duration = r.now().Sub(started)
	if err != nil {
		outcome.status = services.FailureStatus(err)
	} else {
		outcome.status = history.StatusPublished
	}
	return outcome
}

func (r *Runner) recordOutcome(ctx context.Context, clip session.Clip, outcome clipOutcome) {
	clipCtx := services.WithStage(services.WithClip(ctx, clip.Path), outcome.stage)
	logger := logging.WithContext(clipCtx, r.logger)

	switch outcome.status {
	case history.StatusPublished:
		logger.Info("clip published",
			logging.String("title", outcome.result.Title),
			logging.String("video_url", outcome.result.VideoURL),
			logging.String("archive_path", outcome.result.ArchivePath),
			logging.Duration("duration", outcome.duration),
		)
	case history.StatusUnarchived:
		logging.ErrorWithContext(logger, "clip published but metadata not archived", "clip_unarchived",
			logging.String("video_url", outcome.result.VideoURL),
			logging.String("orientation", string(clip.Orientation)),
			logging.Error(outcome.err),
			logging.String(logging.FieldErrorHint, "write the archive record by hand; the session was kept"),
			logging.String(logging.FieldImpact, "video is live without an archive record"),
		)
	default:
		logging.ErrorWithContext(logger, "clip failed", "clip_failed",
			logging.String("orientation", string(clip.Orientation)),
			logging.String("reason", services.Reason(outcome.err)),
			logging.String("video_url", outcome.result.VideoURL),
			logging.Error(outcome.err),
			logging.String(logging.FieldErrorHint, failureHint(outcome.err)),
		)
	}

	r.recordHistory(clipCtx, logger, clip, outcome)

	switch outcome.status {
	case history.StatusPublished:
		r.notify(clipCtx, logger, "published", func(ctx context.Context) error {
			return r.notifier.NotifyPublished(ctx, outcome.result.Title, outcome.result.VideoURL)
		})
	case history.StatusUnarchived:
		r.notify(clipCtx, logger, "unarchived", func(ctx context.Context) error {
			return r.notifier.NotifyUnarchived(ctx, clip.Filename(), outcome.result.VideoURL)
		})
	default:
		r.notify(clipCtx, logger, "clip failure", func(ctx context.Context) error {
			return r.notifier.NotifyClipFailed(ctx, clip.Filename(), outcome.stage, outcome.err)
		})
	}
}

func (r *Runner) recordHistory(ctx context.Context, logger *slog.Logger, clip session.Clip, outcome clipOutcome) {
	if r.store == nil {
		return
	}
	entry := history.Entry{
		ClipPath:     clip.Path,
		Stem:         clip.Stem,
		Session:      clip.Session.Name(),
		Orientation:  string(clip.Orientation),
		Stage:        outcome.stage,
		Status:       outcome.status,
		VideoURL:     outcome.result.VideoURL,
		ArchivePath:  outcome.result.ArchivePath,
		RecordDigest: outcome.result.Digest,
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		entry.RunID = id
	}
	if outcome.err != nil {
		entry.ErrorMessage = outcome.err.Error()
	}
	// The ledger must capture clips that were in flight when the batch was cancelled.
	if _, err := r.store.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "failed to record clip history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history database access under paths.log_dir"),
			logging.String(logging.FieldImpact, "clip outcome missing from reelforge history"),
		)
	}
}

func (r *Runner) notify(ctx context.Context, logger *slog.Logger, label string, send func(context.Context) error) {
	if r.notifier == nil {
		return
	}
	if err := send(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("batch shutting down, could not send notification", logging.String("notification", label))
			return
		}
		logger.Debug("notification failed", logging.String("notification", label), logging.Error(err))
	}
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingAsset):
		return "check the [assets] paths and the clip file"
	case errors.Is(err, services.ErrEncode):
		return "inspect the ffmpeg output in the error message"
	case errors.Is(err, services.ErrAuthentication):
		return "re-authorize with the client secrets and refresh the token file"
	case errors.Is(err, services.ErrUpload):
		return "check platform quota and network access"
	case errors.Is(err, services.ErrNotesParse), errors.Is(err, services.ErrInvalidMetadata):
		return "fix notes.json in the session directory"
	case errors.Is(err, services.ErrMetadataNotFound):
		return "verify the clip is still inside its session directory"
	case errors.Is(err, services.ErrTimeout):
		return "raise workflow.clip_timeout_seconds"
	default:
		return "check logs for details"
	}
}
