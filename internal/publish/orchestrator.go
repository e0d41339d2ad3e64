package publish

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reelforge/internal/config"
	"reelforge/internal/logging"
	"reelforge/internal/metadata"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/session"
)

// Stage names a step of the publish flow.
type Stage string

const (
	StageAuthenticate    Stage = "authenticate"
	StageResolveMetadata Stage = "resolve_metadata"
	StageTitle           Stage = "title"
	StageDescription     Stage = "description"
	StageUpload          Stage = "upload"
	StageThumbnail       Stage = "thumbnail"
	StagePlaylist        Stage = "playlist"
	StageRecordingDate   Stage = "recording_date"
	StagePersist         Stage = "persist"
	StageCleanup         Stage = "cleanup"
	StageDone            Stage = "done"
)

// Thumbnailer extracts a still from a rendered video.
type Thumbnailer interface {
	Extract(ctx context.Context, video, out string) (string, error)
}

// Request identifies the rendered file to publish and the clip it came from.
type Request struct {
	RenderedFile string
	SessionDir   string
	// SourceStem is the stem of the source clip; the rendered filename is
	// per-session and cannot be used to look the clip up.
	SourceStem  string
	Orientation session.Orientation
}

// Result reports what a publish achieved, including partial progress on failure.
type Result struct {
	Stage       Stage
	Title       string
	VideoID     string
	VideoURL    string
	ArchivePath string
	Digest      string
	CleanedUp   bool
}

// Orchestrator runs the publish stages for one rendered file at a time.
type Orchestrator struct {
	cfg          *config.Config
	platform     Platform
	descriptions DescriptionSource
	thumbnails   Thumbnailer
	archive      *metadata.Archive
	logger       *slog.Logger
	now          func() time.Time
	removeAll    func(string) error
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRemoveAll overrides how session directories are removed.
func WithRemoveAll(fn func(string) error) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.removeAll = fn
		}
	}
}

// NewOrchestrator wires the publish flow. descriptions may be nil, in which
// case every upload uses the configured fallback description.
func NewOrchestrator(cfg *config.Config, platform Platform, descriptions DescriptionSource, thumbnails Thumbnailer, archive *metadata.Archive, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		cfg:          cfg,
		platform:     platform,
		descriptions: descriptions,
		thumbnails:   thumbnails,
		archive:      archive,
		logger:       logging.NewComponentLogger(logger, "publish"),
		now:          time.Now,
		removeAll:    os.RemoveAll,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Publish runs every stage in order. Stages 2 through 9 abort on failure and
// skip cleanup. Cleanup removes the session directory only once every clip in
// it has an archive record; cleanup failures are logged only.
func (o *Orchestrator) Publish(ctx context.Context, req Request) (Result, error) {
	var res Result
	fail := func(stage Stage, err error) (Result, error) {
		res.Stage = stage
		return res, &StageError{Stage: stage, Err: err}
	}
	vertical := req.Orientation.IsVertical()
	filename := filepath.Base(req.RenderedFile)
	logger := logging.WithContext(ctx, o.logger)

	// 1. authenticate
	if err := o.platform.Authenticate(ctx); err != nil {
		if !errors.Is(err, services.ErrAuthentication) {
			err = services.Wrap(services.ErrAuthentication, "publish", "authenticate", "", err)
		}
		return fail(StageAuthenticate, err)
	}

	// 2. resolve metadata
	meta, err := metadata.Derive(req.SessionDir)
	if err != nil {
		return fail(StageResolveMetadata, err)
	}
	clipMeta, ok := meta.Clip(req.SourceStem)
	if !ok {
		return fail(StageResolveMetadata, services.Wrap(services.ErrMetadataNotFound, "publish", "resolve metadata",
			"no clip with stem "+req.SourceStem+" in "+meta.Session.Name(), nil))
	}
	if o.archive.Exists(meta.SessionDate, clipMeta.Stem) {
		return fail(StageResolveMetadata, services.Wrap(services.ErrInvalidMetadata, "publish", "resolve metadata",
			clipMeta.Stem+" is already archived for "+meta.SessionDate, nil))
	}

	// 3. title
	archived, err := o.archive.Count(meta.SessionDate)
	if err != nil {
		return fail(StageTitle, err)
	}
	res.Title = Title(o.cfg.Brand.TitlePrefix, meta.Session, archived)

	// 4. description
	description := o.describe(ctx, meta, req.Orientation, logger)

	// 5. upload
	upload := Upload{
		Path:        req.RenderedFile,
		Title:       res.Title,
		Description: description,
		Tags:        MergeTags(o.cfg.Brand.Tags, meta.Tags),
		CategoryID:  o.cfg.YouTube.CategoryID,
		Privacy:     PrivacyFor(o.cfg.Workflow.Debug),
	}
	logger.Info("uploading video",
		logging.String("file", filename),
		logging.String("title", upload.Title),
		logging.String("privacy", upload.Privacy),
	)
	videoID, err := o.platform.Upload(ctx, upload)
	if err != nil {
		if !errors.Is(err, services.ErrUpload) {
			err = services.Wrap(services.ErrUpload, "publish", "upload", filename, err)
		}
		return fail(StageUpload, err)
	}
	res.VideoID = videoID
	res.VideoURL = VideoURL(videoID)
	logger.Info("upload complete", logging.String("video_url", res.VideoURL))

	// 6. thumbnail
	if vertical {
		logger.Debug("thumbnail skipped for vertical video")
	} else {
		thumb, err := o.thumbnails.Extract(ctx, req.RenderedFile, render.ThumbnailPath(req.RenderedFile))
		if err != nil {
			return fail(StageThumbnail, err)
		}
		if err := o.platform.SetThumbnail(ctx, videoID, thumb); err != nil {
			return fail(StageThumbnail, services.Wrap(services.ErrUpload, "publish", "thumbnail", thumb, err))
		}
	}

	// 7. playlist
	if playlist := strings.TrimSpace(o.cfg.PlaylistFor(vertical)); playlist == "" {
		logger.Info("playlist not configured; skipping", logging.Bool("vertical", vertical))
	} else if err := o.platform.AddToPlaylist(ctx, playlist, videoID); err != nil {
		return fail(StagePlaylist, services.Wrap(services.ErrUpload, "publish", "playlist", playlist, err))
	}

	// 8. recording date
	if err := o.platform.SetRecordingDate(ctx, videoID, meta.Session.RecordingDate()); err != nil {
		return fail(StageRecordingDate, services.Wrap(services.ErrUpload, "publish", "recording date", "", err))
	}

	// 9. persist
	record := meta.NewRecord(clipMeta, metadata.Publication{
		Title:        res.Title,
		VideoURL:     res.VideoURL,
		RenderedFile: req.RenderedFile,
		PublishedAt:  o.now(),
	})
	path, err := o.archive.Persist(record)
	if err != nil {
		return fail(StagePersist, &UnarchivedError{VideoURL: res.VideoURL, Err: err})
	}
	res.ArchivePath = path
	if digest, err := metadata.Digest(record); err == nil {
		res.Digest = digest
	} else {
		logger.Debug("record digest unavailable", logging.Error(err))
	}
	logger.Info("metadata archived", logging.String("archive_path", path))

	// 10. cleanup
	res.Stage = StageDone
	if o.cfg.Workflow.Debug {
		logger.Info("debug mode; keeping session directory", logging.String("session", meta.Session.Dir))
		return res, nil
	}
	pending, shared := o.pendingClips(meta)
	if len(shared) > 0 {
		logging.WarnWithContext(logger, "clips share an archive stem; keeping session directory", "cleanup_skipped",
			logging.String("session", meta.Session.Dir),
			logging.String("stems", strings.Join(shared, ", ")),
			logging.String(logging.FieldErrorHint, "rename one of the clips so each stem is unique"),
			logging.String(logging.FieldImpact, "session stays on the NAS until resolved"),
		)
		return res, nil
	}
	if len(pending) > 0 {
		logger.Info("session has unpublished clips; keeping session directory",
			logging.String("session", meta.Session.Dir),
			logging.String("pending", strings.Join(pending, ", ")),
		)
		return res, nil
	}
	if err := o.removeAll(meta.Session.Dir); err != nil {
		logging.WarnWithContext(logger, "failed to remove session directory", "cleanup_warning",
			logging.String("session", meta.Session.Dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the session directory manually"),
			logging.String(logging.FieldImpact, "session will be rediscovered on the next run"),
		)
		return res, nil
	}
	res.CleanedUp = true
	logger.Info("session directory removed", logging.String("session", meta.Session.Dir))
	return res, nil
}

// pendingClips lists the session's clips that have no archive record yet, and
// stems used by more than one clip. A session is only removed once both are
// empty.
func (o *Orchestrator) pendingClips(meta metadata.SessionMetadata) (pending, shared []string) {
	seen := make(map[string]int, len(meta.Clips))
	for _, clip := range meta.Clips {
		seen[clip.Stem]++
		if seen[clip.Stem] == 2 {
			shared = append(shared, clip.Stem)
		}
		if seen[clip.Stem] == 1 && !o.archive.Exists(meta.SessionDate, clip.Stem) {
			pending = append(pending, clip.Stem)
		}
	}
	return pending, shared
}

func (o *Orchestrator) describe(ctx context.Context, meta metadata.SessionMetadata, orientation session.Orientation, logger *slog.Logger) string {
	fallback := o.cfg.Brand.FallbackDescription
	if o.descriptions == nil {
		return fallback
	}
	text, err := o.descriptions.Describe(ctx, meta, orientation)
	if err != nil {
		logging.WarnWithContext(logger, "description generation failed; using fallback", "description_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key and llm.base_url"),
			logging.String(logging.FieldImpact, "video uses the canned description"),
		)
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}
