package render

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"reelforge/internal/config"
	"reelforge/internal/logging"
	"reelforge/internal/media/ffmpeg"
	"reelforge/internal/session"
)

// Job is everything needed to render one clip.
type Job struct {
	Clip    session.Clip
	Intro   string
	Outro   string
	Music   string
	Font    string
	Lines   [3]string
	Overlay string
	Output  string
}

// NewJob selects brand assets by the clip's orientation and places the
// output and overlay under <session>/rendered/.
func NewJob(cfg *config.Config, clip session.Clip) Job {
	vertical := clip.Orientation.IsVertical()
	sessionDir := clip.Session.Dir
	if sessionDir == "" {
		sessionDir = filepath.Dir(filepath.Dir(clip.Path))
	}
	renderedDir := filepath.Join(sessionDir, session.RenderedDir)
	return Job{
		Clip:    clip,
		Intro:   cfg.IntroFor(vertical),
		Outro:   cfg.OutroFor(vertical),
		Music:   cfg.Assets.Music,
		Font:    cfg.Assets.Font,
		Lines:   OverlayLines(cfg.Brand.OverlayTitle, cfg.Brand.OverlaySubtitle, clip.Session),
		Overlay: filepath.Join(renderedDir, OverlayName),
		Output:  filepath.Join(renderedDir, session.OutputFilename(cfg.Brand.OutputPrefix, clip.Session, clip.Orientation)),
	}
}

// Renderer runs jobs against a composer and pipeline sharing one encoder.
type Renderer struct {
	composer *OverlayComposer
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewRenderer builds a renderer from render settings.
func NewRenderer(cfg *config.Config, encoder ffmpeg.Encoder, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	settings := Settings{
		Preset:       cfg.Render.Preset,
		CRF:          cfg.Render.CRF,
		AudioBitrate: cfg.Render.AudioBitrate,
	}
	return &Renderer{
		composer: NewOverlayComposer(encoder, settings.Preset),
		pipeline: NewPipeline(encoder, settings),
		logger:   logging.NewComponentLogger(logger, "render"),
	}
}

// Run composes the overlay, renders the final video, and removes the overlay
// whether or not the render succeeded.
func (j Job) Run(ctx context.Context, r *Renderer) (string, error) {
	logger := logging.WithContext(ctx, r.logger)
	defer j.removeOverlay(logger)

	if _, err := r.composer.Compose(ctx, j.Intro, j.Lines, j.Font, j.Clip.Orientation, j.Overlay); err != nil {
		return "", err
	}
	logger.Debug("title overlay composed", logging.String("overlay", j.Overlay))

	output, err := r.pipeline.Render(ctx, Inputs{
		Overlay: j.Overlay,
		Clip:    j.Clip.Path,
		Outro:   j.Outro,
		Music:   j.Music,
		Output:  j.Output,
	})
	if err != nil {
		return "", err
	}
	logger.Info("render complete",
		logging.String("output", output),
		logging.String("orientation", string(j.Clip.Orientation)),
	)
	return output, nil
}

func (j Job) removeOverlay(logger *slog.Logger) {
	err := os.Remove(j.Overlay)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return
	}
	logging.WarnWithContext(logger, "failed to remove title overlay", "cleanup_warning",
		logging.String("overlay", j.Overlay),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the file manually"),
		logging.String(logging.FieldImpact, "stale intermediate left in rendered/"),
	)
}
