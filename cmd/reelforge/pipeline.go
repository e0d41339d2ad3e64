package main

import (
	"fmt"
	"log/slog"
	"time"

	"reelforge/internal/config"
	"reelforge/internal/history"
	"reelforge/internal/media/ffmpeg"
	"reelforge/internal/metadata"
	"reelforge/internal/publish"
	"reelforge/internal/render"
	"reelforge/internal/services/llm"
	"reelforge/internal/services/youtube"
)

// pipeline holds the production collaborators shared by run and publish.
type pipeline struct {
	renderer     *render.Renderer
	orchestrator *publish.Orchestrator
	store        *history.Store
}

func newRenderer(cfg *config.Config, logger *slog.Logger) (*render.Renderer, *ffmpeg.Runner) {
	encoder := ffmpeg.NewRunner(cfg.Render.FFmpegBinary)
	return render.NewRenderer(cfg, encoder, logger), encoder
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	renderer, encoder := newRenderer(cfg, logger)
	thumbnails := render.NewThumbnailer(encoder, render.ProbeWith(cfg.Render.FFprobeBinary))
	platform := youtube.New(cfg.YouTube, logger)
	orchestrator := publish.NewOrchestrator(cfg, platform, descriptionSource(cfg), thumbnails,
		metadata.NewArchive(cfg.Paths.ArchiveDir), logger)

	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &pipeline{
		renderer:     renderer,
		orchestrator: orchestrator,
		store:        store,
	}, nil
}

// descriptionSource returns nil when no API key is configured so uploads use
// the fallback description without attempting a request.
func descriptionSource(cfg *config.Config) publish.DescriptionSource {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	if !client.Configured() {
		return nil
	}
	return publish.NewGeneratedDescriptions(client)
}

func (p *pipeline) Close() error {
	if p == nil {
		return nil
	}
	return p.store.Close()
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
