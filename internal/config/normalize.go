package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssets(); err != nil {
		return err
	}
	c.normalizeBrand()
	c.normalizeRender()
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeNotifications()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.NASRoot, err = expandPath(strings.TrimSpace(c.Paths.NASRoot)); err != nil {
		return fmt.Errorf("paths.nas_root: %w", err)
	}
	if c.Paths.ArchiveDir, err = expandPath(strings.TrimSpace(c.Paths.ArchiveDir)); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssets() error {
	fields := []struct {
		key   string
		value *string
	}{
		{"assets.intro_wide", &c.Assets.IntroWide},
		{"assets.intro_vertical", &c.Assets.IntroVertical},
		{"assets.outro_wide", &c.Assets.OutroWide},
		{"assets.outro_vertical", &c.Assets.OutroVertical},
		{"assets.music", &c.Assets.Music},
		{"assets.font", &c.Assets.Font},
	}
	for _, field := range fields {
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeBrand() {
	c.Brand.OutputPrefix = strings.TrimSpace(c.Brand.OutputPrefix)
	if c.Brand.OutputPrefix == "" {
		c.Brand.OutputPrefix = defaultOutputPrefix
	}
	c.Brand.OverlayTitle = strings.TrimSpace(c.Brand.OverlayTitle)
	c.Brand.OverlaySubtitle = strings.TrimSpace(c.Brand.OverlaySubtitle)
	c.Brand.TitlePrefix = strings.TrimSpace(c.Brand.TitlePrefix)
	if c.Brand.TitlePrefix == "" {
		c.Brand.TitlePrefix = defaultTitlePrefix
	}
	c.Brand.FallbackDescription = strings.TrimSpace(c.Brand.FallbackDescription)
	if c.Brand.FallbackDescription == "" {
		c.Brand.FallbackDescription = defaultFallbackDescription
	}
	tags := make([]string, 0, len(c.Brand.Tags))
	seen := make(map[string]struct{}, len(c.Brand.Tags))
	for _, tag := range c.Brand.Tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, trimmed)
	}
	c.Brand.Tags = tags
}

func (c *Config) normalizeRender() {
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}
	c.Render.Preset = strings.ToLower(strings.TrimSpace(c.Render.Preset))
	if c.Render.Preset == "" {
		c.Render.Preset = defaultRenderPreset
	}
	c.Render.AudioBitrate = strings.TrimSpace(c.Render.AudioBitrate)
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeYouTube() error {
	var err error
	if c.YouTube.ClientSecretsPath, err = expandPath(strings.TrimSpace(c.YouTube.ClientSecretsPath)); err != nil {
		return fmt.Errorf("youtube.client_secrets_path: %w", err)
	}
	if c.YouTube.TokenPath, err = expandPath(strings.TrimSpace(c.YouTube.TokenPath)); err != nil {
		return fmt.Errorf("youtube.token_path: %w", err)
	}
	c.YouTube.PlaylistWide = strings.TrimSpace(c.YouTube.PlaylistWide)
	if c.YouTube.PlaylistWide == "" {
		if value, ok := os.LookupEnv("YT_PLAYLIST_ID_CLIPS"); ok {
			c.YouTube.PlaylistWide = strings.TrimSpace(value)
		}
	}
	c.YouTube.PlaylistVertical = strings.TrimSpace(c.YouTube.PlaylistVertical)
	if c.YouTube.PlaylistVertical == "" {
		if value, ok := os.LookupEnv("YT_PLAYLIST_ID_SHORTS"); ok {
			c.YouTube.PlaylistVertical = strings.TrimSpace(value)
		}
	}
	c.YouTube.CategoryID = strings.TrimSpace(c.YouTube.CategoryID)
	if c.YouTube.CategoryID == "" {
		c.YouTube.CategoryID = defaultCategoryID
	}
	if c.YouTube.ChunkSizeMiB <= 0 {
		c.YouTube.ChunkSizeMiB = defaultChunkSizeMiB
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeWorkflow() {
	if value, ok := os.LookupEnv("DEBUG_MODE"); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil && parsed {
			c.Workflow.Debug = true
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}
