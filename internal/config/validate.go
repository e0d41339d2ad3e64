package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.NASRoot) == "" {
		return errors.New("paths.nas_root must be set")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return fmt.Errorf("render.crf must be between 0 and 51, got %d", c.Render.CRF)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
		"youtube.chunk_size_mib":        c.YouTube.ChunkSizeMiB,
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Workflow.ClipTimeoutSeconds < 0 {
		return errors.New("workflow.clip_timeout_seconds must be >= 0")
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	if c.Workflow.MinFreeGiB < 0 {
		return errors.New("workflow.min_free_gib must be >= 0")
	}
	return nil
}

// MissingAssets returns the sorted asset keys that have no configured path.
func (c *Config) MissingAssets() []string {
	var missing []string
	for key, value := range c.AssetPaths() {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}

// AssetPaths returns every brand asset keyed by its configuration name.
func (c *Config) AssetPaths() map[string]string {
	return map[string]string{
		"assets.intro_wide":     c.Assets.IntroWide,
		"assets.intro_vertical": c.Assets.IntroVertical,
		"assets.outro_wide":     c.Assets.OutroWide,
		"assets.outro_vertical": c.Assets.OutroVertical,
		"assets.music":          c.Assets.Music,
		"assets.font":           c.Assets.Font,
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
