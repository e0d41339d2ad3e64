package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	NASRoot    string `toml:"nas_root"`
	ArchiveDir string `toml:"archive_dir"`
	LogDir     string `toml:"log_dir"`
}

// Assets lists the fixed brand media composed around every clip.
type Assets struct {
	IntroWide     string `toml:"intro_wide"`
	IntroVertical string `toml:"intro_vertical"`
	OutroWide     string `toml:"outro_wide"`
	OutroVertical string `toml:"outro_vertical"`
	Music         string `toml:"music"`
	Font          string `toml:"font"`
}

// Brand contains naming and text conventions for published videos.
type Brand struct {
	OutputPrefix        string   `toml:"output_prefix"`
	OverlayTitle        string   `toml:"overlay_title"`
	OverlaySubtitle     string   `toml:"overlay_subtitle"`
	TitlePrefix         string   `toml:"title_prefix"`
	Tags                []string `toml:"tags"`
	FallbackDescription string   `toml:"fallback_description"`
}

// Render contains encoder settings.
type Render struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	Preset        string `toml:"preset"`
	CRF           int    `toml:"crf"`
	AudioBitrate  string `toml:"audio_bitrate"`
}

// YouTube contains upload target settings. OAuth tokens are minted outside
// reelforge; only the cached token file is read here.
type YouTube struct {
	ClientSecretsPath string `toml:"client_secrets_path"`
	TokenPath         string `toml:"token_path"`
	PlaylistWide      string `toml:"playlist_wide"`
	PlaylistVertical  string `toml:"playlist_vertical"`
	CategoryID        string `toml:"category_id"`
	ChunkSizeMiB      int    `toml:"chunk_size_mib"`
}

// LLM contains connection settings for description generation.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Workflow contains batch behaviour switches.
type Workflow struct {
	// Debug uploads as private and keeps source sessions on disk.
	Debug              bool `toml:"debug"`
	ClipTimeoutSeconds int  `toml:"clip_timeout_seconds"`
	MinFreeGiB         int  `toml:"min_free_gib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Metrics contains the optional Prometheus textfile destination.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
}

// Config encapsulates all configuration values for reelforge.
//
// Configuration sections by subsystem:
//   - Paths: NAS mount, metadata archive, logs
//   - Assets: intro/outro per orientation, music, font
//   - Brand: output naming, overlay text, title and tag conventions
//   - Render: ffmpeg/ffprobe binaries and encode quality
//   - YouTube: token files, playlists, category
//   - LLM: description generation endpoint
//   - Notifications: ntfy push notification settings
//   - Workflow: debug mode, per-clip timeout, free space floor
//   - Logging: log format and level
//   - Metrics: Prometheus textfile output
type Config struct {
	Paths         Paths         `toml:"paths"`
	Assets        Assets        `toml:"assets"`
	Brand         Brand         `toml:"brand"`
	Render        Render        `toml:"render"`
	YouTube       YouTube       `toml:"youtube"`
	LLM           LLM           `toml:"llm"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
	Metrics       Metrics       `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories reelforge writes to. The NAS root
// is never created; a missing mount must surface as a discovery error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ArchiveDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IntroFor returns the intro asset for the orientation.
func (c *Config) IntroFor(vertical bool) string {
	if vertical {
		return c.Assets.IntroVertical
	}
	return c.Assets.IntroWide
}

// OutroFor returns the outro asset for the orientation.
func (c *Config) OutroFor(vertical bool) string {
	if vertical {
		return c.Assets.OutroVertical
	}
	return c.Assets.OutroWide
}

// PlaylistFor returns the playlist configured for the orientation, or "".
func (c *Config) PlaylistFor(vertical bool) string {
	if vertical {
		return c.YouTube.PlaylistVertical
	}
	return c.YouTube.PlaylistWide
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
