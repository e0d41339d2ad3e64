package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The NAS root is created empty; brand assets are configured but not written
// unless WithAssets is supplied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.NASRoot = filepath.Join(base, "nas")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "processed")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	assetDir := filepath.Join(base, "assets")
	cfgVal.Assets = config.Assets{
		IntroWide:     filepath.Join(assetDir, "intro-wide.mp4"),
		IntroVertical: filepath.Join(assetDir, "intro-vert.mp4"),
		OutroWide:     filepath.Join(assetDir, "outro-wide.mp4"),
		OutroVertical: filepath.Join(assetDir, "outro-vert.mp4"),
		Music:         filepath.Join(assetDir, "music.mp3"),
		Font:          filepath.Join(assetDir, "font.otf"),
	}
	cfgVal.YouTube.ClientSecretsPath = filepath.Join(base, "client_secrets.json")
	cfgVal.YouTube.TokenPath = filepath.Join(base, "token.json")

	if err := os.MkdirAll(cfgVal.Paths.NASRoot, 0o755); err != nil {
		t.Fatalf("mkdir nas root: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAssets writes a small placeholder file for every configured brand asset.
func WithAssets() ConfigOption {
	return func(b *configBuilder) {
		for _, path := range b.cfg.AssetPaths() {
			WriteFile(b.t, path, 16)
		}
	}
}

// WithDebug toggles debug mode on the test config.
func WithDebug(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Debug = enabled
	}
}

// WithPlaylists sets the wide and vertical playlist identifiers.
func WithPlaylists(wide, vertical string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.PlaylistWide = wide
		b.cfg.YouTube.PlaylistVertical = vertical
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.NASRoot)
}
