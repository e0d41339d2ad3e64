package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelforge/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DEBUG_MODE", "")
	t.Setenv("YT_PLAYLIST_ID_CLIPS", "")
	t.Setenv("YT_PLAYLIST_ID_SHORTS", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantArchive := filepath.Join(tempHome, ".local", "share", "reelforge", "processed")
	if cfg.Paths.ArchiveDir != wantArchive {
		t.Fatalf("unexpected archive dir: got %q want %q", cfg.Paths.ArchiveDir, wantArchive)
	}
	if cfg.YouTube.CategoryID != "20" {
		t.Fatalf("expected gaming category, got %q", cfg.YouTube.CategoryID)
	}
	if cfg.Workflow.Debug {
		t.Fatal("expected debug disabled by default")
	}
	if cfg.Brand.OutputPrefix != "Fortnite-montage" {
		t.Fatalf("unexpected output prefix %q", cfg.Brand.OutputPrefix)
	}
	if len(cfg.Brand.Tags) != 5 {
		t.Fatalf("expected default tags, got %v", cfg.Brand.Tags)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ArchiveDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelforge.toml")

	type payload struct {
		Paths struct {
			NASRoot string `toml:"nas_root"`
		} `toml:"paths"`
		Assets struct {
			Font string `toml:"font"`
		} `toml:"assets"`
		Brand struct {
			Tags []string `toml:"tags"`
		} `toml:"brand"`
		Render struct {
			CRF int `toml:"crf"`
		} `toml:"render"`
	}
	custom := payload{}
	custom.Paths.NASRoot = filepath.Join(tempDir, "nas")
	custom.Assets.Font = filepath.Join(tempDir, "font.otf")
	custom.Brand.Tags = []string{"Fortnite", " fortnite ", "", "Clips"}
	custom.Render.CRF = 18
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.NASRoot != custom.Paths.NASRoot {
		t.Fatalf("expected nas root from file, got %q", cfg.Paths.NASRoot)
	}
	if cfg.Assets.Font != custom.Assets.Font {
		t.Fatalf("expected font from file, got %q", cfg.Assets.Font)
	}
	if got := strings.Join(cfg.Brand.Tags, ","); got != "Fortnite,Clips" {
		t.Fatalf("expected deduplicated tags, got %q", got)
	}
	if cfg.Render.CRF != 18 {
		t.Fatalf("expected crf 18, got %d", cfg.Render.CRF)
	}
	if cfg.Render.Preset != "ultrafast" {
		t.Fatalf("expected default preset to survive partial file, got %q", cfg.Render.Preset)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("YT_PLAYLIST_ID_CLIPS", "PL-wide")
	t.Setenv("YT_PLAYLIST_ID_SHORTS", "PL-shorts")
	t.Setenv("DEBUG_MODE", "true")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-openai" {
		t.Errorf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.PlaylistFor(false) != "PL-wide" {
		t.Errorf("expected wide playlist from env, got %q", cfg.PlaylistFor(false))
	}
	if cfg.PlaylistFor(true) != "PL-shorts" {
		t.Errorf("expected vertical playlist from env, got %q", cfg.PlaylistFor(true))
	}
	if !cfg.Workflow.Debug {
		t.Error("expected DEBUG_MODE=true to enable debug")
	}
}

func TestFileValuesWinOverEnvFallbacks(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelforge.toml")
	contents := "[llm]\napi_key = \"file-key\"\n[youtube]\nplaylist_wide = \"PL-file\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("YT_PLAYLIST_ID_CLIPS", "PL-env")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Errorf("expected file key, got %q", cfg.LLM.APIKey)
	}
	if cfg.YouTube.PlaylistWide != "PL-file" {
		t.Errorf("expected file playlist, got %q", cfg.YouTube.PlaylistWide)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.YouTube.CategoryID != "20" {
		t.Fatalf("expected sample category 20, got %q", cfg.YouTube.CategoryID)
	}
	if !strings.Contains(cfg.Assets.IntroWide, "intro-wide") {
		t.Fatalf("expected sample intro path, got %q", cfg.Assets.IntroWide)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.NASRoot = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing nas root")
	}

	cfg = config.Default()
	cfg.Render.CRF = 60
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range crf")
	}

	cfg = config.Default()
	cfg.Notifications.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive notification timeout")
	}

	cfg = config.Default()
	cfg.Workflow.ClipTimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative clip timeout")
	}
}

func TestAssetSelectionByOrientation(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.IntroWide = "/a/intro-wide.mp4"
	cfg.Assets.IntroVertical = "/a/intro-vert.mp4"
	cfg.Assets.OutroWide = "/a/outro-wide.mp4"
	cfg.Assets.OutroVertical = "/a/outro-vert.mp4"

	if cfg.IntroFor(true) != "/a/intro-vert.mp4" || cfg.IntroFor(false) != "/a/intro-wide.mp4" {
		t.Fatal("intro selection mismatch")
	}
	if cfg.OutroFor(true) != "/a/outro-vert.mp4" || cfg.OutroFor(false) != "/a/outro-wide.mp4" {
		t.Fatal("outro selection mismatch")
	}
	missing := cfg.MissingAssets()
	if len(missing) != 2 {
		t.Fatalf("expected music and font missing, got %v", missing)
	}
}
