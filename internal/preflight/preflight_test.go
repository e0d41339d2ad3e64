package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelforge/internal/config"
	"reelforge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "intro.mp4")
	testsupport.WriteFile(t, file, 8)

	tests := []struct {
		name   string
		path   string
		passed bool
		detail string
	}{
		{name: "regular file", path: file, passed: true},
		{name: "empty path", path: "  ", detail: "not configured"},
		{name: "missing", path: filepath.Join(dir, "gone.mp4"), detail: "does not exist"},
		{name: "directory", path: dir, detail: "not a regular file"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckRegularFile("asset", tc.path)
			if result.Passed != tc.passed {
				t.Fatalf("passed = %v, want %v (%s)", result.Passed, tc.passed, result.Detail)
			}
			if tc.detail != "" && !strings.Contains(result.Detail, tc.detail) {
				t.Fatalf("detail %q missing %q", result.Detail, tc.detail)
			}
		})
	}
}

func TestCheckAssetsSortedAndComplete(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAssets())
	if err := os.Remove(cfg.Assets.Font); err != nil {
		t.Fatal(err)
	}

	results := CheckAssets(cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 asset results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Name > results[i].Name {
			t.Fatalf("results not sorted: %q before %q", results[i-1].Name, results[i].Name)
		}
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "assets.font" {
		t.Fatalf("expected only assets.font to fail, got %+v", failed)
	}
}

func TestCheckBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	results := CheckBinaries(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}

	cfg.Render.FFprobeBinary = "reelforge-missing-ffprobe"
	results = CheckBinaries(cfg)
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "FFprobe" {
		t.Fatalf("expected FFprobe failure, got %+v", failed)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 0); !result.Passed {
		t.Fatalf("expected pass with zero minimum, got %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<40); result.Passed {
		t.Fatalf("expected failure for an exabyte minimum, got %s", result.Detail)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckLLM_DisabledPasses(t *testing.T) {
	result := CheckLLM(context.Background(), config.LLM{})
	if !result.Passed {
		t.Fatalf("expected pass without api key, got %s", result.Detail)
	}
}

func TestCheckLLM_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "demo",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "pong"},
			}},
		})
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), config.LLM{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "demo"})
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
}

func TestCheckLLM_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), config.LLM{APIKey: "bad", BaseURL: srv.URL + "/v1", Model: "demo"})
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAssets(), testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	// six assets, two binaries, NAS root, archive directory
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesFreeSpaceWhenConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAssets(), testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	cfg.Workflow.MinFreeGiB = 1 << 30

	results := RunAll(context.Background(), cfg)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "NAS free space" {
		t.Fatalf("expected free space failure, got %+v", failed)
	}
}
