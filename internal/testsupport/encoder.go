package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"reelforge/internal/media/ffmpeg"
)

// FakeEncoder records every spec it receives and writes a placeholder output
// file so downstream stages find a real path.
type FakeEncoder struct {
	mu    sync.Mutex
	Specs []ffmpeg.Spec
	// Fail, when set, decides whether a spec should fail and with which error.
	Fail func(spec ffmpeg.Spec) error
}

// Run implements ffmpeg.Encoder.
func (f *FakeEncoder) Run(_ context.Context, spec ffmpeg.Spec) error {
	f.mu.Lock()
	f.Specs = append(f.Specs, spec)
	fail := f.Fail
	f.mu.Unlock()

	if fail != nil {
		if err := fail(spec); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(spec.Output), 0o755); err != nil {
		return err
	}
	return os.WriteFile(spec.Output, []byte("encoded"), 0o644)
}

// Calls returns a snapshot of recorded specs.
func (f *FakeEncoder) Calls() []ffmpeg.Spec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ffmpeg.Spec(nil), f.Specs...)
}
