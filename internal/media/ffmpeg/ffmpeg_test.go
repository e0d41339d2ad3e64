package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSpecArgs(t *testing.T) {
	spec := Spec{
		Inputs: []Input{
			{Path: "intro.mp4"},
			{Path: "music.mp3", Options: []string{"-stream_loop", "-1"}},
		},
		FilterComplex: "[0:v]null[v]",
		Maps:          []string{"[v]", "1:a"},
		OutputArgs:    []string{"-c:v", "libx264"},
		Output:        "out.mp4",
	}
	want := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", "intro.mp4",
		"-stream_loop", "-1", "-i", "music.mp3",
		"-filter_complex", "[0:v]null[v]",
		"-map", "[v]", "-map", "1:a",
		"-c:v", "libx264",
		"out.mp4",
	}
	if got := spec.Args(); !slices.Equal(got, want) {
		t.Fatalf("Args() = %v\nwant %v", got, want)
	}
}

func TestSpecValidate(t *testing.T) {
	cases := []Spec{
		{Output: "out.mp4"},
		{Inputs: []Input{{Path: " "}}, Output: "out.mp4"},
		{Inputs: []Input{{Path: "a.mp4"}}},
		{Inputs: []Input{{Path: "a.mp4"}}, Output: "o.mp4", Filter: "null", FilterComplex: "null"},
	}
	for i, spec := range cases {
		if err := spec.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestRunnerUsesInjectedCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := NewRunner("").WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})
	spec := Spec{Inputs: []Input{{Path: "a.mp4"}}, Output: "b.mp4"}
	if err := runner.Run(context.Background(), spec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if gotArgs[len(gotArgs)-1] != "b.mp4" {
		t.Fatalf("expected output last, got %v", gotArgs)
	}
}

func TestRunnerRejectsInvalidSpec(t *testing.T) {
	called := false
	runner := NewRunner("ffmpeg").WithCommandRunner(func(context.Context, string, ...string) error {
		called = true
		return nil
	})
	if err := runner.Run(context.Background(), Spec{}); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Fatal("command must not run for an invalid spec")
	}
}

func TestDefaultRunnerReportsExitOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-ffmpeg")
	body := "#!/bin/sh\necho 'Invalid filter graph' >&2\nexit 3\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	runner := NewRunner(script)
	err := runner.Run(context.Background(), Spec{Inputs: []Input{{Path: "a.mp4"}}, Output: "b.mp4"})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if !strings.Contains(exitErr.Error(), "Invalid filter graph") {
		t.Fatalf("expected stderr in error, got %q", exitErr.Error())
	}
}
