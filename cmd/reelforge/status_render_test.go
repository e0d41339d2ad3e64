package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"reelforge/internal/workflow"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "ffmpeg", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestPrintRunSummary(t *testing.T) {
	var out bytes.Buffer
	printRunSummary(&out, workflow.Summary{
		RunID:      "run-1",
		Discovered: 4,
		Published:  2,
		Failed:     1,
		Skipped:    1,
		Duration:   95 * time.Second,
	}, "/logs/reelforge-1.log", false)

	text := out.String()
	for _, want := range []string{"== Batch ==", "run-1", "4 clip(s)", "[ERROR] 1", "Already archived", "1m35s", "/logs/reelforge-1.log"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q\n%s", want, text)
		}
	}
}

func TestRenderTableWrapsColumn(t *testing.T) {
	long := strings.Repeat("word ", 30)
	out := renderTable([]string{"Clip", "Result"}, [][]string{{"a", long}, {"b"}}, []columnAlignment{alignLeft, alignRight}, withMaxWidth(1, 20))
	if !strings.Contains(out, "CLIP") || !strings.Contains(out, "RESULT") {
		t.Fatalf("missing headers\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 40 {
			t.Fatalf("expected wrapped rows, got line %q", line)
		}
	}
}
