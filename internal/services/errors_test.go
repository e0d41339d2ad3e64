package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelforge/internal/history"
	"reelforge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrEncode, "render", "overlay", "ffmpeg exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrEncode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"render", "overlay", "ffmpeg exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	unarchived := services.Wrap(services.ErrUnarchived, "publish", "persist", "archive write failed", errors.New("disk full"))
	if status := services.FailureStatus(unarchived); status != history.StatusUnarchived {
		t.Fatalf("expected unarchived status, got %s", status)
	}

	uploadErr := services.Wrap(services.ErrUpload, "publish", "upload", "quota", nil)
	if status := services.FailureStatus(uploadErr); status != history.StatusFailed {
		t.Fatalf("expected failed for upload error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != history.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"auth", services.Wrap(services.ErrAuthentication, "publish", "authenticate", "", nil), "authentication"},
		{"wrapped twice", fmt.Errorf("clip: %w", services.Wrap(services.ErrMetadataNotFound, "", "", "", nil)), "metadata_not_found"},
		{"deadline", context.DeadlineExceeded, "unknown"},
		{"plain", errors.New("x"), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Reason(tc.err); got != tc.want {
				t.Fatalf("Reason() = %q, want %q", got, tc.want)
			}
		})
	}
}
