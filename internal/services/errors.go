package services

import (
	"errors"
	"fmt"
	"strings"

	"reelforge/internal/history"
)

var (
	ErrInvalidSessionFormat = errors.New("invalid session format")
	ErrNotADirectory        = errors.New("not a directory")
	ErrNotesParse           = errors.New("notes parse error")
	ErrMissingAsset         = errors.New("missing asset")
	ErrEncode               = errors.New("encode failed")
	ErrMetadataNotFound     = errors.New("metadata not found")
	ErrInvalidMetadata      = errors.New("invalid metadata")
	ErrPersistence          = errors.New("persistence failure")
	ErrUpload               = errors.New("upload failed")
	ErrAuthentication       = errors.New("authentication failed")
	ErrUnarchived           = errors.New("published but unarchived")
	ErrExternalTool         = errors.New("external tool error")
	ErrConfiguration        = errors.New("configuration error")
	ErrTimeout              = errors.New("timeout")
	ErrTransient            = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a per-clip error to the history status recorded for it.
// A clip that reached the platform but could not be archived stays distinct
// from an ordinary failure so the operator can repair the archive by hand.
func FailureStatus(err error) history.Status {
	if errors.Is(err, ErrUnarchived) {
		return history.StatusUnarchived
	}
	return history.StatusFailed
}

// Reason returns a short, stable label for the marker carried by err. It is
// used as a metrics label and in notification tags.
func Reason(err error) string {
	markers := []struct {
		marker error
		label  string
	}{
		{ErrUnarchived, "unarchived"},
		{ErrAuthentication, "authentication"},
		{ErrMetadataNotFound, "metadata_not_found"},
		{ErrInvalidMetadata, "invalid_metadata"},
		{ErrPersistence, "persistence"},
		{ErrUpload, "upload"},
		{ErrMissingAsset, "missing_asset"},
		{ErrEncode, "encode"},
		{ErrNotesParse, "notes_parse"},
		{ErrInvalidSessionFormat, "invalid_session"},
		{ErrNotADirectory, "not_a_directory"},
		{ErrTimeout, "timeout"},
		{ErrConfiguration, "configuration"},
		{ErrExternalTool, "external_tool"},
	}
	for _, m := range markers {
		if errors.Is(err, m.marker) {
			return m.label
		}
	}
	if err == nil {
		return ""
	}
	return "unknown"
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
