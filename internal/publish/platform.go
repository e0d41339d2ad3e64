package publish

import (
	"context"
	"strings"
)

// Privacy values accepted by the platform.
const (
	PrivacyPrivate = "private"
	PrivacyPublic  = "public"
)

// Upload describes one video upload.
type Upload struct {
	Path        string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// Platform is the video host.
type Platform interface {
	Authenticate(ctx context.Context) error
	// Upload transfers the file and returns the new video id.
	Upload(ctx context.Context, upload Upload) (string, error)
	SetThumbnail(ctx context.Context, videoID, imagePath string) error
	AddToPlaylist(ctx context.Context, playlistID, videoID string) error
	// SetRecordingDate sets the recording date, formatted YYYY-MM-DDT00:00:00Z.
	SetRecordingDate(ctx context.Context, videoID, recordingDate string) error
}

// PrivacyFor returns the privacy status for an upload.
func PrivacyFor(debug bool) string {
	if debug {
		return PrivacyPrivate
	}
	return PrivacyPublic
}

// VideoURL returns the short share link for a video id.
func VideoURL(videoID string) string {
	return "https://youtu.be/" + strings.TrimSpace(videoID)
}
