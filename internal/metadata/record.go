package metadata

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"reelforge/internal/services"
	"reelforge/internal/session"
)

// DefaultHighlight is used when notes carry no highlight.
const DefaultHighlight = "Fortnite highlight moment"

// ClipMetadata describes one clip of a session.
type ClipMetadata struct {
	Path         string   `json:"path"`
	Filename     string   `json:"filename"`
	Stem         string   `json:"stem"`
	Format       string   `json:"format"`
	ClipType     string   `json:"clip_type"`
	Orientation  string   `json:"orientation"`
	YouTubeURLs  []string `json:"youtube_urls"`
	PeerTubeURLs []string `json:"peertube_urls"`
}

// SessionMetadata is the derived, pre-publish view of a session.
type SessionMetadata struct {
	SessionDate   string         `json:"session_date"`
	SessionNumber int            `json:"session_number"`
	Highlight     string         `json:"highlight"`
	Tags          []string       `json:"tags"`
	Notes         map[string]any `json:"notes"`
	Clips         []ClipMetadata `json:"clips"`

	// NotesText is the free text from notes.txt; it feeds description
	// generation and is not persisted.
	NotesText string          `json:"-"`
	Session   session.Session `json:"-"`
}

// HasCustomHighlight reports whether the operator described the session,
// either with a non-default highlight or a notes.txt file.
func (m SessionMetadata) HasCustomHighlight() bool {
	return (m.Highlight != "" && m.Highlight != DefaultHighlight) || m.NotesText != ""
}

// Clip finds the clip with the given stem.
func (m SessionMetadata) Clip(stem string) (ClipMetadata, bool) {
	for _, clip := range m.Clips {
		if clip.Stem == stem {
			return clip, true
		}
	}
	return ClipMetadata{}, false
}

// Record is the finalized per-clip document written to the archive.
type Record struct {
	SessionDate   string         `json:"session_date"`
	SessionNumber int            `json:"session_number"`
	Highlight     string         `json:"highlight"`
	Tags          []string       `json:"tags"`
	Notes         map[string]any `json:"notes"`
	Clips         []ClipMetadata `json:"clips"`
	YouTubeURLs   []string       `json:"youtube_urls"`
	Filename      string         `json:"filename,omitempty"`
	Stem          string         `json:"stem,omitempty"`
	Format        string         `json:"format,omitempty"`
	ClipType      string         `json:"clip_type,omitempty"`
	Orientation   string         `json:"orientation,omitempty"`
	Title         string         `json:"title,omitempty"`
	RenderedFile  string         `json:"rendered_file,omitempty"`
	PublishedAt   string         `json:"published_at,omitempty"`
}

// Validate checks the fields Persist relies on.
func (r Record) Validate() error {
	if strings.TrimSpace(r.SessionDate) == "" {
		return services.Wrap(services.ErrInvalidMetadata, "metadata", "validate record", "session_date is required", nil)
	}
	if r.archiveStem() == "" {
		return services.Wrap(services.ErrInvalidMetadata, "metadata", "validate record", "filename or stem is required", nil)
	}
	return nil
}

// normalized returns a copy whose list and object fields encode as [] and {}
// rather than null.
func (r Record) normalized() Record {
	r.Tags = nonNil(r.Tags)
	r.YouTubeURLs = nonNil(r.YouTubeURLs)
	if r.Notes == nil {
		r.Notes = map[string]any{}
	}
	clips := make([]ClipMetadata, len(r.Clips))
	for i, clip := range r.Clips {
		clip.YouTubeURLs = nonNil(clip.YouTubeURLs)
		clip.PeerTubeURLs = nonNil(clip.PeerTubeURLs)
		clips[i] = clip
	}
	r.Clips = clips
	return r
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func (r Record) archiveStem() string {
	if stem := strings.TrimSpace(r.Stem); stem != "" {
		return stem
	}
	if name := strings.TrimSpace(r.Filename); name != "" {
		return session.Stem(name)
	}
	return ""
}

// Publication carries the outcome of an upload for NewRecord.
type Publication struct {
	Title        string
	VideoURL     string
	RenderedFile string
	PublishedAt  time.Time
}

// NewRecord builds the archive record for one published clip. The clip's
// entry in the clips list receives the new video URL as well.
func (m SessionMetadata) NewRecord(clip ClipMetadata, pub Publication) Record {
	clips := make([]ClipMetadata, len(m.Clips))
	for i, entry := range m.Clips {
		entry.YouTubeURLs = slices.Clone(entry.YouTubeURLs)
		entry.PeerTubeURLs = slices.Clone(entry.PeerTubeURLs)
		if entry.Stem == clip.Stem && pub.VideoURL != "" && !slices.Contains(entry.YouTubeURLs, pub.VideoURL) {
			entry.YouTubeURLs = append(entry.YouTubeURLs, pub.VideoURL)
		}
		clips[i] = entry
	}
	urls := []string{}
	if pub.VideoURL != "" {
		urls = append(urls, pub.VideoURL)
	}
	publishedAt := ""
	if !pub.PublishedAt.IsZero() {
		publishedAt = pub.PublishedAt.UTC().Format(time.RFC3339)
	}
	rendered := ""
	if pub.RenderedFile != "" {
		rendered = filepath.Base(pub.RenderedFile)
	}
	return Record{
		SessionDate:   m.SessionDate,
		SessionNumber: m.SessionNumber,
		Highlight:     m.Highlight,
		Tags:          slices.Clone(m.Tags),
		Notes:         m.Notes,
		Clips:         clips,
		YouTubeURLs:   urls,
		Filename:      clip.Filename,
		Stem:          clip.Stem,
		Format:        clip.Format,
		ClipType:      clip.ClipType,
		Orientation:   clip.Orientation,
		Title:         pub.Title,
		RenderedFile:  rendered,
		PublishedAt:   publishedAt,
	}
}

func clipMetadata(clip session.Clip) ClipMetadata {
	return ClipMetadata{
		Path:         clip.Path,
		Filename:     clip.Filename(),
		Stem:         clip.Stem,
		Format:       clip.Format(),
		ClipType:     string(clip.Type),
		Orientation:  string(clip.Orientation),
		YouTubeURLs:  []string{},
		PeerTubeURLs: []string{},
	}
}
