package render

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelforge/internal/media/ffmpeg"
	"reelforge/internal/media/ffprobe"
	"reelforge/internal/services"
)

// Prober inspects a media file.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// ProbeWith returns a Prober backed by the given ffprobe binary.
func ProbeWith(binary string) Prober {
	return func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
}

// Thumbnailer extracts a still frame from a rendered video.
type Thumbnailer struct {
	encoder ffmpeg.Encoder
	probe   Prober
}

// NewThumbnailer constructs a thumbnailer.
func NewThumbnailer(encoder ffmpeg.Encoder, probe Prober) *Thumbnailer {
	return &Thumbnailer{encoder: encoder, probe: probe}
}

// ThumbnailPath returns the JPEG path stored alongside video.
func ThumbnailPath(video string) string {
	return strings.TrimSuffix(video, filepath.Ext(video)) + ".jpg"
}

// Extract writes the frame at the video's temporal midpoint, scaled to
// 1280x720, to out.
func (t *Thumbnailer) Extract(ctx context.Context, video, out string) (string, error) {
	if err := requireFile("video", video); err != nil {
		return "", err
	}
	result, err := t.probe(ctx, video)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "thumbnail", "ffprobe", "probe video duration", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", services.Wrap(services.ErrEncode, "thumbnail", "extract", "create output directory", err)
	}
	spec := ffmpeg.Spec{
		Inputs: []ffmpeg.Input{{
			Path:    video,
			Options: []string{"-ss", strconv.FormatFloat(result.Midpoint(), 'f', 3, 64)},
		}},
		Filter:     "scale=1280:720",
		OutputArgs: []string{"-frames:v", "1"},
		Output:     out,
	}
	if err := t.encoder.Run(ctx, spec); err != nil {
		return "", services.Wrap(services.ErrEncode, "thumbnail", "extract", "extract midpoint frame", err)
	}
	return out, nil
}
