package render

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"reelforge/internal/media/ffmpeg"
	"reelforge/internal/services"
)

// concatFilter normalises the three video segments to 30 fps square pixels,
// concatenates them, and mixes clip audio with the music bed for the clip's
// length.
const concatFilter = "[0:v:0]fps=30,setsar=1[v0];" +
	"[1:v:0]fps=30,setsar=1[v1];" +
	"[1:a:0]anull[a1];" +
	"[3:v:0]fps=30,setsar=1[v3];" +
	"[v0][v1][v3]concat=n=3:v=1:a=0[outv];" +
	"[a1][2:a:0]amix=inputs=2:duration=first[outa]"

// Settings controls encode quality for the final render.
type Settings struct {
	Preset       string
	CRF          int
	AudioBitrate string
}

func (s Settings) withDefaults() Settings {
	if strings.TrimSpace(s.Preset) == "" {
		s.Preset = "ultrafast"
	}
	if s.CRF <= 0 {
		s.CRF = 23
	}
	if strings.TrimSpace(s.AudioBitrate) == "" {
		s.AudioBitrate = "192k"
	}
	return s
}

// Inputs are the files a render consumes and the path it writes.
type Inputs struct {
	Overlay string
	Clip    string
	Outro   string
	Music   string
	Output  string
}

// Pipeline concatenates overlay, clip and outro into the final video.
type Pipeline struct {
	encoder  ffmpeg.Encoder
	settings Settings
}

// NewPipeline constructs a render pipeline.
func NewPipeline(encoder ffmpeg.Encoder, settings Settings) *Pipeline {
	return &Pipeline{encoder: encoder, settings: settings.withDefaults()}
}

// Render encodes the final video and returns the output path. Every input is
// checked before the encoder runs. The overlay is left in place; a partial
// output is removed when the encode fails.
func (p *Pipeline) Render(ctx context.Context, in Inputs) (string, error) {
	for _, input := range []struct{ asset, path string }{
		{"overlay", in.Overlay},
		{"clip", in.Clip},
		{"outro", in.Outro},
		{"music", in.Music},
	} {
		if err := requireFile(input.asset, input.path); err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(in.Output) == "" {
		return "", services.Wrap(services.ErrEncode, "render", "concat", "output path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(in.Output), 0o755); err != nil {
		return "", services.Wrap(services.ErrEncode, "render", "concat", "create output directory", err)
	}
	if err := p.encoder.Run(ctx, p.spec(in)); err != nil {
		// A failed or cancelled encode leaves a truncated file behind.
		_ = os.Remove(in.Output)
		return "", services.Wrap(services.ErrEncode, "render", "concat", "render montage", err)
	}
	return in.Output, nil
}

func (p *Pipeline) spec(in Inputs) ffmpeg.Spec {
	return ffmpeg.Spec{
		Inputs: []ffmpeg.Input{
			{Path: in.Overlay},
			{Path: in.Clip},
			{Path: in.Music},
			{Path: in.Outro},
		},
		FilterComplex: concatFilter,
		Maps:          []string{"[outv]", "[outa]"},
		OutputArgs: []string{
			"-c:v", "libx264",
			"-preset", p.settings.Preset,
			"-crf", strconv.Itoa(p.settings.CRF),
			"-c:a", "aac",
			"-b:a", p.settings.AudioBitrate,
		},
		Output: in.Output,
	}
}

func requireFile(asset, path string) error {
	if strings.TrimSpace(path) == "" {
		return &MissingAssetError{Asset: asset, Path: path}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &MissingAssetError{Asset: asset, Path: path}
	}
	return nil
}
