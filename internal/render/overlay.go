package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reelforge/internal/media/ffmpeg"
	"reelforge/internal/services"
	"reelforge/internal/session"
)

// OverlayName is the intermediate intro segment written next to the render output.
const OverlayName = "intro_with_title.mp4"

const (
	overlaySeconds   = 5
	fadeStartSeconds = 4.5
	fadeSeconds      = 0.5
	overlayFontSize  = 64
	overlayFontColor = "#f7338f"
	overlayShadow    = "0x1c0c38"
	overlayBoxColor  = "0x10abba@0.5"
)

var lineOffsets = [3]int{0, 80, 160}

// Dimensions returns the frame size for an orientation.
func Dimensions(orientation session.Orientation) (int, int) {
	if orientation.IsVertical() {
		return 1080, 1920
	}
	return 1920, 1080
}

// OverlayComposer burns title text onto the intro asset.
type OverlayComposer struct {
	encoder ffmpeg.Encoder
	preset  string
}

// NewOverlayComposer constructs a composer. An empty preset means "ultrafast".
func NewOverlayComposer(encoder ffmpeg.Encoder, preset string) *OverlayComposer {
	preset = strings.TrimSpace(preset)
	if preset == "" {
		preset = "ultrafast"
	}
	return &OverlayComposer{encoder: encoder, preset: preset}
}

// Compose writes a 5-second H.264 segment of intro with lines centred on it
// and returns out.
func (c *OverlayComposer) Compose(ctx context.Context, intro string, lines [3]string, font string, orientation session.Orientation, out string) (string, error) {
	for _, input := range []struct{ asset, path string }{{"intro", intro}, {"font", font}} {
		if err := requireFile(input.asset, input.path); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", services.Wrap(services.ErrEncode, "render", "overlay", "create output directory", err)
	}
	spec := ffmpeg.Spec{
		Inputs: []ffmpeg.Input{{Path: intro}},
		Filter: OverlayFilter(lines, font, orientation),
		OutputArgs: []string{
			"-c:v", "libx264",
			"-preset", c.preset,
			"-t", fmt.Sprint(overlaySeconds),
			"-pix_fmt", "yuv420p",
		},
		Output: out,
	}
	if err := c.encoder.Run(ctx, spec); err != nil {
		return "", services.Wrap(services.ErrEncode, "render", "overlay", "compose title overlay", err)
	}
	return out, nil
}

// OverlayFilter builds the -vf chain: scale and pad to the orientation's
// frame, one drawtext per line, then an alpha fade over the last half second.
func OverlayFilter(lines [3]string, font string, orientation session.Orientation) string {
	width, height := Dimensions(orientation)
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
	}
	fontPath := escapeFilterValue(font)
	for i, line := range lines {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text=%s:fontfile=%s:expansion=none:x=(w-text_w)/2:y=(h/2)-90+%d:fontsize=%d:fontcolor=%s:shadowcolor=%s:shadowx=2:shadowy=2:box=1:boxcolor=%s",
			escapeFilterValue(line), fontPath, lineOffsets[i], overlayFontSize, overlayFontColor, overlayShadow, overlayBoxColor,
		))
	}
	filters = append(filters, fmt.Sprintf("fade=t=out:st=%g:d=%g:alpha=1", fadeStartSeconds, fadeSeconds))
	return strings.Join(filters, ",")
}

// OverlayLines returns the three title lines drawn on the intro.
func OverlayLines(title, subtitle string, sess session.Session) [3]string {
	return [3]string{title, subtitle, sess.OverlayDate()}
}

// Option values are unquoted and escaped twice: once for the filter's
// key=value parser and once for the filtergraph parser, which strips quotes
// and backslashes before the filter sees its arguments. expansion=none keeps
// drawtext from interpreting % sequences.
var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

func escapeFilterValue(value string) string {
	return graphEscaper.Replace(optionEscaper.Replace(strings.TrimSpace(value)))
}
