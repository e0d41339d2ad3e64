package publish

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"reelforge/internal/metadata"
	"reelforge/internal/session"
)

// DescriptionSource writes the video description for a session.
type DescriptionSource interface {
	Describe(ctx context.Context, meta metadata.SessionMetadata, orientation session.Orientation) (string, error)
}

// Completer is a chat completion backend.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const copywriterPrompt = "You are a creative and humorous copywriter."

const montagePrompt = `You are a branding-savvy copywriter helping a YouTube gaming channel called "Llama Chile Shop"
run by a quirky and beloved senior gamer named "Gramps." Gramps is known for his calm demeanor,
sharp shooting, and whacky senile playstyle in Solo Zero Build Fortnite matches. His fans refer
to him as "Cool-Hand Gramps" because his heart rate doesn't rise, even in intense firefights.

Write a YouTube video description for a highlight montage from one of Gramps' livestreams.
Make it short, funny, and on-brand. Include emoticons and hashtags. Add a sentence encouraging viewers
to subscribe and check out the stream calendar.

Entropy seed: %d`

const highlightPrompt = `Write a fun, engaging YouTube description for a Fortnite %s video from %s. ` +
	`Include light humor, emoticons, a call to subscribe, and relevant hashtags. ` +
	`Include reference to the host, Gramps, and his whacky senile playstyle in solo zero build gameplay.`

// GeneratedDescriptions asks a language model for descriptions. Sessions the
// operator annotated get a prompt built from the highlight and notes.txt, and
// fall back to the generic montage prompt when that request fails. Everything
// else gets the montage prompt with a random seed.
type GeneratedDescriptions struct {
	client Completer
	seed   func() int
}

// NewGeneratedDescriptions wraps a completion client.
func NewGeneratedDescriptions(client Completer) *GeneratedDescriptions {
	return &GeneratedDescriptions{
		client: client,
		seed:   func() int { return rand.IntN(1_000_000) },
	}
}

// Describe implements DescriptionSource.
func (g *GeneratedDescriptions) Describe(ctx context.Context, meta metadata.SessionMetadata, orientation session.Orientation) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("description generator not configured")
	}
	var highlightErr error
	if meta.HasCustomHighlight() {
		text, err := g.complete(ctx, HighlightPrompt(meta, orientation))
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		highlightErr = fmt.Errorf("highlight description: %w", err)
	}
	text, err := g.complete(ctx, fmt.Sprintf(montagePrompt, g.seed()))
	if err != nil {
		return "", errors.Join(highlightErr, fmt.Errorf("montage description: %w", err))
	}
	return text, nil
}

func (g *GeneratedDescriptions) complete(ctx context.Context, prompt string) (string, error) {
	text, err := g.client.Complete(ctx, copywriterPrompt, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

// HighlightPrompt builds the prompt for an annotated session.
func HighlightPrompt(meta metadata.SessionMetadata, orientation session.Orientation) string {
	videoType := "highlight"
	if orientation.IsVertical() {
		videoType = "Shorts"
	}
	prompt := fmt.Sprintf(highlightPrompt, videoType, meta.Session.DisplayDate())

	var extra []string
	if meta.Highlight != "" && meta.Highlight != metadata.DefaultHighlight {
		extra = append(extra, "Highlight: "+meta.Highlight)
	}
	if text := strings.TrimSpace(meta.NotesText); text != "" {
		extra = append(extra, text)
	}
	if len(extra) == 0 {
		return prompt
	}
	return prompt + "\n\nAdditional context:\n" + strings.Join(extra, "\n")
}
