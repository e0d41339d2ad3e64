package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelforge/internal/config"
)

const (
	userAgent    = "reelforge/0.1.0"
	defaultHost  = "https://ntfy.sh/"
	titlePrefix  = "Reelforge"
	maxErrorBody = 2048
)

// BatchSummary is the outcome of a batch run.
type BatchSummary struct {
	Published  int
	Failed     int
	Unarchived int
	Duration   time.Duration
}

// Service defines the notification surface exposed to the workflow.
type Service interface {
	NotifyPublished(ctx context.Context, title, videoURL string) error
	NotifyUnarchived(ctx context.Context, clip, videoURL string) error
	NotifyClipFailed(ctx context.Context, clip, stage string, err error) error
	NotifyBatchCompleted(ctx context.Context, summary BatchSummary) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// A bare topic name is published to ntfy.sh.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		topic = defaultHost + strings.TrimPrefix(topic, "/")
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
	click    string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyPublished(ctx context.Context, title, videoURL string) error {
	return n.send(ctx, payload{
		title:   titlePrefix + " - Published",
		message: fmt.Sprintf("📺 %s\n%s", strings.TrimSpace(title), strings.TrimSpace(videoURL)),
		tags:    []string{"reelforge", "publish", "completed"},
		click:   strings.TrimSpace(videoURL),
	})
}

func (n *ntfyService) NotifyUnarchived(ctx context.Context, clip, videoURL string) error {
	return n.send(ctx, payload{
		title:    titlePrefix + " - Published but Unarchived",
		message:  fmt.Sprintf("⚠️ %s is live at %s but its metadata record was not written", strings.TrimSpace(clip), strings.TrimSpace(videoURL)),
		tags:     []string{"reelforge", "archive", "review"},
		priority: "high",
		click:    strings.TrimSpace(videoURL),
	})
}

func (n *ntfyService) NotifyClipFailed(ctx context.Context, clip, stage string, err error) error {
	var builder strings.Builder
	builder.WriteString("❌ ")
	builder.WriteString(strings.TrimSpace(clip))
	if stage = strings.TrimSpace(stage); stage != "" {
		builder.WriteString(" failed at ")
		builder.WriteString(stage)
	} else {
		builder.WriteString(" failed")
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    titlePrefix + " - Error",
		message:  builder.String(),
		tags:     []string{"reelforge", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, summary BatchSummary) error {
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	total := summary.Published + summary.Failed + summary.Unarchived
	data := payload{
		title: titlePrefix + " - Batch Complete",
		tags:  []string{"reelforge", "batch", "completed"},
	}
	if summary.Failed == 0 && summary.Unarchived == 0 {
		data.message = fmt.Sprintf("Batch complete: %d of %d clips published in %s", summary.Published, total, duration)
	} else {
		data.title = titlePrefix + " - Batch Complete (with errors)"
		data.message = fmt.Sprintf("Batch complete: %d published, %d failed, %d unarchived in %s",
			summary.Published, summary.Failed, summary.Unarchived, duration)
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    titlePrefix + " - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"reelforge", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}
	if data.click != "" {
		req.Header.Set("Click", data.click)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPublished(context.Context, string, string) error         { return nil }
func (noopService) NotifyUnarchived(context.Context, string, string) error        { return nil }
func (noopService) NotifyClipFailed(context.Context, string, string, error) error { return nil }
func (noopService) NotifyBatchCompleted(context.Context, BatchSummary) error      { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
