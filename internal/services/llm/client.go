package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultHTTPTimeout   = 60 * time.Second
	defaultRetryAttempts = 3
	defaultMaxTokens     = 250
	defaultTemperature   = 0.9
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// DefaultHTTPTimeout returns the default timeout used for LLM requests.
func DefaultHTTPTimeout() time.Duration {
	return defaultHTTPTimeout
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	maxRetries int
	api        openai.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count. Values below one
// mean a single attempt.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.maxRetries = attempts - 1
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: defaultRetryAttempts - 1,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.maxRetries < 0 {
		client.maxRetries = 0
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(client.cfg.APIKey),
		option.WithHTTPClient(client.httpClient),
		option.WithMaxRetries(client.maxRetries),
	}
	if client.cfg.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(withTrailingSlash(client.cfg.BaseURL)))
	}
	client.api = openai.NewClient(requestOpts...)
	return client
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Configured reports whether the client has credentials to issue requests.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Complete issues a free-text chat completion with the supplied prompts and
// returns the trimmed content of the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("llm complete: user prompt required")
	}
	if !c.Configured() {
		return "", errors.New("llm complete: api key required")
	}
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: openai.Float(defaultTemperature),
		MaxTokens:   openai.Int(defaultMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm complete: empty choices")
	}
	choice := resp.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", &EmptyContentError{
			FinishReason: choice.FinishReason,
			Refusal:      strings.TrimSpace(choice.Message.Refusal),
		}
	}
	return content, nil
}

// HealthCheck issues a tiny completion to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.Configured() {
		return errors.New("llm health: api key required")
	}
	if _, err := c.Complete(ctx, "Reply with a single word.", "ping"); err != nil {
		return fmt.Errorf("llm health: %w", err)
	}
	return nil
}

// EmptyContentError reports a completion that returned no text.
type EmptyContentError struct {
	FinishReason string
	Refusal      string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("empty content (finish_reason=%q, refusal=%q)", e.FinishReason, e.Refusal)
}

// StatusCode extracts the HTTP status from an API error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Summarize produces a short human-readable reason for a failed request.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out (LLM API unreachable)"
	}
	switch code := StatusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "authentication failed (check api key)"
	case code == http.StatusTooManyRequests:
		return "rate limited"
	case code >= http.StatusInternalServerError:
		return fmt.Sprintf("server error (%d)", code)
	}
	return err.Error()
}

func withTrailingSlash(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}
