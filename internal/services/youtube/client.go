package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"reelforge/internal/config"
	"reelforge/internal/logging"
	"reelforge/internal/publish"
	"reelforge/internal/services"
)

const mib = 1 << 20

// Client uploads videos and edits their metadata.
type Client struct {
	secretsPath string
	tokenPath   string
	chunkSize   int
	endpoint    string
	logger      *slog.Logger

	service *youtube.Service
}

var _ publish.Platform = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithEndpoint points the client at an alternate API root.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSpace(endpoint)
	}
}

// New builds a client from the youtube config section. Authenticate must be
// called before any other method.
func New(cfg config.YouTube, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	chunk := cfg.ChunkSizeMiB
	if chunk <= 0 {
		chunk = 8
	}
	client := &Client{
		secretsPath: cfg.ClientSecretsPath,
		tokenPath:   cfg.TokenPath,
		chunkSize:   chunk * mib,
		logger:      logging.NewComponentLogger(logger, "youtube"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Authenticate loads the cached token, refreshing it if needed, and builds
// the API service.
func (c *Client) Authenticate(ctx context.Context) error {
	source, err := LoadTokenSource(ctx, c.secretsPath, c.tokenPath)
	if err != nil {
		return err
	}
	if _, err := source.Token(); err != nil {
		return services.Wrap(services.ErrAuthentication, "youtube", "refresh token", "re-run the authorization flow", err)
	}
	return c.authenticateWith(ctx, source)
}

func (c *Client) authenticateWith(ctx context.Context, source oauth2.TokenSource) error {
	opts := []option.ClientOption{option.WithTokenSource(source)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return services.Wrap(services.ErrAuthentication, "youtube", "create service", "", err)
	}
	c.service = svc
	return nil
}

// Upload performs a resumable upload and returns the new video id.
func (c *Client) Upload(ctx context.Context, upload publish.Upload) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	file, err := os.Open(upload.Path)
	if err != nil {
		return "", services.Wrap(services.ErrUpload, "youtube", "open video", upload.Path, err)
	}
	defer file.Close()
	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	logger := logging.WithContext(ctx, c.logger)
	sampler := logging.NewProgressSampler(10)
	name := filepath.Base(upload.Path)
	call := c.service.Videos.Insert([]string{"snippet", "status"}, newVideo(upload)).
		Media(file, googleapi.ChunkSize(c.chunkSize)).
		ProgressUpdater(func(current, total int64) {
			if total <= 0 {
				total = size
			}
			if percent, ok := sampler.ShouldLogBytes(current, total, "upload"); ok {
				logger.Info("upload progress",
					logging.String("file", name),
					logging.Float64("percent", percent),
				)
			}
		}).
		Context(ctx)
	video, err := call.Do()
	if err != nil {
		return "", services.Wrap(services.ErrUpload, "youtube", "videos.insert", describeAPIError(err), err)
	}
	if video == nil || video.Id == "" {
		return "", services.Wrap(services.ErrUpload, "youtube", "videos.insert", "response carried no video id", nil)
	}
	return video.Id, nil
}

// SetThumbnail uploads a custom thumbnail image.
func (c *Client) SetThumbnail(ctx context.Context, videoID, imagePath string) error {
	if err := c.ready(); err != nil {
		return err
	}
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer file.Close()
	if _, err := c.service.Thumbnails.Set(videoID).Media(file).Context(ctx).Do(); err != nil {
		return fmt.Errorf("thumbnails.set: %s: %w", describeAPIError(err), err)
	}
	return nil
}

// AddToPlaylist appends the video to a playlist.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}
	if _, err := c.service.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return fmt.Errorf("playlistItems.insert: %s: %w", describeAPIError(err), err)
	}
	return nil
}

// SetRecordingDate updates recordingDetails.recordingDate.
func (c *Client) SetRecordingDate(ctx context.Context, videoID, recordingDate string) error {
	if err := c.ready(); err != nil {
		return err
	}
	video := &youtube.Video{
		Id: videoID,
		RecordingDetails: &youtube.VideoRecordingDetails{
			RecordingDate: recordingDate,
		},
	}
	if _, err := c.service.Videos.Update([]string{"recordingDetails"}, video).Context(ctx).Do(); err != nil {
		return fmt.Errorf("videos.update: %s: %w", describeAPIError(err), err)
	}
	return nil
}

func (c *Client) ready() error {
	if c == nil || c.service == nil {
		return services.Wrap(services.ErrAuthentication, "youtube", "client", "not authenticated", nil)
	}
	return nil
}

func newVideo(upload publish.Upload) *youtube.Video {
	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       upload.Title,
			Description: upload.Description,
			Tags:        upload.Tags,
			CategoryId:  upload.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           upload.Privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
}

func describeAPIError(err error) string {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "request failed"
	}
	reason := ""
	if len(apiErr.Errors) > 0 {
		reason = apiErr.Errors[0].Reason
	}
	switch {
	case reason == "quotaExceeded" || reason == "uploadLimitExceeded":
		return fmt.Sprintf("http %d: %s (daily quota reached)", apiErr.Code, reason)
	case apiErr.Code == 401:
		return "http 401: token rejected"
	case reason != "":
		return fmt.Sprintf("http %d: %s", apiErr.Code, reason)
	default:
		return fmt.Sprintf("http %d", apiErr.Code)
	}
}
