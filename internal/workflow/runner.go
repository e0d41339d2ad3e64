package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelforge/internal/config"
	"reelforge/internal/history"
	"reelforge/internal/logging"
	"reelforge/internal/metadata"
	"reelforge/internal/notifications"
	"reelforge/internal/preflight"
	"reelforge/internal/publish"
	"reelforge/internal/render"
	"reelforge/internal/services"
	"reelforge/internal/session"
)

// LockName is the lock file created under paths.log_dir while a batch runs.
const LockName = "reelforge.lock"

// ErrBatchRunning is returned when another batch holds the lock.
var ErrBatchRunning = errors.New("another reelforge batch is already running")

// Publisher publishes one rendered file.
type Publisher interface {
	Publish(ctx context.Context, req publish.Request) (publish.Result, error)
}

// Summary is the outcome of one batch.
type Summary struct {
	RunID      string
	Discovered int
	Published  int
	Failed     int
	Unarchived int
	// Skipped counts clips that already had an archive record.
	Skipped    int
	Duration   time.Duration
}

// Attempted returns the number of clips that were rendered or published.
func (s Summary) Attempted() int {
	return s.Published + s.Failed + s.Unarchived
}

// Runner processes every discovered clip sequentially. Clips that already
// have an archive record are skipped, so a session kept because one of its
// clips failed only retries the clips that still need publishing.
type Runner struct {
	cfg       *config.Config
	renderer  *render.Renderer
	publisher Publisher
	store     *history.Store
	archive   *metadata.Archive
	notifier  notifications.Service
	logger    *slog.Logger

	preflight func(context.Context, *config.Config) []preflight.Result
	newRunID  func() string
	now       func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// WithPreflight overrides the readiness checks run before discovery. Passing
// nil disables them.
func WithPreflight(fn func(context.Context, *config.Config) []preflight.Result) Option {
	return func(r *Runner) {
		r.preflight = fn
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if strings.TrimSpace(id) != "" {
			r.newRunID = func() string { return id }
		}
	}
}

// WithClock overrides the time source used for batch duration.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a batch runner. store may be nil to skip the history
// ledger.
func NewRunner(cfg *config.Config, renderer *render.Renderer, publisher Publisher, store *history.Store, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:       cfg,
		renderer:  renderer,
		publisher: publisher,
		store:     store,
		archive:   metadata.NewArchive(cfg.Paths.ArchiveDir),
		notifier:  notifications.NewService(cfg),
		logger:    logging.NewComponentLogger(logger, "workflow"),
		preflight: preflight.RunAll,
		newRunID:  uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LockPath returns the single-instance lock file location.
func (r *Runner) LockPath() string {
	return filepath.Join(r.cfg.Paths.LogDir, LockName)
}

// Run processes the whole batch. The returned error is non-nil only when the
// batch itself could not run or was cancelled; per-clip failures are counted
// in the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "workflow", "ensure directories", "", err)
	}

	lock := flock.New(r.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return Summary{}, ErrBatchRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	summary := Summary{RunID: r.newRunID()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	start := r.now()
	metrics := newBatchMetrics()

	if err := r.runPreflight(ctx, logger); err != nil {
		return summary, err
	}

	seq, err := session.Discover(r.cfg.Paths.NASRoot)
	if err != nil {
		return summary, err
	}
	clips := slices.Collect(seq)
	summary.Discovered = len(clips)
	logger.Info("batch started",
		logging.Int("clips", len(clips)),
		logging.String("nas_root", r.cfg.Paths.NASRoot),
		logging.Bool("debug", r.cfg.Workflow.Debug),
	)

	var runErr error
	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if r.archive.Exists(clip.Session.ISODate(), clip.Stem) {
			summary.Skipped++
			logger.Info("clip already archived; skipping",
				logging.String(logging.FieldClip, clip.Path),
				logging.String(logging.FieldEventType, "clip_already_archived"),
			)
			continue
		}

		outcome := r.processClip(ctx, clip)
		r.recordOutcome(ctx, clip, outcome)
		metrics.observe(outcome)
		switch outcome.status {
		case history.StatusPublished:
			summary.Published++
		case history.StatusUnarchived:
			summary.Unarchived++
		default:
			summary.Failed++
		}
	}

	summary.Duration = r.now().Sub(start)
	r.finishBatch(ctx, logger, summary, metrics)
	return summary, runErr
}

func (r *Runner) runPreflight(ctx context.Context, logger *slog.Logger) error {
	if r.preflight == nil {
		return nil
	}
	failed := preflight.Failed(r.preflight(ctx, r.cfg))
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(failed))
	for _, result := range failed {
		names = append(names, result.Name)
		logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run reelforge check for details"),
		)
	}
	return services.Wrap(services.ErrConfiguration, "workflow", "preflight", strings.Join(names, ", "), nil)
}

func (r *Runner) finishBatch(ctx context.Context, logger *slog.Logger, summary Summary, metrics *batchMetrics) {
	logger.Info("batch completed",
		logging.Int("discovered", summary.Discovered),
		logging.Int("published", summary.Published),
		logging.Int("failed", summary.Failed),
		logging.Int("unarchived", summary.Unarchived),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	)

	if path := strings.TrimSpace(r.cfg.Metrics.TextfilePath); path != "" {
		if err := metrics.write(path, summary.Duration); err != nil {
			logging.WarnWithContext(logger, "failed to write metrics textfile", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check metrics.textfile_path permissions"),
				logging.String(logging.FieldImpact, "batch metrics not exported"),
			)
		}
	}

	if summary.Attempted() == 0 {
		return
	}
	r.notify(ctx, logger, "batch completion", func(ctx context.Context) error {
		return r.notifier.NotifyBatchCompleted(ctx, notifications.BatchSummary{
			Published:  summary.Published,
			Failed:     summary.Failed,
			Unarchived: summary.Unarchived,
			Duration:   summary.Duration,
		})
	})
}
