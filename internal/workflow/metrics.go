package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"reelforge/internal/history"
	"reelforge/internal/services"
)

type batchMetrics struct {
	registry     *prometheus.Registry
	clips        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	clipDuration prometheus.Histogram
	duration     prometheus.Gauge
	lastRun      prometheus.Gauge
}

func newBatchMetrics() *batchMetrics {
	m := &batchMetrics{
		registry: prometheus.NewRegistry(),
		clips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelforge_clips_total",
				Help: "Clips processed in the last batch, by outcome.",
			},
			[]string{"status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelforge_clip_failures_total",
				Help: "Clip failures in the last batch, by reason.",
			},
			[]string{"reason"},
		),
		clipDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reelforge_clip_duration_seconds",
				Help:    "Render plus publish time per clip.",
				Buckets: []float64{30, 60, 120, 300, 600, 1200, 2400},
			},
		),
		duration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reelforge_batch_duration_seconds",
				Help: "Wall time of the last batch.",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reelforge_batch_last_run_timestamp_seconds",
				Help: "Unix time the last batch finished.",
			},
		),
	}
	for _, status := range []history.Status{history.StatusPublished, history.StatusFailed, history.StatusUnarchived} {
		m.clips.WithLabelValues(string(status))
	}
	m.registry.MustRegister(m.clips, m.failures, m.clipDuration, m.duration, m.lastRun)
	return m
}

func (m *batchMetrics) observe(outcome clipOutcome) {
	m.clips.WithLabelValues(string(outcome.status)).Inc()
	if outcome.err != nil {
		m.failures.WithLabelValues(services.Reason(outcome.err)).Inc()
	}
	m.clipDuration.Observe(outcome.duration.Seconds())
}

func (m *batchMetrics) write(path string, duration time.Duration) error {
	m.duration.Set(duration.Seconds())
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
