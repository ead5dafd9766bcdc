package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"resumescore/internal/types"
)

// scoreBuckets align with the band thresholds so band counts can be read off the histogram
var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// metricToggles mirrors the customMetrics config section
type metricToggles struct {
	scoring    bool
	duration   bool
	feedback   bool
	rateLimits bool
}

// Metrics holds the custom instruments. The zero value records nothing.
type Metrics struct {
	DocumentsScored metric.Int64Counter
	Score           metric.Int64Histogram
	ScoringDuration metric.Float64Histogram
	FeedbackItems   metric.Int64Counter
	FleetRuns       metric.Int64Counter
	RateLimitHits   metric.Int64Counter

	toggles metricToggles
}

func newMetrics(meter metric.Meter, toggles metricToggles) (*Metrics, error) {
	m := &Metrics{toggles: toggles}
	var err error

	if m.DocumentsScored, err = meter.Int64Counter(
		"resumescore_documents_scored_total",
		metric.WithDescription("Total number of resumes scored"),
	); err != nil {
		return nil, fmt.Errorf("failed to create documents scored metric: %w", err)
	}

	if m.Score, err = meter.Int64Histogram(
		"resumescore_score",
		metric.WithDescription("Distribution of aggregate ATS scores"),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create score metric: %w", err)
	}

	if m.ScoringDuration, err = meter.Float64Histogram(
		"resumescore_scoring_duration_seconds",
		metric.WithDescription("Time spent scoring a single resume"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create scoring duration metric: %w", err)
	}

	if m.FeedbackItems, err = meter.Int64Counter(
		"resumescore_feedback_items_total",
		metric.WithDescription("Feedback items emitted, by category and severity"),
	); err != nil {
		return nil, fmt.Errorf("failed to create feedback items metric: %w", err)
	}

	if m.FleetRuns, err = meter.Int64Counter(
		"resumescore_fleet_runs_total",
		metric.WithDescription("Total number of batch scoring runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fleet runs metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumescore_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// RecordScore records one scored document. source tells callers apart (cli, http, watch, fleet).
func (m *Metrics) RecordScore(ctx context.Context, source string, report types.ScoreReport, elapsed time.Duration) {
	if m == nil || m.DocumentsScored == nil || !m.toggles.scoring {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("band", string(report.Band)),
	)
	m.DocumentsScored.Add(ctx, 1, attrs)
	m.Score.Record(ctx, int64(report.Score), metric.WithAttributes(attribute.String("source", source)))

	if m.toggles.duration {
		m.ScoringDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("source", source)))
	}

	if m.toggles.feedback {
		for _, f := range report.Feedback {
			m.FeedbackItems.Add(ctx, 1, metric.WithAttributes(
				attribute.String("category", string(f.Category)),
				attribute.String("severity", string(f.Severity)),
			))
		}
	}
}

// RecordFleetRun records a completed batch run
func (m *Metrics) RecordFleetRun(ctx context.Context, stats types.FleetStats, failed int) {
	if m == nil || m.FleetRuns == nil || !m.toggles.scoring {
		return
	}
	m.FleetRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("resumes", stats.TotalResumes),
		attribute.Bool("partial", failed > 0),
	))
}

// RecordRateLimitHit records a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, endpoint string) {
	if m == nil || m.RateLimitHits == nil || !m.toggles.rateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
}
