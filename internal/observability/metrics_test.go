package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"resumescore/internal/config"
	"resumescore/internal/types"
)

func collectNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sampleReport() types.ScoreReport {
	return types.ScoreReport{
		Score: 72,
		Band:  types.BandGood,
		Feedback: []types.Feedback{
			{Category: types.CategorySkills, Severity: types.SeverityInfo},
			{Category: types.CategoryContact, Severity: types.SeverityWarning},
		},
	}
}

func TestMetrics_RecordScore(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := newMetrics(provider.Meter("test"), metricToggles{scoring: true, duration: true, feedback: true, rateLimits: true})
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordScore(ctx, "cli", sampleReport(), 3*time.Millisecond)
	m.RecordFleetRun(ctx, types.FleetStats{TotalResumes: 1}, 0)
	m.RecordRateLimitHit(ctx, "/score")

	got := collectNames(t, reader)
	for _, name := range []string{
		"resumescore_documents_scored_total",
		"resumescore_score",
		"resumescore_scoring_duration_seconds",
		"resumescore_feedback_items_total",
		"resumescore_fleet_runs_total",
		"resumescore_rate_limit_hits_total",
	} {
		assert.Contains(t, got, name)
	}

	feedback, ok := got["resumescore_feedback_items_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range feedback.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)
}

func TestMetrics_Toggles(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := newMetrics(provider.Meter("test"), metricToggles{scoring: true})
	require.NoError(t, err)

	m.RecordScore(context.Background(), "http", sampleReport(), time.Millisecond)
	m.RecordRateLimitHit(context.Background(), "/score")

	got := collectNames(t, reader)
	assert.Contains(t, got, "resumescore_documents_scored_total")
	assert.NotContains(t, got, "resumescore_scoring_duration_seconds")
	assert.NotContains(t, got, "resumescore_feedback_items_total")
	assert.NotContains(t, got, "resumescore_rate_limit_hits_total")
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordScore(context.Background(), "cli", sampleReport(), 0)
		(&Metrics{}).RecordScore(context.Background(), "cli", sampleReport(), 0)
		(&Metrics{}).RecordRateLimitHit(context.Background(), "/")
	})
}

func TestNewObservabilityManager_Disabled(t *testing.T) {
	om, err := NewObservabilityManager(GetObservabilityConfig(nil, "test"))
	require.NoError(t, err)

	assert.NotNil(t, om.Metrics())
	assert.NotNil(t, om.Tracer("resumescore.test"))
	assert.NoError(t, om.Shutdown(context.Background()))

	var nilManager *ObservabilityManager
	assert.NotNil(t, nilManager.Metrics())
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.Enabled = true

	obs := GetObservabilityConfig(cfg, "1.2.3")
	assert.True(t, obs.Enabled)
	assert.Equal(t, "resumescore", obs.ServiceName)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, "/metrics", obs.Prometheus.Endpoint)
}

func TestPrometheusExporter_ServesScoreMetrics(t *testing.T) {
	reader, srv, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Port: "0"})
	require.NoError(t, err)

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := newMetrics(provider.Meter("test"), metricToggles{scoring: true})
	require.NoError(t, err)
	m.RecordScore(context.Background(), "cli", sampleReport(), 0)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "resumescore_documents_scored_total")
}
