package observability

import (
	"time"

	"resumescore/internal/config"
)

const defaultCollectionInterval = 15 * time.Second

// ObservabilityConfig is the resolved telemetry setup for one process
type ObservabilityConfig struct {
	ServiceName     string
	ServiceVersion  string
	ServiceInstance string

	Enabled       bool
	ConsoleOutput bool
	PrettyPrint   bool
	SampleRate    float64

	CollectionInterval time.Duration
	Prometheus         PrometheusConfig
	OTLP               config.OTLPConfig

	toggles metricToggles
}

// GetObservabilityConfig resolves the telemetry setup from the application config.
// A nil cfg yields a disabled setup with every custom metric switched on.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:        "resumescore",
			ServiceVersion:     version,
			ServiceInstance:    "resumescore-1",
			SampleRate:         1.0,
			CollectionInterval: defaultCollectionInterval,
			toggles:            metricToggles{scoring: true, duration: true, feedback: true, rateLimits: true},
		}
	}

	obs := cfg.Observability
	resolved := ObservabilityConfig{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     obs.ServiceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		ConsoleOutput:      obs.ConsoleOutput,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         obs.SampleRate,
		CollectionInterval: obs.Metrics.CollectionInterval,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
		OTLP: obs.OTLP,
		toggles: metricToggles{
			scoring:    obs.CustomMetrics.Scoring.Enabled,
			duration:   obs.CustomMetrics.Scoring.TrackDuration,
			feedback:   obs.CustomMetrics.Scoring.TrackFeedback,
			rateLimits: obs.CustomMetrics.Infrastructure.TrackRateLimits,
		},
	}

	if resolved.ServiceVersion == "" {
		resolved.ServiceVersion = version
	}
	if resolved.ServiceInstance == "" {
		resolved.ServiceInstance = resolved.ServiceName + "-1"
	}
	if resolved.CollectionInterval <= 0 {
		resolved.CollectionInterval = defaultCollectionInterval
	}
	return resolved
}
