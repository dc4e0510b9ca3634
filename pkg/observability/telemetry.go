package observability

import (
	"context"
	"fmt"
)

// Config bundles metrics and tracing configuration
type Config struct {
	EnableMetrics bool
	MetricsConfig MetricsConfig
	TracingConfig TracingConfig
}

// Telemetry is the pair of providers handed to every instrumented component
type Telemetry struct {
	Metrics MetricsProvider
	Tracing *TracingProvider
}

// New builds telemetry from configuration. Disabled concerns get no-op providers.
func New(config Config) (*Telemetry, error) {
	t := Disabled()

	if config.EnableMetrics {
		m, err := NewMetricsProvider(config.MetricsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		t.Metrics = m
	}

	tp, err := NewTracingProvider(config.TracingConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing provider: %w", err)
	}
	t.Tracing = tp

	return t, nil
}

// Disabled returns telemetry that records nothing
func Disabled() *Telemetry {
	return &Telemetry{
		Metrics: NoopMetrics{},
		Tracing: NewNoopTracingProvider(),
	}
}

// Shutdown flushes tracing; metrics need no teardown
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.Tracing == nil {
		return nil
	}
	return t.Tracing.Shutdown(ctx)
}
