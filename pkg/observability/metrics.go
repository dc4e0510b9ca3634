package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	Namespace        string    // Prometheus namespace (default: hubscout)
	HistogramBuckets []float64 // latency buckets in milliseconds

	// Labels to add to all metrics
	ConstLabels prometheus.Labels

	// IncludeRuntime registers the Go and process collectors
	IncludeRuntime bool
}

// MetricsProvider records tool and upstream activity
type MetricsProvider interface {
	RecordToolCall(ctx context.Context, tool, status string, duration time.Duration)
	RecordUpstreamRequest(ctx context.Context, endpoint, status string, duration time.Duration)
	RecordError(ctx context.Context, kind string)

	// Handler serves the /metrics exposition
	Handler() http.Handler
}

// PrometheusMetricsProvider implements MetricsProvider on a private Prometheus registry
type PrometheusMetricsProvider struct {
	config   MetricsConfig
	registry *prometheus.Registry

	toolCallDuration *prometheus.HistogramVec
	toolCallTotal    *prometheus.CounterVec

	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec

	errorTotal *prometheus.CounterVec
}

// NewMetricsProvider creates a new Prometheus metrics provider
func NewMetricsProvider(config MetricsConfig) (*PrometheusMetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "hubscout"
	}
	if config.HistogramBuckets == nil {
		// Docker Hub round trips sit in the 50ms-2s band
		config.HistogramBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}
	}

	constLabels := prometheus.Labels{}
	for k, v := range config.ConstLabels {
		constLabels[k] = v
	}
	if config.ServiceName != "" {
		constLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		constLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		constLabels["environment"] = config.Environment
	}
	config.ConstLabels = constLabels

	provider := &PrometheusMetricsProvider{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	provider.initializeMetrics()

	if err := provider.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return provider, nil
}

func (p *PrometheusMetricsProvider) initializeMetrics() {
	p.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool invocations in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	p.toolCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Name:        "tool_call_total",
			Help:        "Total number of tool invocations",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	p.upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Name:        "upstream_request_duration_milliseconds",
			Help:        "Duration of Docker Hub API requests in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"endpoint", "status"},
	)

	p.upstreamTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Name:        "upstream_request_total",
			Help:        "Total number of Docker Hub API requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"endpoint", "status"},
	)

	p.errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Name:        "errors_total",
			Help:        "Total number of tool errors by kind",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"kind"},
	)
}

func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectorsToRegister := []prometheus.Collector{
		p.toolCallDuration,
		p.toolCallTotal,
		p.upstreamDuration,
		p.upstreamTotal,
		p.errorTotal,
	}

	if p.config.IncludeRuntime {
		collectorsToRegister = append(collectorsToRegister,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	for _, c := range collectorsToRegister {
		if err := p.registry.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// RecordToolCall records one tool invocation
func (p *PrometheusMetricsProvider) RecordToolCall(ctx context.Context, tool, status string, duration time.Duration) {
	p.toolCallDuration.WithLabelValues(tool, status).Observe(milliseconds(duration))
	p.toolCallTotal.WithLabelValues(tool, status).Inc()
}

// RecordUpstreamRequest records one Docker Hub round trip
func (p *PrometheusMetricsProvider) RecordUpstreamRequest(ctx context.Context, endpoint, status string, duration time.Duration) {
	p.upstreamDuration.WithLabelValues(endpoint, status).Observe(milliseconds(duration))
	p.upstreamTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordError counts a tool error by kind
func (p *PrometheusMetricsProvider) RecordError(ctx context.Context, kind string) {
	p.errorTotal.WithLabelValues(kind).Inc()
}

// Handler returns the exposition handler for this provider's registry
func (p *PrometheusMetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry, mostly for tests
func (p *PrometheusMetricsProvider) Registry() *prometheus.Registry {
	return p.registry
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// NoopMetrics discards everything
type NoopMetrics struct{}

func (NoopMetrics) RecordToolCall(context.Context, string, string, time.Duration)        {}
func (NoopMetrics) RecordUpstreamRequest(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordError(context.Context, string)                                  {}

func (NoopMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}
