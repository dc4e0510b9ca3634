// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for tool invocations and Docker Hub requests.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/ajitpratap0/hubscout"

// TracingConfig configures OpenTelemetry tracing
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	ExporterType ExporterType
	Endpoint     string // OTLP endpoint, host:port
	Headers      map[string]string
	Insecure     bool

	// SampleRate is taken as given; 0 samples nothing
	SampleRate   float64
	AlwaysSample []string // tool names to always sample
	NeverSample  []string // tool names to never sample

	ResourceAttributes map[string]string
}

// ExporterType defines the type of trace exporter
type ExporterType string

const (
	ExporterTypeOTLPGRPC ExporterType = "otlp-grpc"
	ExporterTypeOTLPHTTP ExporterType = "otlp-http"
	// ExporterTypeNoop records spans in-process but exports nothing
	ExporterTypeNoop ExporterType = "noop"
	// ExporterTypeNone disables tracing entirely
	ExporterTypeNone ExporterType = "none"
)

// ParseExporterType accepts the configuration spellings of an exporter
func ParseExporterType(s string) (ExporterType, error) {
	switch ExporterType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExporterTypeNone, "disabled", "off":
		return ExporterTypeNone, nil
	case ExporterTypeOTLPGRPC, "grpc":
		return ExporterTypeOTLPGRPC, nil
	case ExporterTypeOTLPHTTP, "http":
		return ExporterTypeOTLPHTTP, nil
	case ExporterTypeNoop:
		return ExporterTypeNoop, nil
	default:
		return "", fmt.Errorf("unsupported exporter type: %s", s)
	}
}

// TracingProvider manages OpenTelemetry tracing
type TracingProvider struct {
	config         TracingConfig
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	propagator     propagation.TextMapPropagator
	mu             sync.Mutex
	shutdown       func(context.Context) error
}

// NewTracingProvider creates a new tracing provider and installs it globally
func NewTracingProvider(config TracingConfig) (*TracingProvider, error) {
	if config.ServiceName == "" {
		config.ServiceName = "hubscout"
	}
	if config.ServiceVersion == "" {
		config.ServiceVersion = "unknown"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	propagator := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)

	if config.ExporterType == ExporterTypeNone || config.ExporterType == "" {
		return NewNoopTracingProvider(), nil
	}

	exporter, err := createExporter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(createResource(config)),
		sdktrace.WithSampler(sdktrace.ParentBased(createSampler(config))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &TracingProvider{
		config:         config,
		tracerProvider: tp,
		tracer:         tp.Tracer(instrumentationName),
		propagator:     propagator,
		shutdown:       tp.Shutdown,
	}, nil
}

// NewNoopTracingProvider returns a provider whose spans are never recorded
func NewNoopTracingProvider() *TracingProvider {
	tp := noop.NewTracerProvider()
	return &TracingProvider{
		tracerProvider: tp,
		tracer:         tp.Tracer(instrumentationName),
		propagator:     propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
}

func createResource(config TracingConfig) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	}

	for k, v := range config.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

func createExporter(config TracingConfig) (sdktrace.SpanExporter, error) {
	switch config.ExporterType {
	case ExporterTypeOTLPGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithHeaders(config.Headers)}
		if config.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(config.Endpoint))
		}
		if config.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	case ExporterTypeOTLPHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithHeaders(config.Headers)}
		if config.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(config.Endpoint))
		}
		if config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	case ExporterTypeNoop:
		return &noopExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", config.ExporterType)
	}
}

func createSampler(config TracingConfig) sdktrace.Sampler {
	if len(config.AlwaysSample) > 0 || len(config.NeverSample) > 0 {
		return &toolSampler{
			defaultRate:  config.SampleRate,
			alwaysSample: makeStringSet(config.AlwaysSample),
			neverSample:  makeStringSet(config.NeverSample),
		}
	}

	if config.SampleRate >= 1.0 {
		return sdktrace.AlwaysSample()
	} else if config.SampleRate <= 0.0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.TraceIDRatioBased(config.SampleRate)
}

// StartToolSpan starts the root span of a tool invocation
func (tp *TracingProvider) StartToolSpan(ctx context.Context, tool, invocationID string) (context.Context, trace.Span) {
	return tp.tracer.Start(ctx, "tool."+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("hubscout.tool", tool),
			attribute.String("hubscout.invocation_id", invocationID),
		),
	)
}

// StartUpstreamSpan starts a client span for one Docker Hub request and
// injects the trace context into the outgoing headers
func (tp *TracingProvider) StartUpstreamSpan(ctx context.Context, endpoint string, req *http.Request) (context.Context, trace.Span) {
	ctx, span := tp.tracer.Start(ctx, "hub."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("hubscout.endpoint", endpoint),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
			attribute.String("server.address", req.URL.Hostname()),
		),
	)
	tp.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

// RecordError records an error on the span in ctx
func (tp *TracingProvider) RecordError(ctx context.Context, err error, opts ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err, opts...)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetAttributes sets attributes on the span in ctx
func (tp *TracingProvider) SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// TracerProvider exposes the provider for HTTP middleware
func (tp *TracingProvider) TracerProvider() trace.TracerProvider {
	return tp.tracerProvider
}

// Propagator exposes the propagator for HTTP middleware
func (tp *TracingProvider) Propagator() propagation.TextMapPropagator {
	return tp.propagator
}

// Shutdown flushes pending spans
func (tp *TracingProvider) Shutdown(ctx context.Context) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.shutdown != nil {
		err := tp.shutdown(ctx)
		tp.shutdown = nil
		return err
	}
	return nil
}

// toolSampler samples based on the tool name attribute
type toolSampler struct {
	defaultRate  float64
	alwaysSample map[string]struct{}
	neverSample  map[string]struct{}
}

func (ts *toolSampler) ShouldSample(params sdktrace.SamplingParameters) sdktrace.SamplingResult {
	tool := strings.TrimPrefix(params.Name, "tool.")
	for _, attr := range params.Attributes {
		if attr.Key == "hubscout.tool" {
			tool = attr.Value.AsString()
			break
		}
	}

	if _, ok := ts.alwaysSample[tool]; ok {
		return sdktrace.SamplingResult{Decision: sdktrace.RecordAndSample}
	}
	if _, ok := ts.neverSample[tool]; ok {
		return sdktrace.SamplingResult{Decision: sdktrace.Drop}
	}

	if ts.defaultRate >= 1.0 {
		return sdktrace.SamplingResult{Decision: sdktrace.RecordAndSample}
	} else if ts.defaultRate <= 0.0 {
		return sdktrace.SamplingResult{Decision: sdktrace.Drop}
	}

	return sdktrace.TraceIDRatioBased(ts.defaultRate).ShouldSample(params)
}

func (ts *toolSampler) Description() string {
	return fmt.Sprintf("ToolSampler{defaultRate=%.2f}", ts.defaultRate)
}

type noopExporter struct{}

func (n *noopExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (n *noopExporter) Shutdown(ctx context.Context) error {
	return nil
}

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
