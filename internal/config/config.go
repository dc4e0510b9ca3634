// Package config loads hubscout process configuration from HUBSCOUT_*
// environment variables and an optional .env file.
package config

import (
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ajitpratap0/hubscout/internal/hub"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/observability"
)

// Prefix is prepended to every environment variable name
const Prefix = "HUBSCOUT_"

// Transport names
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the process configuration
type Config struct {
	// Docker Hub
	HubBaseURL     string        `env:"HUB_BASE_URL" envDefault:"https://hub.docker.com"`
	HubToken       string        `env:"HUB_TOKEN"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	UserAgent      string        `env:"USER_AGENT" envDefault:"hubscout"`

	// Serving
	Transport      string   `env:"TRANSPORT" envDefault:"stdio"`
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Telemetry
	MetricsEnabled    bool    `env:"METRICS_ENABLED" envDefault:"true"`
	TracingExporter   string  `env:"TRACING_EXPORTER" envDefault:"none"`
	OTLPEndpoint      string  `env:"OTLP_ENDPOINT"`
	OTLPInsecure      bool    `env:"OTLP_INSECURE"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`

	// Tool names sampled regardless of TRACING_SAMPLE_RATE
	TracingAlwaysSample []string `env:"TRACING_ALWAYS_SAMPLE" envSeparator:","`
	TracingNeverSample  []string `env:"TRACING_NEVER_SAMPLE" envSeparator:","`

	// key=value pairs, e.g. "x-api-key=secret,tenant=dev"
	OTLPHeaders        map[string]string `env:"OTLP_HEADERS" envSeparator:"," envKeyValSeparator:"="`
	ResourceAttributes map[string]string `env:"RESOURCE_ATTRIBUTES" envSeparator:"," envKeyValSeparator:"="`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads a .env file when one exists in the working directory, then
// parses the environment. The result is validated.
func Load() (*Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses configuration from the given variables only, ignoring the
// process environment. Keys carry the HUBSCOUT_ prefix.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot
func (c *Config) Validate() error {
	u, err := url.Parse(c.HubBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%sHUB_BASE_URL must be an http(s) URL, got %q", Prefix, c.HubBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%sREQUEST_TIMEOUT must be positive, got %s", Prefix, c.RequestTimeout)
	}

	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%sTRANSPORT must be %q or %q, got %q", Prefix, TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Transport == TransportHTTP && c.HTTPAddr == "" {
		return fmt.Errorf("%sHTTP_ADDR is required for the http transport", Prefix)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%sLOG_FORMAT must be \"text\" or \"json\", got %q", Prefix, c.LogFormat)
	}

	exporter, err := observability.ParseExporterType(c.TracingExporter)
	if err != nil {
		return fmt.Errorf("%sTRACING_EXPORTER: %w", Prefix, err)
	}
	if (exporter == observability.ExporterTypeOTLPGRPC || exporter == observability.ExporterTypeOTLPHTTP) && c.OTLPEndpoint == "" {
		return fmt.Errorf("%sOTLP_ENDPOINT is required for the %s exporter", Prefix, exporter)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("%sTRACING_SAMPLE_RATE must be between 0 and 1, got %g", Prefix, c.TracingSampleRate)
	}
	for _, tool := range c.TracingAlwaysSample {
		if slices.Contains(c.TracingNeverSample, tool) {
			return fmt.Errorf("%sTRACING_ALWAYS_SAMPLE and %sTRACING_NEVER_SAMPLE both list %q", Prefix, Prefix, tool)
		}
	}

	return nil
}

// HubConfig returns the Docker Hub client configuration
func (c *Config) HubConfig() hub.Config {
	return hub.Config{
		BaseURL:   c.HubBaseURL,
		Token:     c.HubToken,
		Timeout:   c.RequestTimeout,
		UserAgent: c.UserAgent,
	}
}

// LoggingOptions returns logger options writing to the given output
func (c *Config) LoggingOptions(output io.Writer) logging.Options {
	return logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: output,
	}
}

// TelemetryConfig returns metrics and tracing configuration
func (c *Config) TelemetryConfig(serviceName, version string) observability.Config {
	// Validate has already accepted the exporter spelling
	exporter, _ := observability.ParseExporterType(c.TracingExporter)

	return observability.Config{
		EnableMetrics: c.MetricsEnabled,
		MetricsConfig: observability.MetricsConfig{
			ServiceName:    serviceName,
			ServiceVersion: version,
			Environment:    c.Environment,
			IncludeRuntime: true,
		},
		TracingConfig: observability.TracingConfig{
			ServiceName:        serviceName,
			ServiceVersion:     version,
			Environment:        c.Environment,
			ExporterType:       exporter,
			Endpoint:           c.OTLPEndpoint,
			Insecure:           c.OTLPInsecure,
			Headers:            c.OTLPHeaders,
			SampleRate:         c.TracingSampleRate,
			AlwaysSample:       c.TracingAlwaysSample,
			NeverSample:        c.TracingNeverSample,
			ResourceAttributes: c.ResourceAttributes,
		},
	}
}
