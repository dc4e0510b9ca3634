package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ajitpratap0/hubscout/internal/config"
	"github.com/ajitpratap0/hubscout/internal/hub"
	"github.com/ajitpratap0/hubscout/internal/toolset"
	"github.com/ajitpratap0/hubscout/internal/version"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/observability"
	"github.com/ajitpratap0/hubscout/pkg/tools"
)

const serviceName = "hubscout"

// runtime is everything a command needs once configuration is loaded
type runtime struct {
	cfg       *config.Config
	logger    logging.Logger
	telemetry *observability.Telemetry
	registry  *tools.Registry
}

// newRuntime builds the logger, telemetry, Docker Hub client and the sealed
// tool registry, in that order. Logs go to logOut, never to stdout.
func newRuntime(cfg *config.Config, logOut io.Writer) (*runtime, error) {
	logger, err := logging.NewWithOptions(cfg.LoggingOptions(logOut))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger = logger.WithFields(logging.String("service", serviceName))

	telemetry, err := observability.New(cfg.TelemetryConfig(serviceName, version.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	client, err := hub.NewClient(cfg.HubConfig(),
		hub.WithLogger(logger),
		hub.WithTelemetry(telemetry),
	)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create Docker Hub client: %w", err)
	}

	registry := tools.NewRegistry(
		tools.WithLogger(logger),
		tools.WithTelemetry(telemetry),
	)
	if err := toolset.New(client, logger).Register(registry); err != nil {
		_ = telemetry.Shutdown(context.Background())
		return nil, err
	}
	registry.Seal()

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		telemetry: telemetry,
		registry:  registry,
	}, nil
}

// close flushes pending spans
func (r *runtime) close(ctx context.Context) {
	if err := r.telemetry.Shutdown(ctx); err != nil {
		r.logger.WithError(err).Warn("Telemetry shutdown failed")
	}
}
