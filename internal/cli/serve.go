package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/hubscout/internal/config"
	"github.com/ajitpratap0/hubscout/internal/mcpserver"
	"github.com/ajitpratap0/hubscout/internal/version"
	"github.com/ajitpratap0/hubscout/pkg/logging"
)

const teardownTimeout = 5 * time.Second

func newServeCmd(load loadFunc) *cobra.Command {
	var (
		transport string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP",
		Long: `Serve the tools over the Model Context Protocol.

The stdio transport (default) is what desktop assistants launch. The http
transport serves streamable HTTP on /mcp together with /metrics and /healthz.

Examples:
  hubscout serve
  hubscout serve --transport http --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "Transport to serve on: stdio or http (overrides HUBSCOUT_TRANSPORT)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address for the http transport (overrides HUBSCOUT_HTTP_ADDR)")
	return cmd
}

func serve(cmd *cobra.Command, cfg *config.Config) error {
	rt, err := newRuntime(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		rt.close(ctx)
	}()

	srv, err := mcpserver.New(serviceName, version.Version, rt.registry,
		mcpserver.WithLogger(rt.logger),
		mcpserver.WithTelemetry(rt.telemetry),
		mcpserver.WithAllowedOrigins(cfg.AllowedOrigins),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("hubscout starting",
		logging.String("version", version.Version),
		logging.String("transport", cfg.Transport),
		logging.Int("tools", len(rt.registry.List())),
	)

	g, gctx := errgroup.WithContext(ctx)
	switch cfg.Transport {
	case config.TransportHTTP:
		g.Go(func() error {
			return srv.ListenAndServe(gctx, cfg.HTTPAddr)
		})
	default:
		g.Go(func() error {
			// the client closing stdin ends the process
			defer stop()
			return srv.ServeStdio(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	}

	err = g.Wait()
	rt.logger.Info("hubscout stopped")
	return err
}
