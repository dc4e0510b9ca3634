package mcpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"

	"github.com/ajitpratap0/hubscout/pkg/logging"
)

const (
	// EndpointPath serves the streamable HTTP protocol
	EndpointPath = "/mcp"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// localhost on any port unless origins are configured
var defaultAllowedOrigins = []string{
	"http://localhost", "http://localhost:*",
	"https://localhost", "https://localhost:*",
	"http://127.0.0.1", "http://127.0.0.1:*",
}

// Handler returns the HTTP surface: the protocol endpoint, /metrics and /healthz
func (s *Server) Handler() http.Handler {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = defaultAllowedOrigins
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestIDMiddleware(&logging.UUIDGenerator{}))
	r.Use(otelchi.Middleware("hubscout",
		otelchi.WithChiRoutes(r),
		otelchi.WithTracerProvider(s.telemetry.Tracing.TracerProvider()),
		otelchi.WithPropagators(s.telemetry.Tracing.Propagator()),
	))
	r.Use(logging.HTTPMiddleware(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Mcp-Session-Id", "Last-Event-ID", "X-Request-ID"},
		ExposedHeaders: []string{"Mcp-Session-Id", "X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", s.telemetry.Metrics.Handler())
	r.Handle(EndpointPath, server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(EndpointPath)))

	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          logging.NewStdLogger(s.logger, "http", logging.ErrorLevel),
	}

	s.logger.Info("Serving MCP over HTTP",
		logging.String("addr", listener.Addr().String()),
		logging.String("endpoint", EndpointPath),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
