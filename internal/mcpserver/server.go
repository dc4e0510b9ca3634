// Package mcpserver exposes a sealed tool registry over the Model Context
// Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/observability"
	"github.com/ajitpratap0/hubscout/pkg/tools"
)

const instructions = "hubscout answers questions about Docker Hub images: search, inspect images and tags, " +
	"compare images and recommend one, compare tags and analyze per-platform sizes. " +
	"Official images can be named without the library/ namespace. " +
	"Every tool returns a JSON document with ok, result and, on failure, a structured error with a kind and a hint."

// ErrRegistryNotSealed is returned when a registry is bound before startup registration finished
var ErrRegistryNotSealed = errors.New("tool registry must be sealed before it is served")

// Server binds a tool registry to an MCP protocol server
type Server struct {
	registry       *tools.Registry
	mcp            *server.MCPServer
	logger         logging.Logger
	telemetry      *observability.Telemetry
	allowedOrigins []string
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTelemetry sets the providers behind /metrics and HTTP tracing
func WithTelemetry(t *observability.Telemetry) Option {
	return func(s *Server) {
		s.telemetry = t
	}
}

// WithAllowedOrigins sets the browser origins accepted in HTTP mode
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// New creates a Server exposing every tool in registry
func New(name, version string, registry *tools.Registry, opts ...Option) (*Server, error) {
	if !registry.Sealed() {
		return nil, ErrRegistryNotSealed
	}

	s := &Server{
		registry:  registry,
		logger:    logging.Nop(),
		telemetry: observability.Disabled(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithFields(logging.String("component", "mcpserver"))

	s.mcp = server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, def := range registry.List() {
		s.mcp.AddTool(protocolTool(def), s.callHandler(def.Name))
	}
	s.logger.Debug("Tools bound to protocol server", logging.Int("count", len(registry.List())))

	return s, nil
}

// MCP returns the underlying protocol server
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

func protocolTool(def tools.Definition) mcp.Tool {
	tool := mcp.NewToolWithRawSchema(def.Name, def.Description, def.InputSchema)

	annotate := []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(def.Annotations.ReadOnly),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(def.Annotations.OpenWorld),
	}
	if def.Annotations.Title != "" {
		annotate = append(annotate, mcp.WithTitleAnnotation(def.Annotations.Title))
	}
	for _, opt := range annotate {
		opt(&tool)
	}
	return tool
}

// callHandler dispatches through the registry so protocol calls get the same
// validation, logging and error shaping as local calls. Tool failures are
// reported in-band with IsError set, never as protocol errors.
func (s *Server) callHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := s.registry.DispatchArgs(ctx, name, req.GetArguments())

		body, err := resp.JSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s response: %w", name, err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(body))},
			IsError: !resp.OK,
		}, nil
	}
}
