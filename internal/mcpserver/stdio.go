package mcpserver

import (
	"context"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/hubscout/pkg/logging"
)

// ServeStdio serves the protocol on in/out until the input closes or ctx is
// cancelled. Nothing but protocol frames may be written to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(logging.NewStdLogger(s.logger, "stdio", logging.ErrorLevel))

	s.logger.Info("Serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		s.logger.Info("Stdio session ended")
		return nil
	default:
		return err
	}
}
