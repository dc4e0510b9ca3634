// Package cli implements the hubscout command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/hubscout/internal/config"
)

type loadFunc func() (*config.Config, error)

// NewRootCmd returns the hubscout command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.Load)
}

func newRootCmd(load loadFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "hubscout",
		Short: "Docker Hub tools for AI assistants",
		Long: `hubscout is a Model Context Protocol server that lets an AI assistant search
Docker Hub, inspect images and tags, and compare images to pick one.

Configuration is read from HUBSCOUT_* environment variables and an optional
.env file in the working directory.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(load),
		newToolsCmd(load),
		newCallCmd(load),
		newErrorsCmd(),
		newVersionCmd(),
	)
	return root
}
