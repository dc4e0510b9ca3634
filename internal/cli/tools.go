package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/hubscout/pkg/tools"
)

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

func newToolsCmd(load loadFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			defs := rt.registry.List()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(lo.Map(defs, func(d tools.Definition, _ int) toolInfo {
					return toolInfo{Name: d.Name, Description: d.Description, Categories: d.Categories, InputSchema: d.InputSchema}
				}))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), toolsTable(defs))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print definitions, including input schemas, as JSON")
	return cmd
}

// toolsTable renders one row per tool in registration order
func toolsTable(defs []tools.Definition) string {
	return renderTable([]string{"NAME", "CATEGORIES", "DESCRIPTION"},
		lo.Map(defs, func(d tools.Definition, _ int) []string {
			return []string{d.Name, strings.Join(d.Categories, ","), d.Description}
		}))
}
