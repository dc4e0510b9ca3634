package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errToolFailed sets a non-zero exit status after the error payload is printed
var errToolFailed = errors.New("tool call failed")

func newCallCmd(load loadFunc) *cobra.Command {
	var args string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke one tool locally and print its response",
		Long: `Invoke one tool locally, without a protocol client, and print the JSON
response an assistant would receive.

Examples:
  hubscout call search_images --args '{"query":"nginx","page_size":5}'
  hubscout call compare_images --args '{"image_names":["nginx","httpd"]}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			resp := rt.registry.Dispatch(cmd.Context(), positional[0], json.RawMessage(args))
			body, err := resp.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))

			if !resp.OK {
				return fmt.Errorf("%w: %s", errToolFailed, resp.Error.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&args, "args", "{}", "Tool arguments as a JSON object")
	return cmd
}
