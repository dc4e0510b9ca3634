package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
)

type errorCodeInfo struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Retryable   bool   `json:"retryable"`
	Description string `json:"description"`
}

func newErrorsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List the error codes tool calls can fail with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes := lo.Map(hubErrors.ListErrorCodes(), func(info hubErrors.ErrorCodeInfo, _ int) errorCodeInfo {
				return errorCodeInfo{
					Code:        info.Code,
					Name:        info.Name,
					Kind:        string(info.Kind),
					Retryable:   info.Retryable,
					Description: info.Description,
				}
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(codes)
			}

			rows := lo.Map(codes, func(c errorCodeInfo, _ int) []string {
				return []string{strconv.Itoa(c.Code), c.Name, c.Kind, strconv.FormatBool(c.Retryable), c.Description}
			})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"CODE", "NAME", "KIND", "RETRYABLE", "DESCRIPTION"}, rows))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the codes as JSON")
	return cmd
}
