package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stache/config"
)

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config.JSONSchema())
		},
	}
}
