package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stache/datafile"
	"github.com/randalmurphal/stache/template"
)

func newKeysCmd() *cobra.Command {
	var (
		data        string
		missingOnly bool
	)
	cmd := &cobra.Command{
		Use:   "keys TEMPLATE",
		Short: "List the placeholders of a template",
		Long: `List every placeholder of a template with its class and position.

With --missing, list only the keys that do not resolve against --data and
exit with status 4 when there are any.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read template: %w", err)
			}
			tmpl := string(raw)

			if missingOnly {
				if data == "" {
					return usagef("--missing requires --data")
				}
				doc, err := datafile.ReadFile(data)
				if err != nil {
					return fmt.Errorf("load data: %w", err)
				}
				missing := template.MissingKeys(tmpl, doc)
				for _, key := range missing {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				if len(missing) > 0 {
					return &template.MissingValueError{Key: missing[0]}
				}
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tCLASS\tKEY")
			for _, p := range template.Placeholders(tmpl) {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.Start, p.Class, p.Key)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "data file to check keys against")
	cmd.Flags().BoolVar(&missingOnly, "missing", false, "list only keys missing from --data")
	return cmd
}
