package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/vegasq/csvfilt/query"
	"github.com/vegasq/csvfilt/reader"
	"github.com/vegasq/csvfilt/schema"
)

func newSchemaCmd(o *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema <path>",
		Short: "Show the typed columns of a file",
		Long: `Show the typed columns of a file.

The yaml format writes a schema file that --schema-file accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := o.setup(cmd)
			if err != nil {
				return err
			}
			opts, err := o.readerOptions(cfg, logger)
			if err != nil {
				return err
			}

			infos, err := reader.ExtractSchemaInfo(args[0], opts)
			if err != nil {
				return err
			}
			return writeSchemaInfo(cmd.OutOrStdout(), format, infos)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, yaml")
	return cmd
}

func writeSchemaInfo(w io.Writer, format string, infos []reader.SchemaInfo) error {
	switch format {
	case "table":
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"#", "name", "type", "physical"})
		for _, info := range infos {
			table.Append([]string{strconv.Itoa(info.Index), info.Name, info.Type, info.PhysicalType})
		}
		table.Render()
		return nil

	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err

	case "yaml":
		columns := make([]schema.Column, len(infos))
		for i, info := range infos {
			t, err := schema.Lookup(info.Type)
			if err != nil {
				return err
			}
			columns[i] = schema.Column{Name: info.Name, Type: t}
		}
		s, err := schema.New(columns...)
		if err != nil {
			return err
		}
		return schema.Encode(w, s)

	default:
		return fmt.Errorf("unknown schema format %q (expected table, json or yaml)", format)
	}
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "Parse a query and print it fully bracketed",
		Long: `Parse a query and print it fully bracketed, showing how && and || group.
Both connectives share one precedence and group to the right, so
"a = 1 && b = 2 || c = 3" means "(a = 1 && (b = 2 || c = 3))".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := query.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), expr.String())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
