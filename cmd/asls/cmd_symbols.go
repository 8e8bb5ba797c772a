package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asls/angelscript/symbols"
)

func newSymbolsCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "Analyze an AngelScript file and dump its scope tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(".")
			if err != nil {
				return err
			}
			_, snaps, err := loadDocuments(cfg, args)
			if err != nil {
				return err
			}
			return writeScope(cmd.OutOrStdout(), snaps[0].Analysis.Global, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, yaml)")

	return cmd
}

func writeScope(w io.Writer, scope *symbols.Scope, outputFormat string) error {
	switch outputFormat {
	case "tree":
		_, err := io.WriteString(w, symbols.Dump(scope))
		return err
	case "json":
		data, err := symbols.MarshalJSON(scope)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := symbols.MarshalYAML(scope)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}
}
