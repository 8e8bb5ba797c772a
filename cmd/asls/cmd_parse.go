package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asls/angelscript/ast"
	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/lexer"
	"github.com/dhamidi/asls/angelscript/parser"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var noMemo bool
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an AngelScript file and dump the syntax tree",
		Long: "Parse an AngelScript file and dump the syntax tree.\n\n" +
			"With --expr the argument is parsed as a single expression instead of a file name.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []parser.Option
			if noMemo {
				opts = append(opts, parser.WithoutMemo())
			} else if cfg, err := flags.loadConfig("."); err == nil {
				opts = cfg.ParserOptions()
			}

			var node ast.Node
			var diagnostics []diag.Diagnostic
			if expression {
				tokens, lexDiags := lexer.Tokenize([]byte(args[0]), "<expr>")
				assign, parseDiags := parser.ParseExpression(tokens, opts...)
				node, diagnostics = assign, append(lexDiags, parseDiags...)
			} else {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				result := parser.ParseSource(args[0], data, opts...)
				node, diagnostics = result.Script, result.Diagnostics
			}

			if err := writeTree(cmd.OutOrStdout(), node, outputFormat, includePositions); err != nil {
				return err
			}
			for _, d := range diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, yaml)")
	cmd.Flags().BoolVarP(&includePositions, "positions", "p", false, "include source positions in tree output")
	cmd.Flags().BoolVar(&noMemo, "no-memo", false, "disable parser memoization")
	cmd.Flags().BoolVarP(&expression, "expr", "e", false, "parse the argument as an expression")

	return cmd
}

func writeTree(w io.Writer, node ast.Node, outputFormat string, positions bool) error {
	switch outputFormat {
	case "tree":
		_, err := io.WriteString(w, ast.Dump(node, positions))
		return err
	case "json":
		data, err := ast.MarshalJSON(node)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := ast.MarshalYAML(node)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", outputFormat)
	}
}
