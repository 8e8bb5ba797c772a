package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asls/angelscript/diag"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax and symbol errors in AngelScript files",
		Long: "Report syntax and symbol errors in AngelScript files.\n\n" +
			"Without arguments every script below the working directory is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(".")
			if err != nil {
				return err
			}
			_, snaps, err := loadDocuments(cfg, args)
			if err != nil {
				return err
			}

			printer := newDiagnosticPrinter(cmd.OutOrStdout())
			var errors, warnings int
			for _, snap := range snaps {
				for _, d := range snap.Diagnostics() {
					switch d.Severity {
					case diag.Error:
						errors++
					case diag.Warning:
						warnings++
					}
					printer.Print(d, snap.Content)
				}
			}
			if !quiet {
				printer.Summary(errors, warnings, len(snaps))
			}

			if errors > 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("%s found", plural(errors, "error"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "omit the summary line")

	return cmd
}
