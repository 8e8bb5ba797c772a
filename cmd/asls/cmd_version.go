package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check it against asls.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "asls %s\n", version)

			cfg, err := flags.loadConfig(".")
			if err != nil {
				return err
			}
			if cfg.Server.Requires == "" {
				return nil
			}
			if err := cfg.CheckVersion(version); err != nil {
				return err
			}
			fmt.Fprintf(out, "satisfies %q\n", cfg.Server.Requires)
			return nil
		},
	}
}
