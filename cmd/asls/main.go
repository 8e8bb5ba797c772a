package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/asls/config"
)

var version = "0.1.0"

type globalFlags struct {
	verbosity  int
	logFile    string
	configPath string
}

// loadConfig reads --config when given, else asls.toml in dir.
func (f *globalFlags) loadConfig(dir string) (*config.Config, error) {
	if f.configPath != "" {
		return config.Load(f.configPath)
	}
	return config.Find(dir)
}

// configureLogging applies the flags, falling back to the [server] section
// for anything not set on the command line.
func (f *globalFlags) configureLogging(cmd *cobra.Command) {
	verbosity, logFile := f.verbosity, f.logFile
	if cfg, err := f.loadConfig("."); err == nil {
		if !cmd.Flags().Changed("verbosity") {
			verbosity = cfg.Server.Verbosity
		}
		if logFile == "" {
			logFile = cfg.Server.LogFile
		}
	}
	if logFile == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &logFile)
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "asls",
		Short: "An AngelScript language server and toolkit",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags.configureLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().IntVarP(&flags.verbosity, "verbosity", "v", 0, "log verbosity (0 logs errors only)")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to asls.toml")

	rootCmd.AddCommand(newLSPCmd(flags))
	rootCmd.AddCommand(newParseCmd(flags))
	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newSymbolsCmd(flags))
	rootCmd.AddCommand(newVersionCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
