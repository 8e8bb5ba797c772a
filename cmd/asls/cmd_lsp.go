package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/asls/angelscript/codebase"
)

func newLSPCmd(flags *globalFlags) *cobra.Command {
	var tcpAddr string
	var webSocketAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []codebase.ServerOption
			if flags.configPath != "" {
				opts = append(opts, codebase.WithConfigFile(flags.configPath))
			}
			server := codebase.NewLSPServer(version, opts...)
			switch {
			case tcpAddr != "":
				return server.RunTCP(tcpAddr)
			case webSocketAddr != "":
				return server.RunWebSocket(webSocketAddr)
			default:
				return server.RunStdio()
			}
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on this TCP address instead of stdio")
	cmd.Flags().StringVar(&webSocketAddr, "websocket", "", "listen on this WebSocket address instead of stdio")
	cmd.MarkFlagsMutuallyExclusive("tcp", "websocket")

	return cmd
}
