package main

import (
	"github.com/dhamidi/cside/cal/codebase"
	"github.com/dhamidi/cside/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newLSPCmd() *cobra.Command {
	var configPath string
	var verbosity int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("verbose") {
				verbosity = cfg.Log.Verbosity
			}
			var logPath *string
			if cfg.Log.Path != "" {
				logPath = &cfg.Log.Path
			}
			commonlog.Configure(verbosity, logPath)

			server := codebase.NewLSPServer(version, cfg.Workspace.Extensions...)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (0-2)")

	return cmd
}
