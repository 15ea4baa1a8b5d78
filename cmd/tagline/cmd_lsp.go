package main

import (
	"github.com/dhamidi/tagline/config"
	"github.com/dhamidi/tagline/workspace"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			if configPath != "" {
				loaded, err := loadConfig()
				if err != nil {
					return err
				}
				cfg = loaded
			}
			server := workspace.NewLSPServer(version, cfg)
			return server.RunStdio()
		},
	}
}
