package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/cside/cal/codebase"
	"github.com/dhamidi/cside/cal/index"
	"github.com/dhamidi/cside/config"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a workspace and build the object index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			root := cfg.Workspace.Root
			if len(args) == 1 {
				root = args[0]
			}

			cb := codebase.New(root, cfg.Workspace.Extensions...)
			if err := cb.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			files := cb.Files()
			withErrors := 0
			for _, f := range files {
				if len(f.Errors) > 0 {
					withErrors++
				}
			}
			fmt.Printf("scanned %d file(s), %d with errors\n", len(files), withErrors)

			if err := os.MkdirAll(filepath.Dir(cfg.Index.Path), 0o755); err != nil {
				return fmt.Errorf("create index directory: %w", err)
			}
			ix, err := index.Open(cfg.Index.Path)
			if err != nil {
				return fmt.Errorf("open index: %w", err)
			}
			defer ix.Close()

			if err := ix.IndexCodebase(cb); err != nil {
				return fmt.Errorf("index: %w", err)
			}
			fmt.Printf("index written to %s\n", cfg.Index.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return cmd
}
