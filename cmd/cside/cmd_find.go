package main

import (
	"fmt"

	"github.com/dhamidi/cside/cal/index"
	"github.com/dhamidi/cside/config"
	"github.com/spf13/cobra"
)

func newFindCmd() *cobra.Command {
	var configPath string
	var findSymbols bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search the object index by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			ix, err := index.Open(cfg.Index.Path)
			if err != nil {
				return fmt.Errorf("open index (run cside scan first): %w", err)
			}
			defer ix.Close()

			if findSymbols {
				rows, err := ix.SearchSymbols(args[0])
				if err != nil {
					return err
				}
				for _, row := range rows {
					fmt.Printf("%s:%d %s %s (%s)\n", row.FilePath, row.Line, row.Kind, row.Name, row.Container)
				}
				return nil
			}

			rows, err := ix.SearchObjects(args[0])
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%s %d %s\t%s\n", row.ObjectKind, row.ObjectID, row.Name, row.FilePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVarP(&findSymbols, "symbols", "s", false, "search procedures and fields instead of objects")

	return cmd
}
