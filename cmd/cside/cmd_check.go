package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/cside/cal/parser"
	"github.com/dhamidi/cside/config"
	"github.com/dhamidi/cside/ui"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var quiet bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Parse export files and report syntax errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			files, err := collectExportFiles(args, cfg.Workspace.Extensions)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no export files found")
			}

			failed := 0
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}

				_, errs := parser.ParseText(data)
				if len(errs) == 0 {
					if !quiet {
						ui.OkLine(os.Stdout, file)
					}
					continue
				}

				failed++
				ui.FailLine(os.Stdout, file, len(errs))
				for _, e := range errs {
					ui.ErrorLine(os.Stdout, e)
				}
			}

			ui.SummaryLine(os.Stdout, len(files), failed)
			if failed > 0 {
				return fmt.Errorf("%d file(s) with errors", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report files with errors")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return cmd
}

func hasExportExt(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func collectExportFiles(paths []string, extensions []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if hasExportExt(p, extensions) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
