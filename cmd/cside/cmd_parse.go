package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/cside/cal/parser"
	"github.com/dhamidi/cside/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an object export file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			doc, errs := parser.ParseText(data)

			switch outputFormat {
			case "tree":
				if err := format.NewTreeEncoder(os.Stdout).Encode(doc); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
			case "json":
				if err := format.NewASTJSONEncoder(os.Stdout).Encode(doc); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				fmt.Println()
			case "object":
				if doc.Object == nil {
					return fmt.Errorf("%s: no object declaration found", filename)
				}
				if err := format.NewObjectJSONEncoder(os.Stdout).Encode(doc.Object); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				fmt.Println()
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "%s:%d:%d: %s [%s]\n",
					filename, e.Token.Span.Start.Line, e.Token.Span.Start.Column, e.Message, e.Code)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d parse error(s)", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, object)")

	return cmd
}
