package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <application text>",
		Short: "Parse one application string without validating",
		Long: `Parse shows how one application string decomposes: the extracted year
range, vehicle and position segments, and the unvalidated candidate
fitments the current rule index resolves. Diagnostic use only; nothing
is persisted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			app, candidates, err := eng.ParseOnly(ctx, args[0])
			if err != nil {
				return err
			}

			out := struct {
				Application any `json:"application"`
				Candidates  any `json:"candidates"`
			}{app, candidates}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to encode output: %w", err)
			}
			return nil
		},
	}
}
