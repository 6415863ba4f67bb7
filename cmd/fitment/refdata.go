package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gearpost/fitment/internal/model"
)

func refdataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refdata",
		Short: "Manage the local reference database",
	}

	cmd.AddCommand(refdataLoadCmd())
	return cmd
}

// refdataLoadCmd loads VCDB vehicles and PCDB terminologies from a JSON
// export into the configured reference database. The production datasets
// usually arrive pre-built; this path exists for fixtures and small
// installations.
func refdataLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.json>",
		Short: "Load vehicles and part terminologies from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			var doc struct {
				Vehicles      []model.VCDBVehicle     `json:"vehicles"`
				Terminologies []model.PartTerminology `json:"terminologies"`
			}
			if err := json.NewDecoder(f).Decode(&doc); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			gateway, err := initRefData()
			if err != nil {
				return err
			}
			defer func() { _ = gateway.Close() }()

			if err := gateway.Seed(ctx, doc.Vehicles, doc.Terminologies); err != nil {
				return err
			}

			slog.Info("Loaded reference data",
				"vehicles", len(doc.Vehicles),
				"terminologies", len(doc.Terminologies))
			return nil
		},
	}
}
