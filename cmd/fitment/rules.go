package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearpost/fitment/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"rule"},
		Short:   "Manage model-mapping rules",
		Long: `Manage the pattern rules that resolve free-text vehicle descriptions
into canonical make/model pairs. Higher-priority rules win when several
patterns match the same text.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesShowCmd())
	cmd.AddCommand(rulesCreateCmd())
	cmd.AddCommand(rulesEditCmd())
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesImportCmd())
	cmd.AddCommand(rulesRefreshCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mapping rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			activeOnly, _ := cmd.Flags().GetBool("active")
			rules, err := store.ListMappingRules(ctx, activeOnly)
			if err != nil {
				return fmt.Errorf("failed to list mapping rules: %w", err)
			}

			if len(rules) == 0 {
				slog.Info("No mapping rules found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tPATTERN\tMAKE\tCODE\tMODEL\tPRIORITY\tACTIVE")
			for _, r := range rules {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%t\n",
					r.ID, r.Pattern, r.Mapping.Make, r.Mapping.VehicleCode,
					r.Mapping.Model, r.Priority, r.IsActive)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Bool("active", false, "show only active rules")
	return cmd
}

func rulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one mapping rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := store.GetMappingRule(ctx, id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rule)
		},
	}
}

func rulesCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mapping rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			pattern, _ := cmd.Flags().GetString("pattern")
			mappingStr, _ := cmd.Flags().GetString("mapping")
			priority, _ := cmd.Flags().GetInt("priority")
			inactive, _ := cmd.Flags().GetBool("inactive")

			mapping, err := model.ParseModelMapping(mappingStr)
			if err != nil {
				return fmt.Errorf("invalid --mapping: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := &model.ModelMappingRule{
				Pattern:  pattern,
				Mapping:  mapping,
				Priority: priority,
				IsActive: !inactive,
			}
			if err := store.CreateMappingRule(ctx, rule); err != nil {
				return err
			}

			slog.Info("Created mapping rule", "id", rule.ID, "pattern", rule.Pattern)
			return nil
		},
	}

	cmd.Flags().String("pattern", "", "text pattern (substring, or wildcard with * and ?)")
	cmd.Flags().String("mapping", "", "mapping as Make|VehicleCode|Model")
	cmd.Flags().Int("priority", 0, "rule priority (higher wins)")
	cmd.Flags().Bool("inactive", false, "create the rule deactivated")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func rulesEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a mapping rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := store.GetMappingRule(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("pattern") {
				rule.Pattern, _ = cmd.Flags().GetString("pattern")
			}
			if cmd.Flags().Changed("mapping") {
				mappingStr, _ := cmd.Flags().GetString("mapping")
				mapping, err := model.ParseModelMapping(mappingStr)
				if err != nil {
					return fmt.Errorf("invalid --mapping: %w", err)
				}
				rule.Mapping = mapping
			}
			if cmd.Flags().Changed("priority") {
				rule.Priority, _ = cmd.Flags().GetInt("priority")
			}
			if cmd.Flags().Changed("active") {
				rule.IsActive, _ = cmd.Flags().GetBool("active")
			}

			if err := store.UpdateMappingRule(ctx, rule); err != nil {
				return err
			}

			slog.Info("Updated mapping rule", "id", rule.ID)
			return nil
		},
	}

	cmd.Flags().String("pattern", "", "new pattern")
	cmd.Flags().String("mapping", "", "new mapping as Make|VehicleCode|Model")
	cmd.Flags().Int("priority", 0, "new priority")
	cmd.Flags().Bool("active", true, "activate or deactivate the rule")

	return cmd
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mapping rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteMappingRule(ctx, id); err != nil {
				return err
			}

			slog.Info("Deleted mapping rule", "id", id)
			return nil
		},
	}
}

func rulesImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Bulk-import mapping rules",
		Long: `Import rules from a JSON document shaped as mapping string to array of
patterns, e.g. {"Toyota|TC18|Camry": ["Camry", "CAMRY LE"]}. Existing
pattern/mapping pairs are updated rather than duplicated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			priority, _ := cmd.Flags().GetInt("priority")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := store.ImportRulesJSON(ctx, f, priority)
			if err != nil {
				return err
			}

			slog.Info("Imported mapping rules", "count", count, "file", args[0])
			return nil
		},
	}

	cmd.Flags().Int("priority", 0, "priority assigned to imported rules")
	return cmd
}

func rulesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the in-memory rule index from persisted rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, cleanup, err := initEngine(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			// initEngine already refreshed once; doing it again proves the
			// persisted rules reload cleanly without a restart.
			return eng.RefreshMappings(ctx)
		},
	}
}
