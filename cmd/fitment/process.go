package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gearpost/fitment/internal/model"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [application text...]",
		Short: "Process part application strings into validated fitments",
		Long: `Process runs the full pipeline over one or more application strings:
parse, resolve model mappings, extract positions, and validate every
candidate fitment against the reference data. With --file, applications
are read one per line and processed as a bounded-concurrency batch.`,
		RunE: runProcess,
	}

	cmd.Flags().IntP("terminology", "t", 0, "part terminology ID for position legality checks")
	cmd.Flags().StringP("file", "f", "", "read application strings from a file, one per line")
	cmd.Flags().StringP("product", "p", "", "persist accepted fitments for this product ID")
	cmd.Flags().Bool("json", false, "emit results as JSON")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	terminologyID, _ := cmd.Flags().GetInt("terminology")
	file, _ := cmd.Flags().GetString("file")
	productID, _ := cmd.Flags().GetString("product")
	asJSON, _ := cmd.Flags().GetBool("json")

	texts := args
	if file != "" {
		fromFile, err := readApplications(file)
		if err != nil {
			return err
		}
		texts = append(texts, fromFile...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no application text given; pass arguments or --file")
	}

	var bar *progressbar.ProgressBar
	var onProgress func(done, total int)
	if len(texts) > 1 && !asJSON {
		bar = progressbar.Default(int64(len(texts)), "processing")
		onProgress = func(_, _ int) { _ = bar.Add(1) }
	}

	eng, cleanup, err := initEngine(ctx, onProgress)
	if err != nil {
		return err
	}
	defer cleanup()

	if terminologyID != 0 {
		term, err := eng.Terminology(ctx, terminologyID)
		if err != nil {
			return fmt.Errorf("part terminology %d: %w", terminologyID, err)
		}
		slog.Info("Checking positions against part terminology",
			"id", term.ID, "name", term.Name)
	}

	results, err := eng.BatchProcessApplications(ctx, texts, terminologyID)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if productID != "" {
		total := 0
		for _, itemResults := range results {
			count, err := eng.SaveMappingResults(ctx, productID, itemResults)
			if err != nil {
				return fmt.Errorf("failed to persist fitments: %w", err)
			}
			total += count
		}
		fmt.Printf("Persisted %d fitment(s) for product %s\n", total, productID)
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	printResults(results)
	return nil
}

func readApplications(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return texts, nil
}

func printResults(results map[string][]model.ValidationResult) {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "INPUT\tYEAR\tMAKE\tMODEL\tPOSITIONS\tSTATUS\tMESSAGE")

	for _, key := range keys {
		for _, r := range results[key] {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				key, r.Fitment.Year, r.Fitment.Make, r.Fitment.Model,
				r.Fitment.Positions, r.Status, r.Message)
		}
	}
	_ = w.Flush()
}
