// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arXiv/arxiv-references/internal/merge"
	"github.com/arXiv/arxiv-references/internal/store"
	"github.com/arXiv/arxiv-references/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [extraction files...]",
	Short: "Merge extractor outputs into one reference list per document",
	Long: `Merge reads extraction files, each a JSON object of the form

  {"document": "1704.01689", "extractions": {"cermine": [...], "grobid": [...]}}

and writes <document>.merged.json (or .yaml) to the output directory.
Documents whose output is newer than the input are skipped unless --force
is given. With --store the result is also recorded in the SQLite database.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("out-dir", "merged", "directory for merged output")
	mergeCmd.Flags().String("format", "json", "output format: json or yaml")
	mergeCmd.Flags().Bool("force", false, "merge even when the output is up to date")
	mergeCmd.Flags().Bool("store", false, "record results in the SQLite database")
	mergeCmd.Flags().Int("workers", 0, "documents merged concurrently (default: one per CPU)")
	mergeCmd.Flags().Float64("min-score", 0, "drop references scoring below this")
	mergeCmd.Flags().Float64("similarity", 0, "merge near-identical text votes at this similarity, in (0,1)")

	_ = viper.BindPFlag(keyWorkers, mergeCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(keyMinScore, mergeCmd.Flags().Lookup("min-score"))
	_ = viper.BindPFlag(keySimilarityThreshold, mergeCmd.Flags().Lookup("similarity"))

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more extraction files")
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	format, _ := cmd.Flags().GetString("format")
	force, _ := cmd.Flags().GetBool("force")
	useStore, _ := cmd.Flags().GetBool("store")

	cfg := loadConfig(viper.GetViper())
	return mergeFiles(cmd.Context(), args, cfg.Merge, cfg.Store, merge.FileOptions{
		OutDir: outDir,
		Format: format,
		Force:  force,
	}, useStore, os.Stdout)
}

func mergeFiles(ctx context.Context, paths []string, mcfg types.MergeConfig, scfg types.StoreConfig, opts merge.FileOptions, useStore bool, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	table, err := loadPriors(mcfg)
	if err != nil {
		return err
	}

	if useStore {
		s, err := store.NewStore(scfg)
		if err != nil {
			return err
		}
		defer s.Close()
		opts.Sink = s
	}

	m := merge.New(table, mcfg, merge.WithLogger(logger))
	summary, err := m.MergeFiles(ctx, paths, opts, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nmerged: %d, skipped: %d, failed: %d\n", summary.Merged, summary.Skipped, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed to merge", summary.Failed)
	}
	return nil
}
