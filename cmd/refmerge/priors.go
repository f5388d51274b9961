// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arXiv/arxiv-references/internal/priors"
)

var priorsCmd = &cobra.Command{
	Use:   "priors",
	Short: "Print the active prior table as YAML",
	Long: `Priors validates and prints the per-extractor, per-field trust weights that merge
will use. Without a configured priors file this is the built-in table, which
makes a convenient starting point for a custom one:

  refmerge priors > priors.yaml`,
	RunE: runPriors,
}

func init() {
	rootCmd.AddCommand(priorsCmd)
}

func runPriors(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	table, err := loadPriors(cfg.Merge)
	if err != nil {
		return err
	}
	return priors.Write(cmd.OutOrStdout(), table)
}
