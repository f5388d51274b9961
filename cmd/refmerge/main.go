// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refmerge CLI. It reads
// per-extractor reference lists, reconciles them into one authoritative
// list per document, and optionally records the result in SQLite.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --verbose before any command runs.
var logger = zerolog.Nop()

// rootCmd is the base command for the refmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "refmerge",
	Short: "Reconcile reference lists from several extractors",
	Long: `refmerge merges the bibliographies that independent extractors
(CERMINE, GROBID, RefExtract, ...) produced for the same paper into one
authoritative reference list with a confidence score per reference.

Records are normalized, aligned across extractors, checked for plausibility,
and voted on using per-extractor, per-field trust weights (the prior table).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refmerge.yaml or ~/.config/refmerge/refmerge.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log each pipeline stage")
	rootCmd.PersistentFlags().String("priors", "", "YAML prior table (default: built-in table)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: references.db)")

	_ = viper.BindPFlag(keyPriorsFile, rootCmd.PersistentFlags().Lookup("priors"))
	_ = viper.BindPFlag(keyStorePath, rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refmerge"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("REFMERGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
