// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/arXiv/arxiv-references/internal/store"
	"github.com/arXiv/arxiv-references/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "Show the latest stored result for a document",
	Long: `Show prints the most recent merge result recorded with merge --store.
Without a document it lists every stored document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("format", "json", "output format: json or yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	cfg := loadConfig(viper.GetViper())

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		docs, err := s.Documents(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintln(out, d)
		}
		return nil
	}

	ex, err := s.Latest(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s version %d (%s)\n", ex.Document, ex.Version, ex.Created.Format("2006-01-02 15:04:05"))
	return printResult(out, format, ex.Result)
}

func printResult(w io.Writer, format string, result types.MergeResult) error {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
