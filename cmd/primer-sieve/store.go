// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/primer-sieve/internal/store"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Combine survivor tables from many runs (ingest, export)",
	Long: `Store keeps a SQLite database of survivors collected from many runs.
The first row ingested for a primer id wins; unchanged files are skipped on
later ingests.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <prefix.survivor.tsv>...",
	Short: "Add survivor tables to the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"store.db": "db"})
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(cmd.Context(), args, os.Stderr)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed ingest", summary.Failed)
	}
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored survivor as TSV, YAML or JSON",
	Long: `Export writes the combined survivors ordered by primer id. The TSV format
has the survivor table layout and can be passed to reduce.`,
	Args: cobra.NoArgs,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"store.db": "db"})
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	err = s.Export(cmd.Context(), w, format)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	storeCmd.PersistentFlags().String("db", types.DefaultDBPath, "survivor database file")
	storeExportCmd.Flags().String("format", store.FormatTSV, "export format: tsv, yaml or json")
	storeExportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeExportCmd)
	rootCmd.AddCommand(storeCmd)
}
