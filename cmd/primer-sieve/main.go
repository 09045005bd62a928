// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the primer-sieve CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the primer-sieve CLI.
var rootCmd = &cobra.Command{
	Use:   "primer-sieve",
	Short: "Screen designed PCR primer pairs for off-target amplification",
	Long: `primer-sieve evaluates candidate PCR primer pairs for specificity. It reads
the primer sequences, a BLAST cross-match report of those primers against a
sequence database, and the Primer3 design metadata, and reports which primers
and primer pairs survive plausible off-target co-amplification.

Subcommands: primer3 converts Primer3 output, precheck runs the hit filter
alone, survive runs the full evaluation, reduce merges near-identical
survivors, and store combines survivor tables across runs.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./primer-sieve.yaml or ~/.config/primer-sieve/primer-sieve.yaml)")
	rootCmd.PersistentFlags().String("blocklist", "", "blocklist YAML with excluded taxa, blocked species and primers (default: built-in lists)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("primer-sieve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "primer-sieve"))
		}
	}

	viper.SetEnvPrefix("PRIMER_SIEVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	defaults := types.DefaultPipelineConfig()
	viper.SetDefault("filter.blocklist", defaults.Filter.BlocklistPath)
	viper.SetDefault("filter.anchor", defaults.Filter.Anchor)
	viper.SetDefault("filter.offset", defaults.Filter.Offset)
	viper.SetDefault("evaluate.distance", defaults.Evaluate.Distance)
	viper.SetDefault("evaluate.workers", defaults.Evaluate.Workers)
	viper.SetDefault("reduce.anchor_length", defaults.Reduce.AnchorLength)
	viper.SetDefault("reduce.safe_pairs", defaults.Reduce.SafePairs)
	viper.SetDefault("reduce.row_pairs", defaults.Reduce.RowPairs)
	viper.SetDefault("store.db", defaults.Store.DBPath)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds config keys to flags of the running command, so a flag
// given on the command line overrides the config file and environment.
// Binding happens per run because several commands share a key.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// loadConfig resolves the pipeline configuration from defaults, config
// file, environment and bound flags.
func loadConfig(cmd *cobra.Command, keys map[string]string) (types.PipelineConfig, error) {
	keys["filter.blocklist"] = "blocklist"
	if err := bindFlags(cmd, keys); err != nil {
		return types.PipelineConfig{}, err
	}
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// loadLists reads the blocklist and reports its sizes on stderr.
func loadLists(path string) (*blocklist.Lists, error) {
	lists, err := blocklist.Load(path)
	if err != nil {
		return nil, err
	}
	source := path
	if source == "" {
		source = "built-in"
	}
	taxa, species, primers, pairing := lists.Summary()
	fmt.Fprintf(os.Stderr, "blocklist %s: %d excluded taxa, %d blocked species, %d blocked primers, %d pairing exclusions\n",
		source, taxa, species, primers, pairing)
	return lists, nil
}

// openOutput returns stdout for "" or "-", and a created file otherwise.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
