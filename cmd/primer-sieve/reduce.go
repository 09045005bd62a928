// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/internal/reduce"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <prefix.survivor.tsv>",
	Short: "Merge survivors sharing 3' ends and find mutually safe groups",
	Long: `Reduce groups the rows of a survivor table by the last --size bases of
both primers. Rows whose off-targets include a blocklisted species, or whose
primer id is blocklisted, are dropped first.

With --safe-pairs, prints every ordered pair of groups whose four 3' anchors
are distinct and whose off-target species do not overlap, fewest off-target
species first.

With --row-pairs, ungrouped survivor rows are combined instead: rows of
different families whose off-target descriptors do not overlap, skipping
rows with an off-target that matches pairing_exclude in the blocklist.`,
	Args: cobra.ExactArgs(1),
	RunE: runReduce,
}

func runReduce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"reduce.anchor_length": "size",
		"reduce.safe_pairs":    "safe-pairs",
		"reduce.row_pairs":     "row-pairs",
	})
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	lists, err := loadLists(cfg.Filter.BlocklistPath)
	if err != nil {
		return err
	}
	rows, st, err := reduce.ReadFile(args[0], os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Reduce.RowPairs {
		return writeRowPairs(rows, lists, output)
	}
	res := reduce.Reduce(rows, lists, cfg.Reduce.AnchorLength)
	fmt.Fprintf(os.Stderr, "%d rows (%d skipped), %d blocklisted, %d groups\n",
		st.Rows, st.Skipped, res.Dropped, len(res.Groups))

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	if cfg.Reduce.SafePairs {
		pairs := reduce.SafePairs(res.Groups)
		fmt.Fprintf(os.Stderr, "%d mutually safe group pairs\n", len(pairs))
		err = reduce.WriteSafePairs(w, pairs)
	} else {
		err = reduce.WriteGroups(w, res)
	}
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

// writeRowPairs combines individual survivor rows rather than groups.
func writeRowPairs(rows []reduce.Row, lists *blocklist.Lists, output string) error {
	pairs, st := reduce.RowPairs(rows, lists)
	fmt.Fprintf(os.Stderr, "%d survivor rows, %d combinations, %d excluded, %d considered, %d without shared off-targets\n",
		len(rows), st.Combinations, st.Excluded, st.Considered, len(pairs))

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	err = reduce.WriteRowPairs(w, pairs)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	reduceCmd.Flags().IntP("size", "s", types.DefaultAnchorLength, "number of 3'-terminal bases that must match")
	reduceCmd.Flags().BoolP("safe-pairs", "d", false, "print group pairs whose off-targets do not intersect")
	reduceCmd.Flags().BoolP("row-pairs", "p", false, "print pairs of survivor rows from different families whose off-targets do not intersect")
	reduceCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(reduceCmd)
}
