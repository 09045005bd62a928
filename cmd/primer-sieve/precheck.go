// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/primer-sieve/internal/survivor"
)

var precheckCmd = &cobra.Command{
	Use:   "precheck <primers.fa> <blast.tsv>",
	Short: "Filter a BLAST report and list primers without any accepted hit",
	Long: `Precheck applies the hit filter of survive to a BLAST report without
evaluating designs. It prints the rejection counts followed by every primer
identifier that has no accepted hit.`,
	Args: cobra.ExactArgs(2),
	RunE: runPrecheck,
}

func runPrecheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"filter.anchor": "anchor",
		"filter.offset": "offset",
	})
	if err != nil {
		return err
	}
	lists, err := loadLists(cfg.Filter.BlocklistPath)
	if err != nil {
		return err
	}

	res, err := survivor.Precheck(args[0], args[1], cfg.Filter, lists, os.Stderr)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(w, "# sequences: %d, accepted hits: %d, malformed rows: %d\n",
		res.Universe, res.Accepted, res.ReportStats.Malformed)
	for _, e := range res.Tally.Entries() {
		fmt.Fprintf(w, "# %s: %d\n", e.Reason, e.Count)
	}
	fmt.Fprintf(w, "# without accepted hits: %d\n", len(res.Unhit))
	for _, id := range res.Unhit {
		fmt.Fprintln(w, id)
	}
	return w.Flush()
}

func init() {
	precheckCmd.Flags().Int("offset", 0, "positions a hit may stop short of the primer's 3' end and still count")
	precheckCmd.Flags().Bool("anchor", true, "drop hits that do not reach the primer's 3' end")

	rootCmd.AddCommand(precheckCmd)
}
