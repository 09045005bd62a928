// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/primer-sieve/internal/report"
	"github.com/pdiddy/primer-sieve/internal/survivor"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

var surviveCmd = &cobra.Command{
	Use:   "survive <primers.fa> <blast.tsv> <primers.json>",
	Short: "Find the primers and primer pairs free of off-target amplification",
	Long: `Survive reads the primer sequences, the BLAST report (outfmt "6 qseqid
sseqid sacc qlen qstart qend slen sstart send qseq sseq evalue length staxid
staxids ssciname scomname", plain or gzip) and the Primer3 design metadata.

Hits on excluded taxa, hits not anchored at the primer's 3' end and hits on
metagenome subjects are dropped. For every designed pair, the remaining hits
of both primers are combined two at a time; two hits facing each other on the
same subject within --distance bases trap both primers. Survivors are the
primers that are neither trapped nor listed in a --discard file.

Writes <prefix>.report, .survivor.tsv, .survivor_pair.tsv,
.survivor_name.txt, .cross_reactive_species.txt, and the families without
any trapped or discarded primer to .finalist.tsv and .finalist_name.txt.`,
	Args: cobra.ExactArgs(3),
	RunE: runSurvive,
}

func runSurvive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"filter.anchor":     "anchor",
		"filter.offset":     "offset",
		"evaluate.distance": "distance",
		"evaluate.workers":  "workers",
	})
	if err != nil {
		return err
	}
	discards, _ := cmd.Flags().GetStringSlice("discard")
	prefix, _ := cmd.Flags().GetString("output")

	lists, err := loadLists(cfg.Filter.BlocklistPath)
	if err != nil {
		return err
	}

	in := survivor.Inputs{
		SequencePath: args[0],
		ReportPath:   args[1],
		DesignPath:   args[2],
		DiscardPaths: discards,
	}
	out, err := survivor.Run(cmd.Context(), in, cfg, lists, os.Stderr)
	if err != nil {
		return err
	}
	if err := report.Write(prefix, out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s%s and companion files\n", prefix, report.SuffixReport)
	return nil
}

func init() {
	surviveCmd.Flags().StringSlice("discard", nil, "namelist of identifiers to discard, one per line (repeatable)")
	surviveCmd.Flags().Int("offset", 0, "positions a hit may stop short of the primer's 3' end and still count")
	surviveCmd.Flags().Bool("anchor", true, "drop hits that do not reach the primer's 3' end")
	surviveCmd.Flags().Int("distance", types.DefaultDistance, "largest subject start separation that still traps a pair (0 disables)")
	surviveCmd.Flags().Int("workers", 0, "concurrent evaluation workers (0 = number of CPUs)")
	surviveCmd.Flags().StringP("output", "o", types.DefaultOutputPrefix, "output file prefix")

	rootCmd.AddCommand(surviveCmd)
}
