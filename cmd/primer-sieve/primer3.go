// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/primer-sieve/internal/fasta"
	"github.com/pdiddy/primer-sieve/internal/primer3"
)

var primer3Cmd = &cobra.Command{
	Use:   "primer3 <primer3-output>",
	Short: "Convert Primer3 Boulder-IO output to design JSON, FASTA or TSV",
	Long: `Primer3 parses Primer3 Boulder-IO output and writes the design metadata
used by survive. Templates for which Primer3 returned no pair are dropped.

  --format json   design metadata keyed by SEQUENCE_ID (default)
  --format fasta  primers named <family>_<index>_<L|M|R>; the right primer is
                  reverse complemented
  --format tsv    sequences, Tm and GC content, one row per design`,
	Args: cobra.ExactArgs(1),
	RunE: runPrimer3,
}

func runPrimer3(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	set, st, err := primer3.ParseFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d records, %d without pairs, %d designs in %d families\n",
		st.Records, st.Empty, st.Designs, len(set))

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		err = primer3.WriteJSON(w, set)
	case "fasta":
		err = fasta.Write(w, primer3.Records(set))
	case "tsv":
		err = primer3.WriteTSV(w, set)
	default:
		err = fmt.Errorf("unknown format %q (want json, fasta or tsv)", format)
	}
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	primer3Cmd.Flags().String("format", "json", "output format: json, fasta or tsv")
	primer3Cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(primer3Cmd)
}
