// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package primer3

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/fasta"
	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// LoadDesigns reads design metadata JSON from path.
func LoadDesigns(path string) (types.DesignSet, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	var set types.DesignSet
	if err := json.NewDecoder(rc).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing design metadata %s: %w", path, err)
	}
	for id, fam := range set {
		for i, d := range fam.Designs {
			if d.LeftSequence == "" || d.RightSequence == "" {
				return nil, fmt.Errorf("design metadata %s: %s_%d lacks a left or right primer sequence", path, id, i)
			}
		}
	}
	return set, nil
}

// WriteJSON writes set as indented JSON.
func WriteJSON(w io.Writer, set types.DesignSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// Records returns the primer sequences of set as FASTA records named
// <family>_<index>_<side>, in family order. The right primer is written as
// the reverse complement of the sequence Primer3 reports, so that both
// primers read along the template's plus strand. The internal probe is
// included when the design has one.
func Records(set types.DesignSet) []fasta.Record {
	var out []fasta.Record
	for _, id := range set.Families() {
		for i, d := range set[id].Designs {
			key := types.PairKey{Family: id, Index: i}
			out = append(out, fasta.Record{ID: key.Left().String(), Seq: d.LeftSequence})
			if d.InternalSequence != "" {
				out = append(out, fasta.Record{
					ID:  types.NewPrimerID(id, i, types.SideProbe).String(),
					Seq: d.InternalSequence,
				})
			}
			out = append(out, fasta.Record{ID: key.Right().String(), Seq: fasta.ReverseComplement(d.RightSequence)})
		}
	}
	return out
}

// TSVColumns is the header of the tabular export.
var TSVColumns = []string{
	"PRIMER_LEFT_SEQUENCE",
	"PRIMER_INTERNAL_SEQUENCE",
	"PRIMER_RIGHT_SEQUENCE",
	"PRIMER_LEFT_TM",
	"PRIMER_INTERNAL_TM",
	"PRIMER_RIGHT_TM",
	"PRIMER_LEFT_GC_PERCENT",
	"PRIMER_RIGHT_GC_PERCENT",
	"PRIMER_INTERNAL_GC_PERCENT",
}

// WriteTSV writes one row per design with the TSVColumns values.
func WriteTSV(w io.Writer, set types.DesignSet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(TSVColumns, "\t"))
	for _, id := range set.Families() {
		for _, d := range set[id].Designs {
			fmt.Fprintln(bw, strings.Join([]string{
				d.LeftSequence,
				d.InternalSequence,
				d.RightSequence,
				string(d.LeftTm),
				string(d.InternalTm),
				string(d.RightTm),
				string(d.LeftGCPercent),
				string(d.RightGCPercent),
				string(d.InternalGC),
			}, "\t"))
		}
	}
	return bw.Flush()
}
