// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the output files of a survivor run. All files are
// rendered in memory first and then written next to each other through
// temporary files, so a failed run leaves no partial reports behind.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/pdiddy/primer-sieve/internal/survivor"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Output file suffixes appended to the run prefix.
const (
	SuffixReport        = ".report"
	SuffixSurvivor      = ".survivor.tsv"
	SuffixSurvivorPair  = ".survivor_pair.tsv"
	SuffixSurvivorName  = ".survivor_name.txt"
	SuffixCrossReactive = ".cross_reactive_species.txt"
	SuffixFinalist      = ".finalist.tsv"
	SuffixFinalistName  = ".finalist_name.txt"
)

// SurvivorColumns is the header of the survivor table.
var SurvivorColumns = []string{
	"primer id",
	"left primer",
	"right primer",
	"primer left Tm",
	"primer right Tm",
	"primer pair product Tm",
	"survived side",
	"trapped side",
	"blast hits",
}

// PairColumns is the header of the survivor pair table.
var PairColumns = SurvivorColumns[:6:6]

// Suffixes returns every output suffix in write order.
func Suffixes() []string {
	return []string{
		SuffixReport, SuffixSurvivor, SuffixSurvivorPair, SuffixSurvivorName,
		SuffixCrossReactive, SuffixFinalist, SuffixFinalistName,
	}
}

// Write renders every report for out and writes them under prefix. Either
// all files are written or none is.
func Write(prefix string, out *survivor.Outcome) error {
	renderers := map[string]func(io.Writer, *survivor.Outcome) error{
		SuffixReport:        WriteSummary,
		SuffixSurvivor:      WriteSurvivors,
		SuffixSurvivorPair:  WriteSurvivorPairs,
		SuffixSurvivorName:  WriteSurvivorNames,
		SuffixCrossReactive: WriteCrossReactive,
		SuffixFinalist:      WriteFinalists,
		SuffixFinalistName:  WriteFinalistNames,
	}

	files := make(map[string][]byte, len(renderers))
	for _, suffix := range Suffixes() {
		var buf bytes.Buffer
		if err := renderers[suffix](&buf, out); err != nil {
			return fmt.Errorf("rendering %s%s: %w", prefix, suffix, err)
		}
		files[prefix+suffix] = buf.Bytes()
	}
	return writeAll(files)
}

// writeAll writes every file through a temporary sibling and renames them
// into place once all were written. When a rename fails, the files already
// renamed are removed again.
func writeAll(files map[string][]byte) (err error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	temps := make(map[string]string, len(paths))
	defer func() {
		if err == nil {
			return
		}
		for _, tmp := range temps {
			if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
				err = multierr.Append(err, rmErr)
			}
		}
	}()

	for _, p := range paths {
		dir := filepath.Dir(p)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		tmp, err := os.CreateTemp(dir, ".primer-sieve-*.tmp")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		temps[p] = tmp.Name()
		_, writeErr := tmp.Write(files[p])
		if err := multierr.Combine(writeErr, tmp.Close()); err != nil {
			return fmt.Errorf("writing %s: %w", p, err)
		}
	}

	var renamed []string
	for _, p := range paths {
		if err := os.Rename(temps[p], p); err != nil {
			err = fmt.Errorf("renaming temp file for %s: %w", p, err)
			for _, done := range renamed {
				if rmErr := os.Remove(done); rmErr != nil && !os.IsNotExist(rmErr) {
					err = multierr.Append(err, rmErr)
				}
			}
			return err
		}
		delete(temps, p)
		renamed = append(renamed, p)
	}
	return nil
}

// WriteSummary writes the human-readable run summary.
func WriteSummary(w io.Writer, out *survivor.Outcome) error {
	reasons := make([]string, 0)
	for _, e := range out.Tally.Entries() {
		reasons = append(reasons, fmt.Sprintf("%s:%d", e.Reason, e.Count))
	}
	lines := []struct {
		label string
		value any
	}{
		{"total count of input sequence", len(out.Universe)},
		{"design families", len(out.Designs)},
		{"average primers per family", averagePrimers(len(out.Universe), len(out.Designs))},
		{"total count of blast hits", out.Index.HitCount()},
		{"malformed rows skipped", out.ReportStats.Malformed},
		{"breakdown of reasons for not treating as hit", strings.Join(reasons, "\t")},
		{"considered primer combinations", out.Evaluation.Considered},
		{"cardinality of input trapped by blast", len(out.Evaluation.Trapped)},
		{"discarded by namelist", len(out.Discarded)},
		{"survivor", len(out.Survivors)},
		{"survivor pair", len(out.Pairs)},
		{"finalist families", len(out.Finalists)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-46s: %v\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// averagePrimers is the mean number of primers of each side per family,
// formatted with two decimals.
func averagePrimers(sequences, families int) string {
	if families == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(sequences)/float64(families)/2, 'f', 2, 64)
}

// WriteSurvivors writes one row per surviving identifier. The trapped side
// names the partner primer, and the blast hits column lists the partner's
// off-target descriptors as a JSON array.
func WriteSurvivors(w io.Writer, out *survivor.Outcome) error {
	if _, err := fmt.Fprintln(w, strings.Join(SurvivorColumns, "\t")); err != nil {
		return err
	}
	for _, id := range out.Survivors.Sorted() {
		p, err := types.ParsePrimerID(id)
		if err != nil {
			return fmt.Errorf("survivor %w", err)
		}
		d, err := out.Designs.Design(p.Pair())
		if err != nil {
			return err
		}

		partnerSide := ""
		descriptors := []string{}
		if partner, ok := p.Partner(); ok {
			partnerSide = string(partner.Side)
			hits, err := out.Index.Hits(partner.String())
			if err != nil {
				return err
			}
			descriptors = OffTargets(hits)
		}
		blastHits, err := json.Marshal(descriptors)
		if err != nil {
			return err
		}

		row := append(designColumns(id, d), string(p.Side), partnerSide, string(blastHits))
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteSurvivorPairs writes one row per design whose primers both survived.
func WriteSurvivorPairs(w io.Writer, out *survivor.Outcome) error {
	if _, err := fmt.Fprintln(w, strings.Join(PairColumns, "\t")); err != nil {
		return err
	}
	for _, key := range out.Pairs {
		d, err := out.Designs.Design(key)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Join(designColumns(key.String(), d), "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteSurvivorNames writes the surviving identifiers, one per line.
func WriteSurvivorNames(w io.Writer, out *survivor.Outcome) error {
	for _, id := range out.Survivors.Sorted() {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// WriteCrossReactive writes the taxonomy of the first hit of every trapping
// pair, de-duplicated and sorted.
func WriteCrossReactive(w io.Writer, out *survivor.Outcome) error {
	seen := make(map[string]struct{})
	for _, pair := range out.Evaluation.Pairs {
		h := pair.First
		seen[strings.Join([]string{h.SubjectTaxonID, h.SubjectTaxonIDs, h.SubjectSciName, h.SubjectCommonName}, "\t")] = struct{}{}
	}
	lines := make([]string, 0, len(seen))
	for l := range seen {
		lines = append(lines, l)
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteFinalists writes every design of each finalist family, one row per
// design, with the family id in the first column.
func WriteFinalists(w io.Writer, out *survivor.Outcome) error {
	if _, err := fmt.Fprintln(w, strings.Join(PairColumns, "\t")); err != nil {
		return err
	}
	for _, fam := range out.Finalists {
		for _, d := range out.Designs[fam].Designs {
			if _, err := fmt.Fprintln(w, strings.Join(designColumns(fam, d), "\t")); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFinalistNames writes the finalist family ids, one per line.
func WriteFinalistNames(w io.Writer, out *survivor.Outcome) error {
	for _, fam := range out.Finalists {
		if _, err := fmt.Fprintln(w, fam); err != nil {
			return err
		}
	}
	return nil
}

// OffTargets returns the sorted, de-duplicated off-target descriptors of
// hits.
func OffTargets(hits []types.Hit) []string {
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		seen[h.OffTarget().String()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func designColumns(id string, d types.PrimerDesign) []string {
	return []string{
		id,
		d.LeftSequence,
		d.RightSequence,
		string(d.LeftTm),
		string(d.RightTm),
		string(d.ProductTm),
	}
}
