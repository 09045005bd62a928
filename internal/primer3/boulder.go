// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package primer3 converts Primer3 Boulder-IO output into the design
// metadata consumed by the survivor pipeline, and loads that metadata back
// from JSON.
package primer3

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

const (
	keySequenceID  = "SEQUENCE_ID"
	keyPairsNumber = "PRIMER_PAIR_NUM_RETURNED"
)

// Per-design keys carry the design index after the oligo name, as in
// PRIMER_LEFT_0_SEQUENCE or PRIMER_PAIR_3_PRODUCT_TM.
var designKey = regexp.MustCompile(`^PRIMER_(LEFT|RIGHT|INTERNAL|PAIR)_(\d+)(_[A-Z_]+)?$`)

var designFields = []struct {
	key string
	set func(d *types.PrimerDesign, v string)
}{
	{"PRIMER_PAIR_%d_PENALTY", func(d *types.PrimerDesign, v string) { d.PairPenalty = types.Measure(v) }},
	{"PRIMER_LEFT_%d_PENALTY", func(d *types.PrimerDesign, v string) { d.LeftPenalty = types.Measure(v) }},
	{"PRIMER_RIGHT_%d_PENALTY", func(d *types.PrimerDesign, v string) { d.RightPenalty = types.Measure(v) }},
	{"PRIMER_INTERNAL_%d_PENALTY", func(d *types.PrimerDesign, v string) { d.InternalPenalty = types.Measure(v) }},
	{"PRIMER_LEFT_%d_SEQUENCE", func(d *types.PrimerDesign, v string) { d.LeftSequence = v }},
	{"PRIMER_RIGHT_%d_SEQUENCE", func(d *types.PrimerDesign, v string) { d.RightSequence = v }},
	{"PRIMER_INTERNAL_%d_SEQUENCE", func(d *types.PrimerDesign, v string) { d.InternalSequence = v }},
	{"PRIMER_LEFT_%d", func(d *types.PrimerDesign, v string) { d.Left = v }},
	{"PRIMER_RIGHT_%d", func(d *types.PrimerDesign, v string) { d.Right = v }},
	{"PRIMER_INTERNAL_%d", func(d *types.PrimerDesign, v string) { d.Internal = v }},
	{"PRIMER_LEFT_%d_TM", func(d *types.PrimerDesign, v string) { d.LeftTm = types.Measure(v) }},
	{"PRIMER_RIGHT_%d_TM", func(d *types.PrimerDesign, v string) { d.RightTm = types.Measure(v) }},
	{"PRIMER_INTERNAL_%d_TM", func(d *types.PrimerDesign, v string) { d.InternalTm = types.Measure(v) }},
	{"PRIMER_LEFT_%d_GC_PERCENT", func(d *types.PrimerDesign, v string) { d.LeftGCPercent = types.Measure(v) }},
	{"PRIMER_RIGHT_%d_GC_PERCENT", func(d *types.PrimerDesign, v string) { d.RightGCPercent = types.Measure(v) }},
	{"PRIMER_INTERNAL_%d_GC_PERCENT", func(d *types.PrimerDesign, v string) { d.InternalGC = types.Measure(v) }},
	{"PRIMER_PAIR_%d_PRODUCT_SIZE", func(d *types.PrimerDesign, v string) { d.ProductSize = types.Measure(v) }},
	{"PRIMER_PAIR_%d_PRODUCT_TM", func(d *types.PrimerDesign, v string) { d.ProductTm = types.Measure(v) }},
}

// ParseStats counts the Boulder-IO records seen by Parse.
type ParseStats struct {
	Records int
	Empty   int
	Designs int
}

// Parse reads Primer3 Boulder-IO output. Each record is a run of KEY=VALUE
// lines closed by a line starting with "=". Records for which Primer3
// returned no pair are dropped. Every remaining record becomes one design
// family keyed by its SEQUENCE_ID, holding exactly PRIMER_PAIR_NUM_RETURNED
// designs.
func Parse(r io.Reader) (types.DesignSet, ParseStats, error) {
	var st ParseStats
	set := make(types.DesignSet)
	rec := make(map[string]string)
	sc := textio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if strings.HasPrefix(text, "=") {
			st.Records++
			id, fam, err := family(rec)
			if err != nil {
				return nil, st, fmt.Errorf("record ending at line %d: %w", line, err)
			}
			rec = make(map[string]string)
			if len(fam.Designs) == 0 {
				st.Empty++
				continue
			}
			if _, dup := set[id]; dup {
				return nil, st, fmt.Errorf("record ending at line %d: duplicate %s %q", line, keySequenceID, id)
			}
			set[id] = fam
			st.Designs += len(fam.Designs)
			continue
		}
		key, value, ok := strings.Cut(strings.TrimSpace(text), "=")
		if !ok {
			return nil, st, fmt.Errorf("line %d: %q is not KEY=VALUE", line, text)
		}
		rec[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, st, fmt.Errorf("reading primer3 output: %w", err)
	}
	if len(rec) > 0 {
		return nil, st, fmt.Errorf("unterminated record at end of input")
	}
	return set, st, nil
}

// ParseFile opens path (plain or gzip) and parses it with Parse.
func ParseFile(path string) (types.DesignSet, ParseStats, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	set, st, err := Parse(rc)
	if err != nil {
		return nil, st, fmt.Errorf("%s: %w", path, err)
	}
	return set, st, nil
}

func family(rec map[string]string) (string, types.DesignFamily, error) {
	id := rec[keySequenceID]
	if id == "" {
		return "", types.DesignFamily{}, fmt.Errorf("missing %s", keySequenceID)
	}
	raw, ok := rec[keyPairsNumber]
	if !ok {
		return "", types.DesignFamily{}, fmt.Errorf("%s: missing %s", id, keyPairsNumber)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return "", types.DesignFamily{}, fmt.Errorf("%s: %s %q is not a count", id, keyPairsNumber, raw)
	}

	input := make(map[string]string)
	highest := -1
	for k, v := range rec {
		m := designKey.FindStringSubmatch(k)
		if m == nil {
			input[k] = v
			continue
		}
		if i, _ := strconv.Atoi(m[2]); i > highest {
			highest = i
		}
	}
	if n == 0 {
		return id, types.DesignFamily{Input: input}, nil
	}
	if highest+1 != n {
		return "", types.DesignFamily{}, fmt.Errorf("%s: %s is %d but designs run to index %d", id, keyPairsNumber, n, highest)
	}

	designs := make([]types.PrimerDesign, n)
	for i := range designs {
		for _, f := range designFields {
			if v, ok := rec[fmt.Sprintf(f.key, i)]; ok {
				f.set(&designs[i], v)
			}
		}
		if designs[i].LeftSequence == "" || designs[i].RightSequence == "" {
			return "", types.DesignFamily{}, fmt.Errorf("%s: design %d lacks a left or right primer sequence", id, i)
		}
	}
	return id, types.DesignFamily{Input: input, Designs: designs}, nil
}
