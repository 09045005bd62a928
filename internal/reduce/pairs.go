// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reduce

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// RowPair is two survivor rows of different families whose off-targets do
// not overlap.
type RowPair struct {
	First      Row
	Second     Row
	OffTargets int
}

// RowPairStats counts the combinations RowPairs looked at.
type RowPairStats struct {
	Combinations int
	Excluded     int
	Considered   int
}

// RowPairs combines survivor rows two at a time, in input order. Rows of
// the same family are not combined, and only the first combination of each
// ordered family pair is considered. A combination is excluded when any
// off-target of either row matches the pairing exclusions; excluded
// combinations do not use up their family pair. Considered combinations
// with disjoint off-target descriptors are returned, fewest combined
// off-targets first, ties in input order.
func RowPairs(rows []Row, lists *blocklist.Lists) ([]RowPair, RowPairStats) {
	var st RowPairStats
	families := make([]string, len(rows))
	descriptors := make([]map[string]struct{}, len(rows))
	for i, r := range rows {
		families[i] = family(r.PrimerID())
		descriptors[i] = make(map[string]struct{}, len(r.OffTargets))
		for _, o := range r.OffTargets {
			descriptors[i][o.String()] = struct{}{}
		}
	}

	type familyPair struct{ a, b string }
	considered := make(map[familyPair]struct{})
	var out []RowPair
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			st.Combinations++
			key := familyPair{families[i], families[j]}
			if key.a == key.b {
				continue
			}
			if _, ok := considered[key]; ok {
				continue
			}
			if excludedFromPairing(descriptors[i], lists) || excludedFromPairing(descriptors[j], lists) {
				st.Excluded++
				continue
			}
			considered[key] = struct{}{}
			st.Considered++
			if intersects(descriptors[i], descriptors[j]) {
				continue
			}
			out = append(out, RowPair{
				First:      rows[i],
				Second:     rows[j],
				OffTargets: len(descriptors[i]) + len(descriptors[j]),
			})
		}
	}
	sort.SliceStable(out, func(x, y int) bool { return out[x].OffTargets < out[y].OffTargets })
	return out, st
}

// family returns the family of a primer id, or the id itself when it does
// not parse.
func family(id string) string {
	if p, err := types.ParsePrimerID(id); err == nil {
		return p.Family
	}
	return id
}

func excludedFromPairing(descriptors map[string]struct{}, lists *blocklist.Lists) bool {
	for d := range descriptors {
		if lists.ExcludesFromPairing(d) {
			return true
		}
	}
	return false
}

// WriteRowPairs writes one line per pair: both primer ids and the combined
// off-target count.
func WriteRowPairs(w io.Writer, pairs []RowPair) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "survivor pairs without shared off-targets: %d\n", len(pairs))
	fmt.Fprintln(bw, "first primer id\tsecond primer id\toff-targets")
	for _, p := range pairs {
		fmt.Fprintf(bw, "%s\t%s\t%d\n", p.First.PrimerID(), p.Second.PrimerID(), p.OffTargets)
	}
	return bw.Flush()
}
