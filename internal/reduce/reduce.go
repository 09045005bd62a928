// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reduce merges survivor rows whose primers share their 3'-terminal
// bases on both sides, so near-identical designs are reported together, and
// finds pairs of merged groups, or of single survivor rows, whose
// off-targets do not overlap.
package reduce

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/internal/report"
	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Row is one line of a survivor table.
type Row struct {
	Fields     []string
	OffTargets []types.OffTarget
}

// PrimerID returns the row's primer id column.
func (r Row) PrimerID() string { return r.Fields[0] }

// LeftPrimer returns the left primer sequence.
func (r Row) LeftPrimer() string { return r.Fields[1] }

// RightPrimer returns the right primer sequence.
func (r Row) RightPrimer() string { return r.Fields[2] }

// Species returns the off-target species names of the row.
func (r Row) Species() map[string]struct{} {
	s := make(map[string]struct{}, len(r.OffTargets))
	for _, o := range r.OffTargets {
		s[o.Species] = struct{}{}
	}
	return s
}

// ReadStats counts rows read from a survivor table.
type ReadStats struct {
	Rows    int
	Skipped int
}

// ReadRows parses a survivor table with its header line. Rows with the
// wrong column count or an unreadable blast hits column are reported on w
// and skipped.
func ReadRows(r io.Reader, w io.Writer) ([]Row, ReadStats, error) {
	var st ReadStats
	sc := textio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, st, fmt.Errorf("reading survivor table: %w", err)
		}
		return nil, st, fmt.Errorf("survivor table is empty")
	}
	header := strings.TrimRight(sc.Text(), "\r")
	if header != strings.Join(report.SurvivorColumns, "\t") {
		return nil, st, fmt.Errorf("unexpected survivor table header %q", header)
	}

	var rows []Row
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		st.Rows++
		fields := strings.Split(text, "\t")
		if len(fields) != len(report.SurvivorColumns) {
			st.Skipped++
			fmt.Fprintf(w, "skipped row %d: got %d columns, want %d\n", line, len(fields), len(report.SurvivorColumns))
			continue
		}
		var descriptors []string
		if err := json.Unmarshal([]byte(fields[len(fields)-1]), &descriptors); err != nil {
			st.Skipped++
			fmt.Fprintf(w, "skipped row %d: blast hits: %v\n", line, err)
			continue
		}
		row := Row{Fields: fields}
		for _, d := range descriptors {
			row.OffTargets = append(row.OffTargets, types.ParseOffTarget(d))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, st, fmt.Errorf("reading survivor table: %w", err)
	}
	return rows, st, nil
}

// ReadFile reads the survivor table at path.
func ReadFile(path string, w io.Writer) ([]Row, ReadStats, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	rows, st, err := ReadRows(rc, w)
	if err != nil {
		return nil, st, fmt.Errorf("%s: %w", path, err)
	}
	return rows, st, nil
}

// Key is the pair of 3'-terminal subsequences a group shares.
type Key struct {
	Left  string
	Right string
}

func (k Key) String() string {
	return k.Left + "-" + k.Right
}

// Group is a set of rows sharing a Key, in input order.
type Group struct {
	Key  Key
	Rows []Row
}

// Species returns the union of the members' off-target species.
func (g Group) Species() map[string]struct{} {
	s := make(map[string]struct{})
	for _, r := range g.Rows {
		for sp := range r.Species() {
			s[sp] = struct{}{}
		}
	}
	return s
}

// Result is the outcome of grouping.
type Result struct {
	Dropped int
	Groups  []Group
}

// Blocked reports whether the row is excluded by the lists: its primer id
// (or family) is blocked, or one of its off-targets names a blocked species
// by scientific or common name.
func Blocked(r Row, lists *blocklist.Lists) bool {
	if lists.BlocksPrimer(r.PrimerID()) {
		return true
	}
	for _, o := range r.OffTargets {
		if lists.BlocksSpecies(o.Species) || lists.BlocksSpecies(o.CommonName) {
			return true
		}
	}
	return false
}

// Reduce drops blocked rows and groups the rest by the last anchorLength
// bases of both primers. Groups appear in order of their first member.
func Reduce(rows []Row, lists *blocklist.Lists, anchorLength int) Result {
	var res Result
	pos := make(map[Key]int)
	for _, r := range rows {
		if Blocked(r, lists) {
			res.Dropped++
			continue
		}
		k := Key{Left: suffix(r.LeftPrimer(), anchorLength), Right: suffix(r.RightPrimer(), anchorLength)}
		i, ok := pos[k]
		if !ok {
			i = len(res.Groups)
			pos[k] = i
			res.Groups = append(res.Groups, Group{Key: k})
		}
		res.Groups[i].Rows = append(res.Groups[i].Rows, r)
	}
	return res
}

func suffix(s string, n int) string {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// SafePair is an ordered pair of groups whose four anchors are distinct and
// whose off-target species are disjoint.
type SafePair struct {
	First      Group
	Second     Group
	OffTargets int
}

// SafePairs examines every ordered pair of distinct groups and returns the
// mutually safe ones, fewest combined off-target species first. Ties keep
// group order. The ranking orders candidates only; it is not a score.
func SafePairs(groups []Group) []SafePair {
	species := make([]map[string]struct{}, len(groups))
	for i, g := range groups {
		species[i] = g.Species()
	}

	var out []SafePair
	for i := range groups {
		for j := range groups {
			if i == j {
				continue
			}
			a, b := groups[i].Key, groups[j].Key
			anchors := map[string]struct{}{a.Left: {}, a.Right: {}, b.Left: {}, b.Right: {}}
			if len(anchors) != 4 || intersects(species[i], species[j]) {
				continue
			}
			out = append(out, SafePair{
				First:      groups[i],
				Second:     groups[j],
				OffTargets: len(species[i]) + len(species[j]),
			})
		}
	}
	sort.SliceStable(out, func(x, y int) bool { return out[x].OffTargets < out[y].OffTargets })
	return out
}

func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
