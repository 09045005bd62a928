// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reduce

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/report"
)

// Header is the column header of both grouped outputs.
var Header = "primer group\t" + strings.Join(report.SurvivorColumns, "\t")

// WriteGroups writes every group: the group name on its first row, a blank
// name on the following ones, and an empty line after each group.
func WriteGroups(w io.Writer, res Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "groups after merging similar primers: %d\n", len(res.Groups))
	fmt.Fprintln(bw, Header)
	for _, g := range res.Groups {
		writeGroup(bw, g)
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteSafePairs writes each safe pair as its two groups followed by an
// empty line.
func WriteSafePairs(w io.Writer, pairs []SafePair) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "mutually safe group pairs: %d\n", len(pairs))
	fmt.Fprintln(bw, Header)
	for _, p := range pairs {
		writeGroup(bw, p.First)
		writeGroup(bw, p.Second)
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func writeGroup(w io.Writer, g Group) {
	for i, r := range g.Rows {
		name := " "
		if i == 0 {
			name = g.Key.String()
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(r.Fields, "\t"))
	}
}
