// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"fmt"
	"io"

	"github.com/pdiddy/primer-sieve/internal/blast"
	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/internal/fasta"
	"github.com/pdiddy/primer-sieve/internal/filter"
	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// PrecheckResult summarizes a filter-only pass over a report.
type PrecheckResult struct {
	Universe    int
	ReportStats blast.Stats
	Accepted    int
	Tally       *types.Tally

	// Unhit lists the universe identifiers without any accepted hit, in
	// sequence file order.
	Unhit []string
}

// Precheck filters the report's hits against the primer universe without
// evaluating designs. It answers which primers have no plausible
// off-target hit at all before a full run.
func Precheck(sequencePath, reportPath string, cfg types.FilterConfig, lists *blocklist.Lists, w io.Writer) (*PrecheckResult, error) {
	if err := textio.Check(sequencePath, reportPath); err != nil {
		return nil, fmt.Errorf("checking inputs: %w", err)
	}

	fmt.Fprintf(w, "start reading %s\n", sequencePath)
	ids, err := fasta.ReadIDs(sequencePath)
	if err != nil {
		return nil, err
	}
	if err := checkIdentifiers(ids); err != nil {
		return nil, err
	}
	index := NewIndex(ids)
	fmt.Fprintf(w, "finish reading %s, %d records\n", sequencePath, index.Len())

	fmt.Fprintf(w, "start reading %s\n", reportPath)
	f := filter.New(lists, cfg)
	tally := types.NewTally(filter.Reasons()...)
	st, err := blast.ReadFile(reportPath, w, func(h types.Hit) error {
		if !f.Keep(h, tally) {
			return nil
		}
		return index.Add(h)
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "found %d blast results\n", index.HitCount())

	res := &PrecheckResult{
		Universe:    index.Len(),
		ReportStats: st,
		Accepted:    index.HitCount(),
		Tally:       tally,
	}
	for _, id := range index.Universe() {
		hits, err := index.Hits(id)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			res.Unhit = append(res.Unhit, id)
		}
	}
	return res, nil
}
