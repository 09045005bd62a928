// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survivor decides which primers survive the cross-reactivity
// check. Accepted cross-match hits are indexed by primer identifier; for
// every designed pair the hits of both primers are combined two at a time,
// and a combination that could amplify an off-target product traps both
// primers. Survivors are the primer universe minus trapped and discarded
// identifiers.
package survivor

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/primer-sieve/internal/blast"
	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/internal/discard"
	"github.com/pdiddy/primer-sieve/internal/fasta"
	"github.com/pdiddy/primer-sieve/internal/filter"
	"github.com/pdiddy/primer-sieve/internal/primer3"
	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Inputs names the files of one survivor run.
type Inputs struct {
	SequencePath string
	ReportPath   string
	DesignPath   string
	DiscardPaths []string
}

func (in Inputs) paths() []string {
	return append([]string{in.SequencePath, in.ReportPath, in.DesignPath}, in.DiscardPaths...)
}

// Outcome holds everything a run computed, for the report writers.
type Outcome struct {
	Universe    []string
	Designs     types.DesignSet
	Index       *Index
	ReportStats blast.Stats

	// Tally holds the filter rejections followed by the evaluation
	// reasons.
	Tally *types.Tally

	Evaluation *Evaluation
	Discarded  discard.Set
	Survivors  IDSet
	Pairs      []types.PairKey

	// Finalists lists, sorted, the design families none of whose primers
	// was trapped or discarded.
	Finalists []string
}

// Run executes the survivor pipeline: read the primer universe, filter and
// index the report's hits, evaluate every design, and aggregate survivors.
// Every input file is checked for readability before any is processed.
// Progress is written to w.
func Run(ctx context.Context, in Inputs, cfg types.PipelineConfig, lists *blocklist.Lists, w io.Writer) (*Outcome, error) {
	if err := textio.Check(in.paths()...); err != nil {
		return nil, fmt.Errorf("checking inputs: %w", err)
	}

	fmt.Fprintf(w, "start reading %s\n", in.SequencePath)
	universe, err := fasta.ReadIDs(in.SequencePath)
	if err != nil {
		return nil, err
	}
	if err := checkIdentifiers(universe); err != nil {
		return nil, err
	}
	index := NewIndex(universe)
	fmt.Fprintf(w, "found %d fasta records\n", index.Len())

	discarded, err := discard.Load(in.DiscardPaths...)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "start reading %s\n", in.ReportPath)
	f := filter.New(lists, cfg.Filter)
	filterTally := types.NewTally(filter.Reasons()...)
	st, err := blast.ReadFile(in.ReportPath, w, func(h types.Hit) error {
		if !f.Keep(h, filterTally) {
			return nil
		}
		return index.Add(h)
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "found %d blast results (%d rows, %d malformed)\n", index.HitCount(), st.Rows, st.Malformed)

	designs, err := primer3.LoadDesigns(in.DesignPath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "loaded %d designs in %d families\n", designs.PairCount(), len(designs))

	eval, err := NewEvaluator(index, cfg.Evaluate).Evaluate(ctx, designs)
	if err != nil {
		return nil, fmt.Errorf("evaluating designs: %w", err)
	}
	fmt.Fprintf(w, "considered %d hit combinations, %d primers trapped\n", eval.Considered, len(eval.Trapped))

	finalists := Finalists(designs, eval.Trapped, discarded)
	fmt.Fprintf(w, "%d of %d design families are finalists\n", len(finalists), len(designs))

	survivors := Survivors(index.Universe(), eval.Trapped, discarded)
	pairs, err := SurvivorPairs(survivors)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "%d survivors, %d survivor pairs\n", len(survivors), len(pairs))

	tally := types.NewTally()
	tally.Merge(filterTally)
	tally.Merge(eval.Tally)

	return &Outcome{
		Universe:    index.Universe(),
		Designs:     designs,
		Index:       index,
		ReportStats: st,
		Tally:       tally,
		Evaluation:  eval,
		Discarded:   discarded,
		Survivors:   survivors,
		Pairs:       pairs,
		Finalists:   finalists,
	}, nil
}

// checkIdentifiers fails on the first sequence id that is not a canonical
// primer identifier.
func checkIdentifiers(ids []string) error {
	for _, id := range ids {
		if _, err := types.ParsePrimerID(id); err != nil {
			return fmt.Errorf("sequence record: %w", err)
		}
	}
	return nil
}
