// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Reasons a pair of hits is not counted as a plausible off-target product,
// in the order the checks are applied.
const (
	ReasonDifferentSequence = "different sequence"
	ReasonSameDirection     = "same direction"
	ReasonNoIntersection    = "opposite direction and no intersection"
	ReasonFarApart          = "opposite direction, far enough away"
)

// Reasons lists every evaluation reason in check order.
func Reasons() []string {
	return []string{ReasonDifferentSequence, ReasonSameDirection, ReasonNoIntersection, ReasonFarApart}
}

// Classify decides whether hits a and b could co-amplify a product. It
// returns the reason they cannot, or "" when the pair traps its primers.
// A distance of zero or less disables the separation gate.
func Classify(a, b types.Hit, distance int) string {
	if a.SubjectAccession != b.SubjectAccession {
		return ReasonDifferentSequence
	}
	if a.Orientation == b.Orientation {
		return ReasonSameDirection
	}
	fwd, rev := a, b
	if fwd.Orientation != types.Forward {
		fwd, rev = b, a
	}
	if fwd.SubjectStart > rev.SubjectStart {
		return ReasonNoIntersection
	}
	if distance > 0 && abs(a.SubjectStart-b.SubjectStart) > distance {
		return ReasonFarApart
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// TrappedPair is two hits that face each other on one subject sequence
// closely enough to amplify.
type TrappedPair struct {
	First  types.Hit
	Second types.Hit
}

// Evaluation is the outcome of the cross-reactivity pass.
type Evaluation struct {
	// Tally counts pairs by the reason they were not trapped.
	Tally *types.Tally

	// Considered counts every hit pair examined.
	Considered int

	// Trapped holds the query ids of every trapping pair.
	Trapped IDSet

	// Pairs lists the trapping hit pairs in family, index, combination
	// order.
	Pairs []TrappedPair
}

func newEvaluation() *Evaluation {
	return &Evaluation{Tally: types.NewTally(Reasons()...), Trapped: make(IDSet)}
}

func (e *Evaluation) merge(o *Evaluation) {
	e.Tally.Merge(o.Tally)
	e.Considered += o.Considered
	for id := range o.Trapped {
		e.Trapped.Add(id)
	}
	e.Pairs = append(e.Pairs, o.Pairs...)
}

// Evaluator runs the pairwise check over every designed pair.
type Evaluator struct {
	index *Index
	cfg   types.EvaluateConfig
}

// NewEvaluator returns an evaluator reading hits from index.
func NewEvaluator(index *Index, cfg types.EvaluateConfig) *Evaluator {
	return &Evaluator{index: index, cfg: cfg}
}

// Evaluate examines, for every design, all unordered pairs drawn from the
// left primer's hits followed by the right primer's hits. Families are
// evaluated concurrently on a bounded pool; each keeps its own counters and
// the results are merged in family order, so the outcome does not depend
// on scheduling. A design whose primers are missing from the index fails
// the whole evaluation.
func (ev *Evaluator) Evaluate(ctx context.Context, designs types.DesignSet) (*Evaluation, error) {
	families := designs.Families()
	shards := make([]*Evaluation, len(families))

	workers := ev.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, fam := range families {
		i, fam := i, fam
		g.Go(func() error {
			res, err := ev.evaluateFamily(ctx, fam, len(designs[fam].Designs))
			if err != nil {
				return err
			}
			shards[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := newEvaluation()
	for _, s := range shards {
		out.merge(s)
	}
	return out, nil
}

func (ev *Evaluator) evaluateFamily(ctx context.Context, family string, n int) (*Evaluation, error) {
	res := newEvaluation()
	for idx := 0; idx < n; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := types.PairKey{Family: family, Index: idx}
		left, err := ev.index.Hits(key.Left().String())
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", key, err)
		}
		right, err := ev.index.Hits(key.Right().String())
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", key, err)
		}

		hits := make([]types.Hit, 0, len(left)+len(right))
		hits = append(hits, left...)
		hits = append(hits, right...)
		for i := 0; i < len(hits); i++ {
			for j := i + 1; j < len(hits); j++ {
				res.Considered++
				if reason := Classify(hits[i], hits[j], ev.cfg.Distance); reason != "" {
					res.Tally.Add(reason)
					continue
				}
				res.Trapped.Add(hits[i].QueryID)
				res.Trapped.Add(hits[j].QueryID)
				res.Pairs = append(res.Pairs, TrappedPair{First: hits[i], Second: hits[j]})
			}
		}
	}
	return res, nil
}
