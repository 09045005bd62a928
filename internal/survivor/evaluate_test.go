// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/primer-sieve/pkg/types"
)

// makeHit builds a hit through the report row parser. qstart < qend makes a
// left primer hit forward and a right primer hit reverse.
func makeHit(t *testing.T, qid, acc string, qstart, qend, sstart int) types.Hit {
	t.Helper()
	h, err := types.NewHit([]string{
		qid, "gi|" + acc, acc, "20", strconv.Itoa(qstart), strconv.Itoa(qend),
		"5000", strconv.Itoa(sstart), strconv.Itoa(sstart + 19),
		"ACGT", "ACGT", "0.01", "20",
		"3702", "3702", "Arabidopsis thaliana", "thale cress",
	})
	require.NoError(t, err)
	return h
}

func designSet(families map[string]int) types.DesignSet {
	set := make(types.DesignSet)
	for fam, n := range families {
		designs := make([]types.PrimerDesign, n)
		for i := range designs {
			designs[i] = types.PrimerDesign{LeftSequence: "ACGT", RightSequence: "TTGG"}
		}
		set[fam] = types.DesignFamily{Designs: designs}
	}
	return set
}

func TestClassify(t *testing.T) {
	fwd := func(acc string, sstart int) types.Hit { return makeHit(t, "f1_0_L", acc, 1, 20, sstart) }
	rev := func(acc string, sstart int) types.Hit { return makeHit(t, "f1_0_R", acc, 1, 20, sstart) }

	tests := []struct {
		name     string
		a, b     types.Hit
		distance int
		want     string
	}{
		{"different accession", fwd("A", 100), rev("B", 300), 20000, ReasonDifferentSequence},
		{"same direction", fwd("A", 100), makeHit(t, "f1_0_R", "A", 20, 1, 300), 20000, ReasonSameDirection},
		{"forward downstream of reverse", fwd("A", 500), rev("A", 300), 20000, ReasonNoIntersection},
		{"far apart", fwd("A", 100), rev("A", 30100), 20000, ReasonFarApart},
		{"exactly at distance traps", fwd("A", 100), rev("A", 20100), 20000, ""},
		{"distance gate disabled", fwd("A", 100), rev("A", 90100), 0, ""},
		{"facing and close", fwd("A", 100), rev("A", 300), 20000, ""},
		{"same start traps", fwd("A", 100), rev("A", 100), 20000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.a, tt.b, tt.distance))
			assert.Equal(t, tt.want, Classify(tt.b, tt.a, tt.distance), "argument order must not matter")
		})
	}
}

func TestClassifyNeverTrapsSameOrientationOrDifferentSequence(t *testing.T) {
	for _, start := range []int{1, 50, 100, 5000} {
		a := makeHit(t, "f1_0_L", "A", 1, 20, 100)
		sameDir := makeHit(t, "f1_0_L", "A", 1, 20, start)
		otherSeq := makeHit(t, "f1_0_R", "B", 1, 20, start)
		assert.NotEmpty(t, Classify(a, sameDir, 20000))
		assert.NotEmpty(t, Classify(a, otherSeq, 20000))
	}
}

func evaluationIndex(t *testing.T) *Index {
	t.Helper()
	x := NewIndex([]string{
		"f1_0_L", "f1_0_R", "f1_1_L", "f1_1_R",
		"f2_0_L", "f2_0_M", "f2_0_R",
	})
	for _, h := range []types.Hit{
		makeHit(t, "f1_0_L", "A", 1, 20, 100),
		makeHit(t, "f1_0_R", "A", 1, 20, 300),
		makeHit(t, "f1_1_L", "A", 1, 20, 100),
		makeHit(t, "f1_1_R", "B", 1, 20, 300),
		makeHit(t, "f2_0_L", "A", 1, 20, 100),
		makeHit(t, "f2_0_L", "A", 1, 20, 900),
	} {
		require.NoError(t, x.Add(h))
	}
	return x
}

func TestEvaluate(t *testing.T) {
	x := evaluationIndex(t)
	ev := NewEvaluator(x, types.EvaluateConfig{Distance: types.DefaultDistance, Workers: 2})

	res, err := ev.Evaluate(context.Background(), designSet(map[string]int{"f1": 2, "f2": 1}))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Considered)
	assert.Equal(t, []string{"f1_0_L", "f1_0_R"}, res.Trapped.Sorted())
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "f1_0_L", res.Pairs[0].First.QueryID)
	assert.Equal(t, "f1_0_R", res.Pairs[0].Second.QueryID)
	assert.Equal(t, []types.TallyEntry{
		{Reason: ReasonDifferentSequence, Count: 1},
		{Reason: ReasonSameDirection, Count: 1},
		{Reason: ReasonNoIntersection, Count: 0},
		{Reason: ReasonFarApart, Count: 0},
	}, res.Tally.Entries())
}

func TestEvaluateIndependentOfWorkers(t *testing.T) {
	x := evaluationIndex(t)
	designs := designSet(map[string]int{"f1": 2, "f2": 1})

	one, err := NewEvaluator(x, types.EvaluateConfig{Distance: 20000, Workers: 1}).Evaluate(context.Background(), designs)
	require.NoError(t, err)
	many, err := NewEvaluator(x, types.EvaluateConfig{Distance: 20000, Workers: 8}).Evaluate(context.Background(), designs)
	require.NoError(t, err)
	auto, err := NewEvaluator(x, types.EvaluateConfig{Distance: 20000}).Evaluate(context.Background(), designs)
	require.NoError(t, err)

	assert.Equal(t, one, many)
	assert.Equal(t, one, auto)
}

func TestEvaluateMissingLookupKey(t *testing.T) {
	x := NewIndex([]string{"f1_0_L"})
	_, err := NewEvaluator(x, types.EvaluateConfig{}).Evaluate(context.Background(), designSet(map[string]int{"f1": 1}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingLookupKey))
	assert.Contains(t, err.Error(), "f1_0_R")
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEvaluator(evaluationIndex(t), types.EvaluateConfig{}).Evaluate(ctx, designSet(map[string]int{"f1": 2}))
	assert.ErrorIs(t, err, context.Canceled)
}
