// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/primer-sieve/internal/discard"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

func idSet(ids ...string) IDSet {
	s := make(IDSet)
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func TestSurvivorsPartition(t *testing.T) {
	universe := []string{"a_0_L", "a_0_R", "a_1_L", "a_1_R", "b_0_L", "b_0_M", "b_0_R"}
	trapped := idSet("a_0_L", "b_0_R")
	discarded := discard.Set{"a_1_R": {}, "a_0_L": {}, "not_in_universe_L": {}}

	got := Survivors(universe, trapped, discarded)
	assert.Equal(t, []string{"a_0_R", "a_1_L", "b_0_L", "b_0_M"}, got.Sorted())

	for id := range got {
		assert.False(t, trapped.Contains(id), "survivor %s is trapped", id)
		assert.False(t, discarded.Contains(id), "survivor %s is discarded", id)
	}
	for _, id := range universe {
		assert.True(t, got.Contains(id) || trapped.Contains(id) || discarded.Contains(id), "%s is unaccounted for", id)
	}
}

func TestSurvivorPairs(t *testing.T) {
	survivors := idSet("a_0_L", "a_0_R", "a_1_L", "b_2_R", "b_2_L", "b_3_M", "c_0_R")

	pairs, err := SurvivorPairs(survivors)
	require.NoError(t, err)
	assert.Equal(t, []types.PairKey{{Family: "a", Index: 0}, {Family: "b", Index: 2}}, pairs)

	inPairs := make(map[types.PairKey]bool)
	for _, p := range pairs {
		inPairs[p] = true
		assert.True(t, survivors.Contains(p.Left().String()))
		assert.True(t, survivors.Contains(p.Right().String()))
	}
	for id := range survivors {
		p, err := types.ParsePrimerID(id)
		require.NoError(t, err)
		partner, ok := p.Partner()
		if !ok {
			continue
		}
		assert.Equal(t, survivors.Contains(partner.String()), inPairs[p.Pair()], id)
	}
}

func TestSurvivorPairsInvalidIdentifier(t *testing.T) {
	for _, bad := range []string{"a_0", "a_b_0_L", "a_x_L", "a_0_Q"} {
		t.Run(bad, func(t *testing.T) {
			_, err := SurvivorPairs(idSet("a_0_L", bad))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrInvalidIdentifier))
		})
	}
}

func TestIndex(t *testing.T) {
	x := NewIndex([]string{"a_0_L", "a_0_R", "a_0_L"})
	assert.Equal(t, []string{"a_0_L", "a_0_R"}, x.Universe())
	assert.Equal(t, 2, x.Len())

	hits, err := x.Hits("a_0_R")
	require.NoError(t, err)
	assert.Empty(t, hits, "seeded identifiers start with no hits")

	_, err = x.Hits("a_1_L")
	assert.ErrorIs(t, err, types.ErrMissingLookupKey)

	require.NoError(t, x.Add(makeHit(t, "a_0_L", "A", 1, 20, 10)))
	require.NoError(t, x.Add(makeHit(t, "a_0_L", "A", 1, 20, 20)))
	hits, err = x.Hits("a_0_L")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 10, hits[0].SubjectStart, "hits keep insertion order")
	assert.Equal(t, 2, x.HitCount())

	err = x.Add(makeHit(t, "z_0_L", "A", 1, 20, 10))
	assert.ErrorIs(t, err, types.ErrMissingLookupKey)
}

func TestFinalists(t *testing.T) {
	design := types.PrimerDesign{LeftSequence: "A", RightSequence: "C"}
	designs := types.DesignSet{
		"a": {Designs: []types.PrimerDesign{design, design}},
		"b": {Designs: []types.PrimerDesign{design}},
		"c": {Designs: []types.PrimerDesign{design}},
		"d": {Designs: []types.PrimerDesign{design}},
	}
	trapped := idSet("a_1_R")
	discarded := discard.Set{"c_0_L": {}, "d_0_M": {}}

	assert.Equal(t, []string{"b", "d"}, Finalists(designs, trapped, discarded),
		"one trapped design drops the family; probes do not count")
	assert.Empty(t, Finalists(types.DesignSet{}, trapped, discarded))
}
