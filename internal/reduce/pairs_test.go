// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reduce

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
)

func pairingRows(t *testing.T) []Row {
	t.Helper()
	return readRows(t, table(
		tableRow(t, "a_0_L", "A", "C", "X x(1: ex)"),
		tableRow(t, "a_0_R", "A", "C", "Y y(2: why)"),
		tableRow(t, "b_0_L", "G", "T", "Y y(2: why)"),
		tableRow(t, "b_0_R", "G", "T"),
		tableRow(t, "c_0_L", "AA", "CC", "Homo sapiens(9606: human)"),
		tableRow(t, "d_0_L", "GG", "TT", "Z z(3: zed)", "W w(4: dub)"),
		tableRow(t, "e_0_L", "AC", "GT", "X x(1: ex)"),
	))
}

func TestRowPairs(t *testing.T) {
	pairs, st := RowPairs(pairingRows(t), blocklist.Default())

	assert.Equal(t, RowPairStats{Combinations: 21, Excluded: 6, Considered: 6}, st)

	var got [][2]string
	var counts []int
	for _, p := range pairs {
		got = append(got, [2]string{p.First.PrimerID(), p.Second.PrimerID()})
		counts = append(counts, p.OffTargets)
	}
	assert.Equal(t, [][2]string{
		{"a_0_L", "b_0_L"},
		{"b_0_L", "e_0_L"},
		{"a_0_L", "d_0_L"},
		{"b_0_L", "d_0_L"},
		{"d_0_L", "e_0_L"},
	}, got, "a/e share an off-target, c is excluded, each family pair is considered once")
	assert.Equal(t, []int{2, 2, 3, 3, 3}, counts)
}

func TestRowPairsWithoutExclusions(t *testing.T) {
	pairs, st := RowPairs(pairingRows(t), nil)
	assert.Zero(t, st.Excluded)
	assert.Equal(t, 10, st.Considered)

	var withC int
	for _, p := range pairs {
		if p.First.PrimerID() == "c_0_L" || p.Second.PrimerID() == "c_0_L" {
			withC++
		}
	}
	assert.Equal(t, 4, withC)
}

func TestWriteRowPairs(t *testing.T) {
	pairs, _ := RowPairs(pairingRows(t), blocklist.Default())
	var buf bytes.Buffer
	require.NoError(t, WriteRowPairs(&buf, pairs[:2]))
	assert.Equal(t,
		"survivor pairs without shared off-targets: 2\n"+
			"first primer id\tsecond primer id\toff-targets\n"+
			"a_0_L\tb_0_L\t2\n"+
			"b_0_L\te_0_L\t2\n",
		buf.String())
}
