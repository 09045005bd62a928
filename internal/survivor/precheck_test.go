// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/internal/filter"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

func TestPrecheck(t *testing.T) {
	dir := t.TempDir()
	fa := writeFile(t, dir, "primers.fa", fastaOf("f1_0_L", "f1_0_R", "f2_0_L", "f2_0_R"))
	report := writeFile(t, dir, "blast.tsv",
		row("f1_0_L", "NC_1", 1, 20, 100, "3702", "a", "b")+
			row("f2_0_L", "NC_1", 1, 20, 100, "4530", "Oryza sativa", "rice")+
			row("f2_0_R", "NC_1", 1, 15, 100, "3702", "a", "b"))

	var log bytes.Buffer
	res, err := Precheck(fa, report, types.FilterConfig{Anchor: true}, blocklist.Default(), &log)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Universe)
	assert.Equal(t, 1, res.Accepted)
	assert.Equal(t, []string{"f1_0_R", "f2_0_L", "f2_0_R"}, res.Unhit)
	assert.Equal(t, 1, res.Tally.Count(filter.ReasonExcludedTaxon))
	assert.Equal(t, 1, res.Tally.Count(filter.ReasonNotAnchored))
	assert.Contains(t, log.String(), "found 1 blast results")
}

func TestPrecheckMissingInput(t *testing.T) {
	dir := t.TempDir()
	fa := writeFile(t, dir, "primers.fa", fastaOf("f1_0_L"))
	_, err := Precheck(fa, filepath.Join(dir, "missing.tsv"), types.FilterConfig{}, nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking inputs")
}

func TestPrecheckInvalidIdentifier(t *testing.T) {
	dir := t.TempDir()
	fa := writeFile(t, dir, "primers.fa", fastaOf("f1_0_L", "f1_0_X"))
	report := writeFile(t, dir, "blast.tsv", "")
	_, err := Precheck(fa, report, types.FilterConfig{}, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, types.ErrInvalidIdentifier)
}
