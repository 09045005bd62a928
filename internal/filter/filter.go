// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter decides which cross-match hits count as potential
// off-target binding. A hit is rejected when its subject taxon is on the
// exclusion list, when it does not start at the priming (3') end of the
// primer, or when its subject is labelled as a metagenome.
package filter

import (
	"strings"

	"github.com/pdiddy/primer-sieve/internal/blocklist"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Rejection reasons, in the order checks are applied. The first matching
// check names the bucket a rejected hit is counted under.
const (
	ReasonExcludedTaxon = "by ignore list"
	ReasonNotAnchored   = "not start from 3'"
	ReasonMetagenome    = "metagenome"
)

// Reasons lists every rejection reason in precedence order.
func Reasons() []string {
	return []string{ReasonExcludedTaxon, ReasonNotAnchored, ReasonMetagenome}
}

const metagenomeLabel = "metagenome"

// Filter applies the rejection checks. It holds no mutable state and may be
// shared between goroutines.
type Filter struct {
	lists *blocklist.Lists
	cfg   types.FilterConfig
}

// New returns a filter over the given exclusion lists.
func New(lists *blocklist.Lists, cfg types.FilterConfig) *Filter {
	return &Filter{lists: lists, cfg: cfg}
}

// Reject returns the reason h is rejected, or "" when it is kept.
func (f *Filter) Reject(h types.Hit) string {
	if f.lists.ExcludesTaxon(h.TaxonKey()) {
		return ReasonExcludedTaxon
	}
	if f.cfg.Anchor && !Anchored(h, f.cfg.Offset) {
		return ReasonNotAnchored
	}
	if strings.Contains(h.SubjectCommonName, metagenomeLabel) ||
		strings.Contains(h.SubjectSciName, metagenomeLabel) {
		return ReasonMetagenome
	}
	return ""
}

// Keep applies Reject and counts a rejection in tally. It reports whether
// the hit is kept.
func (f *Filter) Keep(h types.Hit, tally *types.Tally) bool {
	reason := f.Reject(h)
	if reason == "" {
		return true
	}
	tally.Add(reason)
	return false
}

// Anchored reports whether h begins within offset positions of the primer's
// priming end: query start 1 for a left primer, query end equal to the query
// length for a right primer.
func Anchored(h types.Hit, offset int) bool {
	if offset < 0 {
		offset = 0
	}
	switch h.Primer.Side {
	case types.SideLeft:
		return h.QueryStart-1 <= offset
	case types.SideRight:
		return h.QueryLen-h.QueryEnd <= offset
	}
	return false
}
