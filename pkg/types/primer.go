// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the primer-sieve
// pipeline: primer identifiers, cross-match hits, Primer3 designs, reason
// tallies, stage configuration and the sentinel errors stages wrap.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Side identifies which oligo of a designed pair a sequence record holds.
type Side string

const (
	SideLeft  Side = "L"
	SideRight Side = "R"

	// SideProbe is the internal hybridization probe. It belongs to the
	// identifier universe but is never evaluated for cross-reactivity.
	SideProbe Side = "M"
)

// Partner returns the opposite primer side. The probe side has no partner.
func (s Side) Partner() (Side, bool) {
	switch s {
	case SideLeft:
		return SideRight, true
	case SideRight:
		return SideLeft, true
	}
	return "", false
}

// IsPrimer reports whether s is one of the two amplification primers.
func (s Side) IsPrimer() bool {
	return s == SideLeft || s == SideRight
}

// PrimerID is a parsed primer identifier <family>_<index>_<side>.
type PrimerID struct {
	Family string
	Index  int
	Side   Side
}

// ParsePrimerID splits an identifier into its family, index and side.
// Exactly three underscore-separated tokens are required, the index must be
// a non-negative integer without sign or leading zeros, and the side one of
// L, R or M.
func ParsePrimerID(s string) (PrimerID, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return PrimerID{}, fmt.Errorf("%w: %q has %d tokens, want 3", ErrInvalidIdentifier, s, len(parts))
	}
	if parts[0] == "" {
		return PrimerID{}, fmt.Errorf("%w: %q has an empty family", ErrInvalidIdentifier, s)
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return PrimerID{}, fmt.Errorf("%w: %q has a bad index %q", ErrInvalidIdentifier, s, parts[1])
	}
	side := Side(parts[2])
	if side != SideLeft && side != SideRight && side != SideProbe {
		return PrimerID{}, fmt.Errorf("%w: %q has an unknown side %q", ErrInvalidIdentifier, s, parts[2])
	}
	id := PrimerID{Family: parts[0], Index: idx, Side: side}
	if id.String() != s {
		return PrimerID{}, fmt.Errorf("%w: %q is not in canonical form %q", ErrInvalidIdentifier, s, id)
	}
	return id, nil
}

// NewPrimerID builds the identifier for one side of a designed pair.
func NewPrimerID(family string, index int, side Side) PrimerID {
	return PrimerID{Family: family, Index: index, Side: side}
}

// String formats the identifier as <family>_<index>_<side>.
func (p PrimerID) String() string {
	return fmt.Sprintf("%s_%d_%s", p.Family, p.Index, p.Side)
}

// Pair returns the key shared by both sides of the design.
func (p PrimerID) Pair() PairKey {
	return PairKey{Family: p.Family, Index: p.Index}
}

// Partner returns the identifier of the opposite primer of the same design.
func (p PrimerID) Partner() (PrimerID, bool) {
	side, ok := p.Side.Partner()
	if !ok {
		return PrimerID{}, false
	}
	return PrimerID{Family: p.Family, Index: p.Index, Side: side}, true
}

// PairKey identifies one designed primer pair within a family.
type PairKey struct {
	Family string
	Index  int
}

// String formats the key as <family>_<index>.
func (k PairKey) String() string {
	return fmt.Sprintf("%s_%d", k.Family, k.Index)
}

// Left returns the left primer identifier of the pair.
func (k PairKey) Left() PrimerID { return NewPrimerID(k.Family, k.Index, SideLeft) }

// Right returns the right primer identifier of the pair.
func (k PairKey) Right() PrimerID { return NewPrimerID(k.Family, k.Index, SideRight) }
