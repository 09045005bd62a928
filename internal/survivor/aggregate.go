// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"fmt"
	"sort"

	"github.com/pdiddy/primer-sieve/internal/discard"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Survivors returns the universe minus the trapped and discarded
// identifiers.
func Survivors(universe []string, trapped IDSet, discarded discard.Set) IDSet {
	out := make(IDSet, len(universe))
	for _, id := range universe {
		if trapped.Contains(id) || discarded.Contains(id) {
			continue
		}
		out.Add(id)
	}
	return out
}

// SurvivorPairs returns the designs whose left and right primers both
// survived, sorted by family then index. Probe identifiers have no partner
// and never form a pair. An identifier that does not parse fails the call.
func SurvivorPairs(survivors IDSet) ([]types.PairKey, error) {
	seen := make(map[types.PairKey]struct{})
	for _, id := range survivors.Sorted() {
		p, err := types.ParsePrimerID(id)
		if err != nil {
			return nil, fmt.Errorf("survivor %w", err)
		}
		partner, ok := p.Partner()
		if !ok {
			continue
		}
		if survivors.Contains(partner.String()) {
			seen[p.Pair()] = struct{}{}
		}
	}

	pairs := make([]types.PairKey, 0, len(seen))
	for k := range seen {
		pairs = append(pairs, k)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Family != pairs[j].Family {
			return pairs[i].Family < pairs[j].Family
		}
		return pairs[i].Index < pairs[j].Index
	})
	return pairs, nil
}

// Finalists returns, sorted, the families whose every design kept both
// primers: no left or right identifier of any design is trapped or
// discarded. Probe identifiers do not take part.
func Finalists(designs types.DesignSet, trapped IDSet, discarded discard.Set) []string {
	var out []string
	for _, fam := range designs.Families() {
		ok := true
		for idx := range designs[fam].Designs {
			key := types.PairKey{Family: fam, Index: idx}
			for _, id := range []string{key.Left().String(), key.Right().String()} {
				if trapped.Contains(id) || discarded.Contains(id) {
					ok = false
				}
			}
		}
		if ok {
			out = append(out, fam)
		}
	}
	return out
}
