// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survivor

import (
	"fmt"
	"sort"

	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Index maps every primer identifier of the universe to its accepted hits in
// report order. Identifiers are seeded up front, so a lookup of an
// identifier outside the universe is an error rather than an empty list.
type Index struct {
	universe []string
	hits     map[string][]types.Hit
	count    int
}

// NewIndex seeds an index with every identifier in universe. Duplicate
// identifiers are kept once, in first-seen order.
func NewIndex(universe []string) *Index {
	x := &Index{hits: make(map[string][]types.Hit, len(universe))}
	for _, id := range universe {
		if _, ok := x.hits[id]; ok {
			continue
		}
		x.hits[id] = nil
		x.universe = append(x.universe, id)
	}
	return x
}

// Add appends h to the list of its query id.
func (x *Index) Add(h types.Hit) error {
	list, ok := x.hits[h.QueryID]
	if !ok {
		return fmt.Errorf("%w: hit query %q is not in the sequence universe", types.ErrMissingLookupKey, h.QueryID)
	}
	x.hits[h.QueryID] = append(list, h)
	x.count++
	return nil
}

// Hits returns the hits recorded for id. The slice must not be modified.
func (x *Index) Hits(id string) ([]types.Hit, error) {
	list, ok := x.hits[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrMissingLookupKey, id)
	}
	return list, nil
}

// Universe returns the seeded identifiers in first-seen order.
func (x *Index) Universe() []string {
	return x.universe
}

// Len returns the number of seeded identifiers.
func (x *Index) Len() int {
	return len(x.universe)
}

// HitCount returns the number of hits added.
func (x *Index) HitCount() int {
	return x.count
}

// IDSet is a set of primer identifiers.
type IDSet map[string]struct{}

// Add inserts id.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the identifiers in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
