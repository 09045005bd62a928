package types

// TallyEntry is one reason and its count.
type TallyEntry struct {
	Reason string `json:"reason" yaml:"reason"`
	Count  int    `json:"count" yaml:"count"`
}

// Tally counts outcomes by reason label. Reasons keep the order in which
// they were first seeded or added, so reports list them stably. A Tally is
// not safe for concurrent use; concurrent stages keep one per shard and
// Merge them.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally returns a tally with the given reasons pre-seeded at zero.
func NewTally(reasons ...string) *Tally {
	t := &Tally{counts: make(map[string]int, len(reasons))}
	for _, r := range reasons {
		t.seed(r)
	}
	return t
}

func (t *Tally) seed(reason string) {
	if _, ok := t.counts[reason]; !ok {
		t.order = append(t.order, reason)
		t.counts[reason] = 0
	}
}

// Add increments reason by one.
func (t *Tally) Add(reason string) {
	t.seed(reason)
	t.counts[reason]++
}

// Count returns the count for reason.
func (t *Tally) Count(reason string) int {
	return t.counts[reason]
}

// Total returns the sum over all reasons.
func (t *Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Merge adds every count in o to t. Reasons new to t are appended in o's
// order.
func (t *Tally) Merge(o *Tally) {
	if o == nil {
		return
	}
	for _, r := range o.order {
		t.seed(r)
		t.counts[r] += o.counts[r]
	}
}

// Entries returns the reasons and counts in order.
func (t *Tally) Entries() []TallyEntry {
	out := make([]TallyEntry, len(t.order))
	for i, r := range t.order {
		out[i] = TallyEntry{Reason: r, Count: t.counts[r]}
	}
	return out
}
