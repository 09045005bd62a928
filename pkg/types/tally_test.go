package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	a := NewTally("b", "a")
	a.Add("a")
	a.Add("c")
	a.Add("a")

	assert.Equal(t, []TallyEntry{{"b", 0}, {"a", 2}, {"c", 1}}, a.Entries())
	assert.Equal(t, 3, a.Total())
	assert.Equal(t, 0, a.Count("missing"))

	b := NewTally("d", "a")
	b.Add("d")
	b.Add("a")
	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []TallyEntry{{"b", 0}, {"a", 3}, {"c", 1}, {"d", 1}}, a.Entries())
	assert.Equal(t, 5, a.Total())
}
