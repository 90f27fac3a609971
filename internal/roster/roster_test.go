package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/virtsched/virtsched/internal/roster"
)

func TestAddAndForEach(t *testing.T) {
	r := roster.New[string](4)
	r.Add(1, "first")
	r.Add(2, "second")
	r.Add(3, "third")

	var seen []string
	r.ForEach(func(s string) { seen = append(seen, s) })

	assert.Equal(t, []string{"first", "second", "third"}, seen)
	assert.Equal(t, 3, r.Len())
}

func TestAddPanicsOnDuplicateID(t *testing.T) {
	r := roster.New[string](4)
	r.Add(1, "first")

	assert.Panics(t, func() {
		r.Add(1, "again")
	})
}

func TestEntriesExposesBackingSlice(t *testing.T) {
	r := roster.New[int](2)
	r.Add(1, 100)
	r.Add(2, 200)

	assert.Equal(t, []int{100, 200}, r.Entries())
}

func TestResetDropsEntriesAndMembership(t *testing.T) {
	r := roster.New[string](2)
	r.Add(1, "a")
	r.Reset()

	assert.Equal(t, 0, r.Len())

	// a previously-used id is legal again after Reset
	r.Add(1, "b")
	assert.Equal(t, 1, r.Len())
}
