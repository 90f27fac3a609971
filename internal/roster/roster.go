/*
Package roster tracks every task ever created by a scheduler, in creation
order, for as long as the scheduler lives. It is the append-only complement
to package ready's queues: ready.Queues holds non-owning references to tasks
that are currently Ready, while Roster is the sole owner, walked on Signal's
device scan and swept during End's join.

The membership set embedded here is adapted from the teacher's
set/dict.go (lemon-mint/go-datastructures/set), trimmed to the single
operation this package needs: "have I already seen this id", used to guard
against double-registration, which would otherwise corrupt the join sweep.
*/
package roster

import "github.com/virtsched/virtsched/internal/tidset"

// ID is the task identity type, duplicated here (rather than imported) to
// avoid a dependency cycle with the owning package; both aliases resolve to
// the same underlying uint64 at the call site.
type ID uint64

// Roster holds every entry of type T (the caller's task record) appended to
// it, plus a fast membership check keyed by ID.
type Roster[T any] struct {
	entries []T
	seen    *tidset.Set
}

// New returns an empty roster with room for hint entries.
func New[T any](hint int) *Roster[T] {
	return &Roster[T]{
		entries: make([]T, 0, hint),
		seen:    tidset.New(),
	}
}

// Add appends entry to the roster. It panics if id has already been added;
// task ids are never reused, so a collision indicates a bug in the id
// allocator.
func (r *Roster[T]) Add(id ID, entry T) {
	if r.seen.Exists(uint64(id)) {
		panic("roster: duplicate task id")
	}
	r.seen.Add(uint64(id))
	r.entries = append(r.entries, entry)
}

// Len returns the number of tasks ever registered.
func (r *Roster[T]) Len() int {
	return len(r.entries)
}

// ForEach visits every entry in creation order. fn must not mutate the
// roster itself (it may mutate the entry it is given).
func (r *Roster[T]) ForEach(fn func(T)) {
	for _, entry := range r.entries {
		fn(entry)
	}
}

// Entries returns the live backing slice, in creation order. Callers must
// treat it as read-only; it is exposed (rather than copied) because End's
// join sweep and tests both need to walk it without incurring an allocation
// per call.
func (r *Roster[T]) Entries() []T {
	return r.entries
}

// Reset drops every entry, releasing references. Used by End after the join
// sweep has completed.
func (r *Roster[T]) Reset() {
	r.entries = nil
	r.seen.Clear()
}
