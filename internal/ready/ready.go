/*
Package ready implements the scheduler's per-priority FIFO queues.

The queues are deliberately not threadsafe: the scheduler core that drives
them is only ever entered by the single goroutine currently holding logical
execution (the gate protocol in package gate guarantees this), so the
locking present in the teacher queue implementation this package was adapted
from (lemon-mint/go-datastructures/queue) is unnecessary weight here. What
survives from that implementation is the slice-backed storage and the
get/peek vocabulary.
*/
package ready

import "github.com/virtsched/virtsched/internal/tidset"

// TaskID identifies a task for membership bookkeeping. Kept as an
// unexported-package-friendly alias so callers don't need to import the
// owning package just to key the membership set.
type TaskID uint64

// Item is anything that can sit in a ready queue.
type Item interface {
	ID() TaskID
	Priority() int
}

type fifo[T Item] []T

func (f *fifo[T]) pushBack(item T) {
	*f = append(*f, item)
}

func (f *fifo[T]) popFront() (T, bool) {
	var zero T
	if len(*f) == 0 {
		return zero, false
	}
	item := (*f)[0]
	copy(*f, (*f)[1:])
	(*f)[len(*f)-1] = zero
	*f = (*f)[:len(*f)-1]
	return item, true
}

func (f fifo[T]) front() (T, bool) {
	var zero T
	if len(f) == 0 {
		return zero, false
	}
	return f[0], true
}

// Queues is a set of MaxPriority+1 FIFOs indexed by priority, plus a
// membership set enforcing that a task sits in at most one of them at a
// time (invariant 1 of the scheduling model).
type Queues[T Item] struct {
	byPriority []fifo[T]
	enqueued   *tidset.Set
}

// New returns an empty set of queues for priorities [0, maxPriority].
func New[T Item](maxPriority int) *Queues[T] {
	return &Queues[T]{
		byPriority: make([]fifo[T], maxPriority+1),
		enqueued:   tidset.New(),
	}
}

// Enqueue appends item to its priority's queue. It panics if item is already
// enqueued; that would indicate a bug in the scheduler core itself (a
// precondition violation), not a caller-facing contract error, since the
// core is the only caller of Enqueue.
func (q *Queues[T]) Enqueue(item T) {
	if q.enqueued.Exists(uint64(item.ID())) {
		panic("ready: task already enqueued")
	}
	q.byPriority[item.Priority()].pushBack(item)
	q.enqueued.Add(uint64(item.ID()))
}

// PeekHighest returns the head of the highest non-empty priority queue,
// without removing it.
func (q *Queues[T]) PeekHighest() (T, bool) {
	for p := len(q.byPriority) - 1; p >= 0; p-- {
		if item, ok := q.byPriority[p].front(); ok {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// PopHighest removes and returns the head of the highest non-empty priority
// queue.
func (q *Queues[T]) PopHighest() (T, bool) {
	for p := len(q.byPriority) - 1; p >= 0; p-- {
		if item, ok := q.byPriority[p].popFront(); ok {
			q.enqueued.Remove(uint64(item.ID()))
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the total number of tasks currently Ready across every
// priority.
func (q *Queues[T]) Len() int {
	return q.enqueued.Len()
}

// Reset clears every queue, releasing references to their contents. Used by
// End to drop the last held pointers before the scheduler handle itself is
// discarded.
func (q *Queues[T]) Reset() {
	for i := range q.byPriority {
		q.byPriority[i] = nil
	}
	q.enqueued.Clear()
}
