// Package gate provides a binary parking primitive used to serialize
// goroutines that stand in for the OS threads of the scheduler's source
// design: at most one gate is open at any instant, so at most one goroutine
// is ever unparked.
package gate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate is a binary semaphore initialized closed (as if sem_init(&s, 0, 0)
// had been called). Wait blocks until some goroutine calls Post. A Post
// issued before the matching Wait is remembered, but only one: calling Post
// on a gate that is already open panics, because the underlying
// semaphore.Weighted refuses to release more than is held. Unlike POSIX
// sem_post, posts therefore do not accumulate.
type Gate struct {
	sem *semaphore.Weighted
}

// New returns a closed gate.
func New() *Gate {
	g := &Gate{sem: semaphore.NewWeighted(1)}
	// Drain the single slot so the first Wait blocks, matching sem_init(...,
	// 0) rather than a fresh NewWeighted(1), which starts fully available.
	_ = g.sem.Acquire(context.Background(), 1)
	return g
}

// Post opens the gate, releasing exactly one waiter.
func (g *Gate) Post() {
	g.sem.Release(1)
}

// Wait blocks until the gate has been posted, then closes it again.
func (g *Gate) Wait() {
	_ = g.sem.Acquire(context.Background(), 1)
}
