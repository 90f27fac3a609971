/*
Package future provides a single-fulfillment completion cell, adapted from
the teacher's futures.Selectable[T] (lemon-mint/go-datastructures/futures).

The teacher's Selectable is general-purpose: any goroutine may call Fill with
a value or an error, and any number of goroutines may block on GetResult or
select on WaitChan. This system only ever fulfills a cell once, from exactly
one place (a task's bootstrap goroutine, on handler return), with no value
and no error to carry — it exists purely so an embedder can observe "has
task N terminated" without joining the scheduler's internal goroutine
machinery. The type is accordingly trimmed to that one shape, but keeps the
teacher's closed-channel-as-signal technique.
*/
package future

import "sync"

// Cell is fulfilled exactly once. Zero value is a valid, unfulfilled cell.
type Cell struct {
	once sync.Once
	done chan struct{}
	init sync.Once
}

func (c *Cell) channel() chan struct{} {
	c.init.Do(func() {
		c.done = make(chan struct{})
	})
	return c.done
}

// Fulfill marks the cell complete. Subsequent calls are no-ops.
func (c *Cell) Fulfill() {
	c.once.Do(func() {
		close(c.channel())
	})
}

// Done returns a channel that is closed once Fulfill has been called.
func (c *Cell) Done() <-chan struct{} {
	return c.channel()
}

// Wait blocks until Fulfill has been called.
func (c *Cell) Wait() {
	<-c.channel()
}
