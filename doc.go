/*
Package virtsched implements a user-space cooperative thread scheduler that
simulates preemptive, priority-based scheduling on top of goroutines.

A host program creates tasks (each a unit of code paired with a priority in
[0, MaxPriority]), declares synthetic time consumption via Exec and I/O waits
via Wait/Signal, and the scheduler enforces a deterministic policy: the
highest-priority ready task runs, ties at a priority are broken by a virtual
time quantum round-robin, and a lower-priority task does not run while any
higher-priority task is running or ready, whatever the running task's
remaining quantum.

Only one task is ever logically running at a time, regardless of how many
goroutines exist underneath: each task's goroutine parks on a binary gate
immediately after every scheduling point, and the scheduler's decision
function posts exactly one gate per decision. This mirrors the semaphore
choreography of the pthread-based design this package's scheduling policy is
modeled on, translated to goroutines and golang.org/x/sync/semaphore.

The embedding surface is intentionally small: Init, Fork, Exec, Wait, Signal,
End. It is not safe to call these concurrently with themselves — by design,
only a running task's own goroutine (or the goroutine that called Init,
during Fork/End) ever calls into the package at a given moment.
*/
package virtsched
