package virtsched

// TaskHandle lets an embedder observe a task's completion without joining
// the scheduler's internal goroutine machinery, and without blocking the
// whole scheduler in End. It does not grant any control over the task —
// per the Non-goals, tasks cannot be cancelled from outside.
type TaskHandle struct {
	id TaskID
	t  *task
}

// ID returns the handle's task id.
func (h TaskHandle) ID() TaskID { return h.id }

// Done returns a channel closed once the task's handler has returned.
func (h TaskHandle) Done() <-chan struct{} { return h.t.done.Done() }

// Wait blocks until the task's handler has returned.
func (h TaskHandle) Wait() { h.t.done.Wait() }

// HandleFor looks up the handle for a task id returned by a prior Fork. It
// reports false if no such task exists (never forked, or the scheduler has
// since been torn down by End).
func HandleFor(id TaskID) (TaskHandle, bool) {
	s := getHandle()
	if s == nil {
		return TaskHandle{}, false
	}
	var found *task
	s.roster.ForEach(func(t *task) {
		if t.id == id {
			found = t
		}
	})
	if found == nil {
		return TaskHandle{}, false
	}
	return TaskHandle{id: id, t: found}, true
}
