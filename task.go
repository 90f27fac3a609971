package virtsched

import (
	"github.com/virtsched/virtsched/future"
	"github.com/virtsched/virtsched/internal/gate"
	"github.com/virtsched/virtsched/internal/ready"
	"github.com/virtsched/virtsched/internal/spawn"
)

// TaskID opaquely identifies a task. It stands in for the OS-thread handle
// of the original pthread-based design; here it is a monotonically
// increasing, never-reused counter assigned at Fork time.
type TaskID uint64

// Handler is the entry point of a task, run exactly once on its own
// goroutine, receiving the priority it was forked with.
type Handler func(priority int)

// Status is a task's lifecycle state. Transitions are monotonic: New ->
// Ready -> Running -> {Ready | Waiting | Terminated}, Waiting -> Ready.
// Terminated is final.
type Status int

const (
	StatusNew Status = iota
	StatusReady
	StatusRunning
	StatusWaiting
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waiting"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// noDevice is the explicit "not waiting on any device" sentinel. The source
// design stored -1 into an unsigned field and relied on wraparound; this
// implementation uses a signed field with an explicit sentinel instead, per
// the expanded spec's resolution of that ambiguity.
const noDevice = -1

// task is the scheduler's internal record for one forked unit of work. It
// is owned exclusively by the roster; ready.Queues holds only a
// non-owning *task reference while the task is Ready.
type task struct {
	id       TaskID
	priority int
	remaining int
	handler  Handler
	status   Status
	device   int
	gate     *gate.Gate
	done     future.Cell
	join     spawn.Handle
}

func newTask(id TaskID, priority int, quantum int, handler Handler) *task {
	return &task{
		id:        id,
		priority:  priority,
		remaining: quantum,
		handler:   handler,
		status:    StatusNew,
		device:    noDevice,
		gate:      gate.New(),
	}
}

// ID implements ready.Item.
func (t *task) ID() ready.TaskID { return ready.TaskID(t.id) }

// Priority implements ready.Item.
func (t *task) Priority() int { return t.priority }
