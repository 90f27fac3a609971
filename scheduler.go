package virtsched

import (
	"sync"

	"github.com/virtsched/virtsched/internal/gate"
	"github.com/virtsched/virtsched/internal/ready"
	"github.com/virtsched/virtsched/internal/roster"
	"github.com/virtsched/virtsched/internal/spawn"
)

// MaxPriority is the highest valid task priority; priorities 0..=MaxPriority
// give the standard six priority queues.
const MaxPriority = 5

// MaxEvents is the largest number of I/O devices Init will accept.
const MaxEvents = 256

// Scheduler is one process-wide scheduling session. It is not exported as a
// constructible value on purpose: the redesign notes call for encapsulating
// the scheduler as an owned value reached only through the Init/End
// protocol's process-wide handle, matching the source design's single
// file-scope `schedule` pointer while keeping the type itself free of
// package-level state for testability (see InitWithSpawner).
type Scheduler struct {
	quantum int
	ioCount int

	queues  *ready.Queues[*task]
	roster  *roster.Roster[*task]
	current *task

	completionGate *gate.Gate
	everForked     bool

	nextID  uint64
	spawner spawn.Spawner
}

var (
	handleMu sync.RWMutex
	handle   *Scheduler
)

func getHandle() *Scheduler {
	handleMu.RLock()
	defer handleMu.RUnlock()
	return handle
}

// Init allocates the process-wide scheduler. quantum is the positive
// virtual-time budget each task is re-armed with; io is the number of valid
// I/O device indices, [0, io). Init fails if the scheduler is already
// initialized, if quantum is zero, or if io exceeds MaxEvents.
func Init(quantum uint, io uint) error {
	return initWithSpawner(quantum, io, spawn.Goroutine{})
}

// InitWithSpawner is like Init but lets the embedder supply a custom
// spawn.Spawner, for example a mock that exercises the systemic
// goroutine-spawn-failure path, or a bounded-pool implementation.
func InitWithSpawner(quantum uint, io uint, spawner spawn.Spawner) error {
	return initWithSpawner(quantum, io, spawner)
}

func initWithSpawner(quantum uint, io uint, spawner spawn.Spawner) error {
	handleMu.Lock()
	defer handleMu.Unlock()

	if handle != nil {
		return ErrAlreadyInitialized
	}
	if quantum == 0 {
		return ErrInvalidQuantum
	}
	if io > MaxEvents {
		return ErrInvalidIOCount
	}

	handle = &Scheduler{
		quantum:        int(quantum),
		ioCount:        int(io),
		queues:         ready.New[*task](MaxPriority),
		roster:         roster.New[*task](16),
		completionGate: gate.New(),
		nextID:         1,
		spawner:        spawner,
	}
	return nil
}

// Fork creates a new task running handler at priority, and schedules it.
// If no task is currently running (this is the very first Fork since Init),
// Fork dispatches it immediately. Otherwise the calling task consumes one
// virtual unit, as the cost of forking, exactly like any other scheduling
// point.
func Fork(handler Handler, priority int) (TaskID, error) {
	s := getHandle()
	if s == nil {
		return InvalidTaskID, ErrNotInitialized
	}
	if priority < 0 || priority > MaxPriority {
		return InvalidTaskID, ErrInvalidPriority
	}
	if handler == nil {
		return InvalidTaskID, ErrNilHandler
	}

	id := TaskID(s.nextID)
	s.nextID++
	t := newTask(id, priority, s.quantum, handler)

	s.roster.Add(roster.ID(id), t)
	s.everForked = true
	t.status = StatusReady
	s.queues.Enqueue(t)

	join, err := s.spawner.Spawn(func() { s.bootstrap(t) })
	if err != nil {
		fatal("spawn task %d: %v", id, err)
	}
	t.join = join

	if s.current == nil {
		s.schedule()
	} else {
		s.execFromCurrent()
	}

	return id, nil
}

// Exec consumes one virtual unit of the current task's quantum and invokes
// the decision function, then parks the calling goroutine on its own gate
// until the scheduler posts it again.
func Exec() {
	s := getHandle()
	if s == nil {
		fatal("Exec called with no scheduler initialized")
	}
	s.execFromCurrent()
}

// execFromCurrent is the Go-level equivalent of so_exec: it always acts on
// whichever task is current, because it is only ever invoked by the
// goroutine presently holding logical execution.
func (s *Scheduler) execFromCurrent() {
	cur := s.current
	cur.remaining--
	s.schedule()
	cur.gate.Wait()
}

// Wait parks the current task until a matching Signal(io) call. It fails if
// io is outside the configured device range. Like any scheduling point, it
// consumes one virtual unit (so does Signal, on behalf of the signaler) —
// this system preserves that behavior from the source design rather than
// special-casing it away.
func Wait(io int) error {
	s := getHandle()
	if s == nil {
		return ErrNotInitialized
	}
	if io < 0 || io >= s.ioCount {
		return ErrInvalidDevice
	}

	cur := s.current
	cur.status = StatusWaiting
	cur.device = io
	s.execFromCurrent()
	return nil
}

// Signal moves every task waiting on device io back to Ready, returning how
// many were moved. It fails if io is outside the configured device range.
func Signal(io int) (int, error) {
	s := getHandle()
	if s == nil {
		return 0, ErrNotInitialized
	}
	if io < 0 || io >= s.ioCount {
		return 0, ErrInvalidDevice
	}

	count := 0
	s.roster.ForEach(func(t *task) {
		if t.status == StatusWaiting && t.device == io {
			t.device = noDevice
			t.status = StatusReady
			s.queues.Enqueue(t)
			count++
		}
	})
	s.execFromCurrent()
	return count, nil
}

// End blocks until every forked task has terminated and no task remains
// ready, then joins every task's goroutine, releases the scheduler, and
// clears the process-wide handle so a subsequent Init is legal. End is
// idempotent: calling it again before another Init is a no-op.
//
// If a task is left permanently Waiting (Wait without a matching Signal),
// End deadlocks forever, by design: tasks cannot be cancelled (see package
// doc and the Non-goals of the scheduling model), so there is no mechanism
// by which End could give up on it. DebugSnapshot exists precisely so an
// embedder's own watchdog can detect this situation from outside the
// scheduler, without End itself papering over it.
func End() {
	handleMu.Lock()
	s := handle
	handleMu.Unlock()
	if s == nil {
		return
	}

	if s.everForked {
		s.completionGate.Wait()
	}

	s.roster.ForEach(func(t *task) {
		if t.join != nil {
			t.join.Join()
		}
	})

	s.roster.Reset()
	s.queues.Reset()

	handleMu.Lock()
	if handle == s {
		handle = nil
	}
	handleMu.Unlock()
}

// bootstrap is the goroutine entry point for a forked task: park until
// dispatched, run the handler once, then terminate and invoke the decision
// function, never parking again.
func (s *Scheduler) bootstrap(t *task) {
	t.gate.Wait()
	t.handler(t.priority)
	t.status = StatusTerminated
	t.done.Fulfill()
	s.schedule()
}

// schedule is the decision function: it inspects s.current and the highest
// ready task and picks exactly one of {continue current, preempt with next,
// park current and run next, signal completion}. It is invoked at every
// scheduling point and is never itself guarded by a lock: invariant 3 (at
// most one task goroutine is ever unparked) is what makes that safe, not a
// mutex.
func (s *Scheduler) schedule() {
	next, hasNext := s.queues.PeekHighest()

	// Case A: pre-dispatch of the very first task.
	if s.current == nil {
		popped, _ := s.queues.PopHighest()
		s.current = popped
		s.wake(popped)
		return
	}

	cur := s.current

	// Case B: current just terminated or blocked on I/O.
	if cur.status == StatusTerminated || cur.status == StatusWaiting {
		if hasNext {
			popped, _ := s.queues.PopHighest()
			s.current = popped
			s.wake(popped)
			return
		}
		s.completionGate.Post()
		return
	}

	// Case C: current is still Running.
	if !hasNext {
		s.continueCurrent(cur)
		return
	}

	preempt := next.priority > cur.priority ||
		(next.priority == cur.priority && cur.remaining <= 0)
	if preempt {
		s.queues.PopHighest()
		cur.remaining = s.quantum
		cur.status = StatusReady
		s.queues.Enqueue(cur)
		s.current = next
		s.wake(next)
		return
	}

	s.continueCurrent(cur)
}

// wake transitions t to Running and posts its gate exactly once.
func (s *Scheduler) wake(t *task) {
	t.status = StatusRunning
	t.gate.Post()
}

// continueCurrent re-arms an exhausted quantum and re-wakes the task that
// was already running, without moving it through a queue.
func (s *Scheduler) continueCurrent(t *task) {
	if t.remaining <= 0 {
		t.remaining = s.quantum
	}
	s.wake(t)
}
