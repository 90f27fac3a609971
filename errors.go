package virtsched

import "errors"

// Contract errors: invalid arguments or state misuse, returned to the
// caller without aborting the process. Declared once as package vars,
// following the teacher's queue.ErrDisposed/ErrTimeout/ErrEmptyQueue
// convention (lemon-mint/go-datastructures/queue).
var (
	// ErrAlreadyInitialized is returned by Init when called on a scheduler
	// that has not yet been torn down by End.
	ErrAlreadyInitialized = errors.New("virtsched: scheduler already initialized")

	// ErrInvalidQuantum is returned by Init when quantum == 0.
	ErrInvalidQuantum = errors.New("virtsched: quantum must be greater than zero")

	// ErrInvalidIOCount is returned by Init when io exceeds MaxEvents.
	ErrInvalidIOCount = errors.New("virtsched: io device count exceeds MaxEvents")

	// ErrNotInitialized is returned by Fork, Wait, and Signal when no
	// scheduler has been created via Init. Exec has no error return; called
	// with no scheduler, it aborts the process instead.
	ErrNotInitialized = errors.New("virtsched: scheduler not initialized")

	// ErrInvalidPriority is returned by Fork when priority exceeds
	// MaxPriority or is negative.
	ErrInvalidPriority = errors.New("virtsched: priority exceeds MaxPriority")

	// ErrNilHandler is returned by Fork when handler is nil.
	ErrNilHandler = errors.New("virtsched: handler must not be nil")

	// ErrInvalidDevice is returned by Wait and Signal when io is outside
	// [0, configured io count).
	ErrInvalidDevice = errors.New("virtsched: device index out of range")
)

// InvalidTaskID is returned by Fork (and ForkCode) on failure. Task ids
// returned by a successful Fork are always non-zero.
const InvalidTaskID TaskID = 0

// InitCode mirrors the historical so_init contract: 0 on success, -1 on
// failure. Prefer Init for new code; this exists for callers porting code
// written against the original numeric contract.
func InitCode(quantum uint, io uint) int {
	if err := Init(quantum, io); err != nil {
		return -1
	}
	return 0
}

// ForkCode mirrors the historical so_fork contract: the new task's id, or
// InvalidTaskID on failure.
func ForkCode(handler Handler, priority int) TaskID {
	id, err := Fork(handler, priority)
	if err != nil {
		return InvalidTaskID
	}
	return id
}

// WaitCode mirrors the historical so_wait contract: 0 on success, -1 if io
// is out of range.
func WaitCode(io int) int {
	if err := Wait(io); err != nil {
		return -1
	}
	return 0
}

// SignalCode mirrors the historical so_signal contract: the count of tasks
// woken, or -1 if io is out of range.
func SignalCode(io int) int {
	n, err := Signal(io)
	if err != nil {
		return -1
	}
	return n
}
