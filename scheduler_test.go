package virtsched_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sched "github.com/virtsched/virtsched"
)

// trace is a concurrency-safe recorder for scheduling events observed from
// inside task handlers, used the way scenario 3 and 6 of the spec's
// testable properties call for: "verified by a trace instrumented in the
// handlers."
type trace struct {
	mu     sync.Mutex
	events []string
}

func (tr *trace) record(event string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.events = append(tr.events, event)
}

func (tr *trace) snapshot() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]string, len(tr.events))
	copy(out, tr.events)
	return out
}

func TestSingleTaskEndToEnd(t *testing.T) {
	require.NoError(t, sched.Init(2, 0))

	tr := &trace{}
	_, err := sched.Fork(func(priority int) {
		tr.record("H:start")
		for i := 0; i < 3; i++ {
			sched.Exec()
		}
		tr.record("H:end")
	}, 0)
	require.NoError(t, err)

	sched.End()

	assert.Equal(t, []string{"H:start", "H:end"}, tr.snapshot())
}

func TestPriorityPreemption(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))

	tr := &trace{}
	var wg sync.WaitGroup
	wg.Add(1)

	_, err := sched.Fork(func(priority int) {
		tr.record("L:start")
		sched.Exec()
		tr.record("L:forking-H")

		_, err := sched.Fork(func(priority int) {
			tr.record("H:start")
			sched.Exec()
			tr.record("H:end")
		}, 3)
		require.NoError(t, err)

		tr.record("L:resumed")
		wg.Done()
	}, 1)
	require.NoError(t, err)

	sched.End()
	wg.Wait()

	got := tr.snapshot()
	want := []string{"L:start", "L:forking-H", "H:start", "H:end", "L:resumed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

// TestRoundRobinEqualPriority implements scenario 3 of the testable
// properties: two equal-priority tasks, quantum 2, each running four
// scheduling points, interleaving two-at-a-time. B is forked from inside
// A's own handler — the only caller context in which "B forked while A is
// current and A's quantum has not yet drained" is well defined, since Fork
// (like Exec) always acts on whatever task is current, which is only
// guaranteed to be the physical caller when the caller is that running
// task's own goroutine.
func TestRoundRobinEqualPriority(t *testing.T) {
	require.NoError(t, sched.Init(2, 0))

	tr := &trace{}

	_, err := sched.Fork(func(priority int) {
		for i := 0; i < 4; i++ {
			tr.record(fmt.Sprintf("A:%d", i))
			if i == 0 {
				_, err := sched.Fork(func(priority int) {
					for j := 0; j < 4; j++ {
						tr.record(fmt.Sprintf("B:%d", j))
						sched.Exec()
					}
				}, 2)
				require.NoError(t, err)
				continue
			}
			sched.Exec()
		}
	}, 2)
	require.NoError(t, err)

	sched.End()

	got := tr.snapshot()
	want := []string{"A:0", "A:1", "B:0", "B:1", "A:2", "A:3", "B:2", "B:3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("interleave mismatch (-want +got):\n%s", diff)
	}
}

func TestIOWaitAndSignal(t *testing.T) {
	require.NoError(t, sched.Init(1, 1))

	tr := &trace{}

	_, err := sched.Fork(func(priority int) {
		tr.record("W:start")
		require.NoError(t, sched.Wait(0))
		tr.record("W:resumed")
		sched.Exec()
		tr.record("W:end")
	}, 1)
	require.NoError(t, err)

	_, err = sched.Fork(func(priority int) {
		tr.record("S:start")
		n, err := sched.Signal(0)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		tr.record("S:end")
	}, 2)
	require.NoError(t, err)

	sched.End()

	got := tr.snapshot()
	want := []string{"W:start", "S:start", "S:end", "W:resumed", "W:end"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestSignalWithNoWaiters(t *testing.T) {
	require.NoError(t, sched.Init(1, 1))

	tr := &trace{}
	signalDone := make(chan struct{})

	_, err := sched.Fork(func(priority int) {
		tr.record("S:start")
		n, err := sched.Signal(0)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		tr.record("S:end")
		close(signalDone)
	}, 2)
	require.NoError(t, err)

	_, err = sched.Fork(func(priority int) {
		tr.record("W:start")
		_ = sched.Wait(0) // never signaled: this goroutine wedges forever
		tr.record("W:resumed")
	}, 1)
	require.NoError(t, err)

	select {
	case <-signalDone:
	case <-time.After(2 * time.Second):
		t.Fatal("signal task never completed")
	}

	assert.Equal(t, []string{"S:start", "S:end"}, tr.snapshot())
	// End() is deliberately not called: W is wedged forever on an
	// unsignaled device, and End would block the test run indefinitely,
	// exactly as documented for the embedder obligation this scenario
	// demonstrates.
}

func TestForkAvalancheRunsChildrenInForkOrder(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))

	const numChildren = 100
	tr := &trace{}

	_, err := sched.Fork(func(priority int) {
		tr.record("P:start")
		for i := 0; i < numChildren; i++ {
			i := i
			_, err := sched.Fork(func(priority int) {
				tr.record(fmt.Sprintf("C:%d", i))
			}, 0)
			require.NoError(t, err)
		}
		tr.record("P:end")
	}, 0)
	require.NoError(t, err)

	sched.End()

	got := tr.snapshot()
	require.Len(t, got, numChildren+2)
	assert.Equal(t, "P:start", got[0])
	assert.Equal(t, "P:end", got[len(got)-1])

	for i, event := range got[1 : len(got)-1] {
		assert.Equal(t, fmt.Sprintf("C:%d", i), event)
	}
}

func TestInitRejectsDoubleInit(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))
	defer sched.End()

	err := sched.Init(1, 0)
	assert.ErrorIs(t, err, sched.ErrAlreadyInitialized)
}

func TestInitRejectsZeroQuantum(t *testing.T) {
	err := sched.Init(0, 0)
	assert.ErrorIs(t, err, sched.ErrInvalidQuantum)
}

func TestInitRejectsTooManyDevices(t *testing.T) {
	err := sched.Init(1, sched.MaxEvents+1)
	assert.ErrorIs(t, err, sched.ErrInvalidIOCount)
}

func TestForkRejectsBadPriority(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))
	defer sched.End()

	_, err := sched.Fork(func(int) {}, sched.MaxPriority+1)
	assert.ErrorIs(t, err, sched.ErrInvalidPriority)
}

func TestForkRejectsNilHandler(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))
	defer sched.End()

	_, err := sched.Fork(nil, 0)
	assert.ErrorIs(t, err, sched.ErrNilHandler)
}

func TestWaitRejectsBadDevice(t *testing.T) {
	require.NoError(t, sched.Init(1, 1))

	done := make(chan struct{})
	_, err := sched.Fork(func(int) {
		defer close(done)
		assert.ErrorIs(t, sched.Wait(1), sched.ErrInvalidDevice)
	}, 0)
	require.NoError(t, err)

	<-done
	sched.End()
}

func TestLowerPriorityForkDoesNotPreemptCurrent(t *testing.T) {
	require.NoError(t, sched.Init(5, 0))

	tr := &trace{}
	_, err := sched.Fork(func(int) {
		tr.record("P:before-fork")
		_, err := sched.Fork(func(int) {
			tr.record("C:ran")
		}, 0)
		require.NoError(t, err)
		tr.record("P:after-fork")
	}, 3)
	require.NoError(t, err)

	sched.End()

	want := []string{"P:before-fork", "P:after-fork", "C:ran"}
	assert.Equal(t, want, tr.snapshot())
}

func TestTaskHandleObservesCompletion(t *testing.T) {
	require.NoError(t, sched.Init(1, 0))

	id, err := sched.Fork(func(int) {
		sched.Exec()
	}, 0)
	require.NoError(t, err)

	handle, ok := sched.HandleFor(id)
	require.True(t, ok)

	select {
	case <-handle.Done():
		t.Fatal("handle reported done before the task could have run")
	default:
	}

	sched.End()

	select {
	case <-handle.Done():
	default:
		t.Fatal("handle did not observe completion after End")
	}
}

func TestDebugSnapshotReflectsState(t *testing.T) {
	snap := sched.DebugSnapshot()
	assert.False(t, snap.Initialized)

	require.NoError(t, sched.Init(2, 0))
	defer sched.End()

	snap = sched.DebugSnapshot()
	assert.True(t, snap.Initialized)
	assert.False(t, snap.HasCurrent)
	assert.Equal(t, 0, snap.TotalTasks)
}
