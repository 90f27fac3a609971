package virtsched

// Snapshot is a point-in-time, best-effort view of scheduler state, for an
// embedder's own watchdog to detect a wedged End (see End's doc comment on
// the Wait-without-Signal deadlock). It is not a synchronization primitive:
// nothing prevents a scheduling decision from running concurrently with a
// call to DebugSnapshot, so a watchdog should treat a single snapshot as a
// hint and look for it to stay stable across a few calls before acting on
// it.
type Snapshot struct {
	Initialized  bool
	CurrentID    TaskID
	HasCurrent   bool
	CurrentState Status
	ReadyCount   int
	TotalTasks   int
}

// DebugSnapshot returns the current state of the process-wide scheduler, or
// a zero Snapshot with Initialized=false if none exists.
func DebugSnapshot() Snapshot {
	s := getHandle()
	if s == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		Initialized: true,
		ReadyCount:  s.queues.Len(),
		TotalTasks:  s.roster.Len(),
	}
	if s.current != nil {
		snap.HasCurrent = true
		snap.CurrentID = s.current.id
		snap.CurrentState = s.current.status
	}
	return snap
}
