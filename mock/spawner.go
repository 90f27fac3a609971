/*
Package mock provides a testify-based mock of the spawn.Spawner interface,
adapted from the teacher's mock/batcher.go (lemon-mint/go-datastructures/
mock), which mocked a batcher.Batcher interface this system has no use for
(it has no batching concern at all). The shape — an embedded mock.Mock, a
channel field for synchronizing a test goroutine with a call, and thin
methods that funnel into m.Called — is kept; only the mocked interface
changed.
*/
package mock

import (
	"github.com/stretchr/testify/mock"

	"github.com/virtsched/virtsched/internal/spawn"
)

var _ spawn.Spawner = new(Spawner)

// Spawner is a mock.Mock implementation of spawn.Spawner, for exercising the
// systemic goroutine-spawn-failure path of the scheduler's failure model.
type Spawner struct {
	mock.Mock

	// SpawnChan, if non-nil, receives a value every time Spawn is called,
	// letting a test synchronize with the call without sleeping.
	SpawnChan chan bool
}

// Spawn records the call and returns whatever the test configured.
func (m *Spawner) Spawn(fn func()) (spawn.Handle, error) {
	args := m.Called(fn)
	if m.SpawnChan != nil {
		m.SpawnChan <- true
	}
	var handle spawn.Handle
	if h := args.Get(0); h != nil {
		handle = h.(spawn.Handle)
	}
	return handle, args.Error(1)
}

// RunHandle is a trivial spawn.Handle a test can hand back from a configured
// Spawn call when it wants Join to return at once. Neither RunHandle nor
// Spawner ever runs the fn passed to Spawn.
type RunHandle struct{}

// Join returns immediately.
func (RunHandle) Join() {}
