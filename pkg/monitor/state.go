package monitor

import (
	"sync"

	"garagemon.xyz/govee-monitor-service/pkg/models"
)

// CommandStateStore tracks the last commanded state per plug so the
// decision engine can suppress redundant toggles: device_id -> command.
// Cycles for distinct devices run concurrently, hence the lock.
type CommandStateStore struct {
	mu     sync.Mutex
	states map[string]models.Command
}

func NewCommandStateStore() *CommandStateStore {
	return &CommandStateStore{
		states: make(map[string]models.Command),
	}
}

// Get returns the last commanded state and whether one is known.
func (s *CommandStateStore) Get(deviceID string) (models.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, ok := s.states[deviceID]
	return cmd, ok
}

func (s *CommandStateStore) Set(deviceID string, cmd models.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[deviceID] = cmd
}
