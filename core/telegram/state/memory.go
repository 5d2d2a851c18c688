package state

import (
	"sync"
)

type memoryStore struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewMemoryStore constructs an in-memory Store. States are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{states: make(map[int64]State)}
}

func (m *memoryStore) Get(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[userID]; ok {
		return st
	}
	return StateIdle
}

func (m *memoryStore) Set(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == "" || st == StateIdle {
		delete(m.states, userID)
		return
	}
	m.states[userID] = st
}

func (m *memoryStore) Take(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if !ok {
		return StateIdle
	}
	delete(m.states, userID)
	return st
}

func (m *memoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
