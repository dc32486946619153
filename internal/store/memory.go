package store

import (
	"sync"
	"time"
)

// Memory is a SavedStore that lives for the duration of the process.
type Memory struct {
	mu  sync.RWMutex
	set savedSet
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Add(kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.add(kind, id, m.now())
}

func (m *Memory) Remove(kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.remove(kind, id)
}

func (m *Memory) Toggle(kind Kind, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.toggle(kind, id, m.now())
}

func (m *Memory) Contains(kind Kind, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.contains(kind, id)
}

func (m *Memory) IDs(kind Kind) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.ids(kind)
}
