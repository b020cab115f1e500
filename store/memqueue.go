package store

import "sync"

// MemQueue is in-memory FIFO user queue
type MemQueue struct {
	data []string
	mu   sync.RWMutex
}

func NewMemQueue(userIDs ...string) *MemQueue {
	m := &MemQueue{}
	for _, u := range userIDs {
		m.Add(u)
	}
	return m
}

func (m *MemQueue) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]string, len(m.data))
	copy(users, m.data)
	return users, nil
}

func (m *MemQueue) Position(userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return position(m.data, userID)
}

func (m *MemQueue) Size() (int, error) {
	m.mu.RLock()
	n := len(m.data)
	m.mu.RUnlock()
	return n, nil
}

func (m *MemQueue) Has(userID string) (bool, error) {
	_, err := m.Position(userID)
	if err == ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MemQueue) Add(userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := position(m.data, userID); err == nil {
		return 0, ErrUserExists
	}

	m.data = append(m.data, userID)
	return len(m.data) - 1, nil
}

func (m *MemQueue) Remove(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := position(m.data, userID)
	if err != nil {
		return nil
	}

	m.data = append(m.data[:i], m.data[i+1:]...)
	return nil
}

func (m *MemQueue) Clear() error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

func (m *MemQueue) Pick() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.data) == 0 {
		return "", ErrQueueEmpty
	}

	userID := m.data[0]
	m.data = m.data[1:]
	return userID, nil
}
