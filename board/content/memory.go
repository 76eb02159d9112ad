package content

import "sync"

// Memory port for local development and tests.
type Memory struct {
	mu      sync.Mutex
	items   map[Target]*memoryItem
	Failing bool
}

type memoryItem struct {
	author string
	hidden bool
}

func NewMemory() *Memory {
	return &Memory{items: map[Target]*memoryItem{}}
}

// Add a visible target owned by author.
func (m *Memory) Add(t Target, author string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[t] = &memoryItem{author: author}
}

// SetFailing makes SetVisible error out, simulating an unavailable owner.
func (m *Memory) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failing = failing
}

func (m *Memory) Visible(t Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, exists := m.items[t]
	if !exists {
		return false, ErrContentNotFound
	}
	return !item.hidden, nil
}

func (m *Memory) SetVisible(t Target, visible bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failing {
		return false, ErrUnavailable
	}
	item, exists := m.items[t]
	if !exists {
		return false, ErrContentNotFound
	}
	if item.hidden == !visible {
		return false, nil
	}
	item.hidden = !visible
	return true, nil
}

func (m *Memory) Author(t Target) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, exists := m.items[t]
	if !exists {
		return "", ErrContentNotFound
	}
	return item.author, nil
}
