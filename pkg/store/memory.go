package store

import (
	"context"
	"sync"
)

// Memory is an in-process Document.
type Memory struct {
	mu   sync.RWMutex
	text string
	set  bool
}

// NewMemory returns an empty in-memory document.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns an in-memory document holding text.
func NewMemoryWith(text string) *Memory {
	return &Memory{text: text, set: true}
}

func (m *Memory) Text(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return "", notFound(BackendMemory)
	}
	return m.text, nil
}

func (m *Memory) SetContents(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text, m.set = text, true
	return nil
}

func (m *Memory) Close() error { return nil }
