package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process limiter: one mutex-guarded set per instance,
// entries removed by a timer after the window. State is lost on restart
// and not shared across processes; that is a documented limitation of the
// design, not something this type tries to hide.
type Memory struct {
	window time.Duration

	mu       sync.Mutex
	inWindow map[string]struct{}
}

func NewMemory(window time.Duration) *Memory {
	return &Memory{
		window:   window,
		inWindow: make(map[string]struct{}),
	}
}

func (m *Memory) Allow(_ context.Context, clientID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.inWindow[clientID]; ok {
		return false, nil
	}
	m.inWindow[clientID] = struct{}{}
	time.AfterFunc(m.window, func() {
		m.mu.Lock()
		delete(m.inWindow, clientID)
		m.mu.Unlock()
	})
	return true, nil
}

func (m *Memory) Window() time.Duration { return m.window }
