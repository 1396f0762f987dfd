// Package store provides the negotiation session store implementations:
// in-memory for single-instance and test use, Redis for deployments where
// several instances share session state.
package store

import (
	"context"
	"fmt"
	"sync"

	"aerox/internal/negotiation"
	"aerox/pkg/platform/sentinel"
)

// Memory is a map-backed session store. Safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]negotiation.Session
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]negotiation.Session),
	}
}

func (m *Memory) Save(_ context.Context, session *negotiation.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Stored by value so later mutation of the caller's copy does not leak
	// into the store.
	m.sessions[session.SessionID] = *session
	return nil
}

func (m *Memory) Get(_ context.Context, sessionID string) (*negotiation.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, sentinel.ErrNotFound)
	}
	out := session
	return &out, nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
