package shell

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreConflict   = errors.New("session updated concurrently")
)

// UpdateFunc receives the current state (NewIdle for an unknown session) and
// returns the next one. Returning a nil State leaves the session untouched.
// It may be called more than once and must not have side effects.
type UpdateFunc func(cur State) (State, error)

// SessionStore keeps one State per session id until the TTL lapses.
// Writes go through Update; the concrete stores also offer Save and Delete.
type SessionStore interface {
	Load(ctx context.Context, sid string) (State, error)
	// Update applies fn atomically with respect to other Updates on sid.
	Update(ctx context.Context, sid string, fn UpdateFunc) error
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore is a process-local SessionStore. Expired sessions are swept on write.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Load(_ context.Context, sid string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.get(sid)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, sid string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(sid, s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
	return nil
}

func (m *MemoryStore) Update(_ context.Context, sid string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.get(sid)
	if !ok {
		cur = NewIdle()
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if next != nil {
		m.put(sid, next)
	}
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.entries)
}

func (m *MemoryStore) get(sid string) (State, bool) {
	e, ok := m.entries[sid]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, sid)
		return nil, false
	}
	return e.state, true
}

func (m *MemoryStore) put(sid string, s State) {
	m.sweep()
	m.entries[sid] = memoryEntry{state: s, expires: m.now().Add(m.ttl)}
}

func (m *MemoryStore) sweep() {
	now := m.now()
	for sid, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, sid)
		}
	}
}
