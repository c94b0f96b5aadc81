package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
)

type memoryEntry struct {
	session akinator.Session
	touched time.Time
}

// Memory keeps sessions in a map. Reads count as access for Sweep.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*memoryEntry), now: time.Now}
}

func (m *Memory) Load(ctx context.Context, id string) (akinator.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.sessions[id]
	if e == nil {
		return akinator.Session{}, ErrNotFound
	}
	e.touched = m.now()
	return e.session.Clone(), nil
}

func (m *Memory) Save(ctx context.Context, s akinator.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &memoryEntry{session: s.Clone(), touched: m.now()}
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// List returns sessions newest first.
func (m *Memory) List(ctx context.Context) ([]akinator.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]akinator.Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e.session.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *Memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Close() error { return nil }
