package server

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by a Store when no artifact has the requested id.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a converted deck kept for the embed routes.
type Artifact struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SlideCount int       `json:"slideCount"`
	HTML       string    `json:"html"` // embeddable document
	Snippet    string    `json:"snippet"`
	FrameCSP   string    `json:"frameCSP"` // frame-ancestors policy sent with the document
	CreatedAt  time.Time `json:"createdAt"`
}

// Store keeps artifacts between the convert and embed requests.
type Store interface {
	Put(ctx context.Context, a *Artifact) error
	Get(ctx context.Context, id string) (*Artifact, error)
	Ping(ctx context.Context) error
}

// MemoryStore is an in-process Store that evicts the oldest artifact once
// it holds capacity entries.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	order    []string
	items    map[string]*Artifact
}

// NewMemoryStore returns a MemoryStore; capacity below 1 is treated as 1.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{capacity: capacity, items: make(map[string]*Artifact)}
}

func (m *MemoryStore) Put(_ context.Context, a *Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[a.ID]; !ok {
		for len(m.order) >= m.capacity {
			delete(m.items, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, a.ID)
	}
	m.items[a.ID] = a
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// Len returns the number of stored artifacts.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
