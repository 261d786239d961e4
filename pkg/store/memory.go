package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage, used by tests and by the CLI when
// no database is configured.
type MemoryStorage struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{templates: make(map[string]*Template)}
}

// Create stores a new template, assigning an id and timestamps.
func (s *MemoryStorage) Create(_ context.Context, t *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

// Update replaces an existing template, refreshing its updated timestamp.
func (s *MemoryStorage) Update(_ context.Context, t *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.templates[t.ID]
	if !ok {
		return ErrNotFound
	}

	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now().UTC()

	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

// Get returns the template with the given id.
func (s *MemoryStorage) Get(_ context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// List returns all templates in catalogue order.
func (s *MemoryStorage) List(_ context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Template, 0, len(s.templates))
	for _, t := range s.templates {
		cp := *t
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.JobCategory != b.JobCategory {
			return a.JobCategory < b.JobCategory
		}
		if a.SensorType != b.SensorType {
			return a.SensorType < b.SensorType
		}
		return a.Name < b.Name
	})

	return out, nil
}

// Delete removes the template with the given id.
func (s *MemoryStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStorage) Close() error {
	return nil
}
