package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tilewright/tilewright/pkg/errors"
)

// MemoryStore keeps documents in process memory. Suitable for development,
// tests, and single-instance serving of ephemeral maps.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

// Get retrieves a document by map ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no map document with ID %q", id)
	}
	cp := *doc
	return &cp, nil
}

// Put stores a document, replacing any existing one with the same ID.
func (s *MemoryStore) Put(_ context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document needs an ID")
	}
	cp := *doc
	cp.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	if old, ok := s.docs[cp.ID]; ok {
		cp.CreatedAt = old.CreatedAt
	}
	s.docs[cp.ID] = &cp
	s.mu.Unlock()
	return nil
}

// Delete removes a document. Missing documents are ignored.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}

// List returns all documents ordered by ID.
func (s *MemoryStore) List(_ context.Context) ([]*Document, error) {
	s.mu.RLock()
	out := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		cp := *doc
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
