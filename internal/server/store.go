package server

import (
	"sync"
	"time"

	"github.com/mqops/mqmon/internal/domain"
	"github.com/mqops/mqmon/internal/render"
)

// Store holds the latest pass's rendered documents for the status API.
// Reports are replaced wholesale after each pass; the API always serves a
// consistent snapshot of one complete pass, never a half-finished one.
type Store struct {
	mu      sync.RWMutex
	docs    []render.Document
	updated time.Time
}

func NewStore() *Store { return &Store{} }

// Update swaps in the documents of a completed pass.
func (s *Store) Update(reports []domain.CycleReport, opts render.Options) {
	docs := make([]render.Document, 0, len(reports))
	for i := range reports {
		docs = append(docs, render.BuildDocument(&reports[i], opts))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
	s.updated = time.Now()
}

// Snapshot returns the current documents and when they were produced.
func (s *Store) Snapshot() ([]render.Document, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs, s.updated
}
