package memory

import (
	"context"
	"sync"

	"github.com/aretw0/scribe/pkg/domain"
)

// Store implements ports.JobStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Job
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Job),
	}
}

// Save persists the job in memory.
func (s *Store) Save(ctx context.Context, job *domain.Job) error {
	// Copy to ensure isolation, similar to serialization
	copied := *job
	copied.Documents = make([]domain.Document, len(job.Documents))
	copy(copied.Documents, job.Documents)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[job.ID] = &copied
	return nil
}

// Load retrieves the job from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.data[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	// Copy on read so the caller can't mutate store state through the pointer
	ret := *job
	ret.Documents = make([]domain.Document, len(job.Documents))
	copy(ret.Documents, job.Documents)

	return &ret, nil
}

// Delete removes the job.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns known job IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
