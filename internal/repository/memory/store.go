// Package memory provides an in-process review job store backed by a map.
// It is the default backend; postgres and redis backends share its semantics.
package memory

import (
	"context"
	"sync"
	"time"

	"code-review-service/internal/entity"
)

type Store struct {
	mu        sync.RWMutex
	jobs      map[string]*entity.ReviewJob
	retention time.Duration
}

// NewStore creates an empty store. retention bounds how long terminal jobs
// are kept; zero or negative keeps them forever.
func NewStore(retention time.Duration) *Store {
	return &Store{
		jobs:      make(map[string]*entity.ReviewJob),
		retention: retention,
	}
}

// Save inserts or replaces a job. The stored copy is detached from the
// caller's value.
func (s *Store) Save(ctx context.Context, job *entity.ReviewJob) error {
	if job == nil || job.ID == "" {
		return entity.ErrInvalidRequest
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job. Mutating the returned value does not
// affect the stored one.
func (s *Store) Get(ctx context.Context, id string) (*entity.ReviewJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return job.Clone(), nil
}

// Update replaces an existing job and fails if it was never saved.
func (s *Store) Update(ctx context.Context, job *entity.ReviewJob) error {
	if job == nil || job.ID == "" {
		return entity.ErrInvalidRequest
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return entity.ErrNotFound
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

// EvictExpired removes terminal jobs that finished longer than the retention
// window ago and reports how many were dropped.
func (s *Store) EvictExpired(ctx context.Context) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, job := range s.jobs {
		if !job.Status.Terminal() {
			continue
		}
		finished := job.CreatedAt
		if job.CompletedAt != nil {
			finished = *job.CompletedAt
		}
		if finished.Before(cutoff) {
			delete(s.jobs, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len reports how many jobs are currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
