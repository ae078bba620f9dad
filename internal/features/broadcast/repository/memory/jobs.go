package memory

import (
	"context"
	"sync"
	"time"

	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/repository"
)

type jobStore struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
}

// NewJobStore keeps jobs for the life of the process.
func NewJobStore() repository.JobStore {
	return &jobStore{jobs: make(map[string]*models.Job)}
}

func (s *jobStore) Create(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *jobStore) Incr(_ context.Context, id string, sent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	if sent {
		job.Sent++
	} else {
		job.Failed++
	}
	return nil
}

func (s *jobStore) Finish(_ context.Context, id, state string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	job.State = state
	job.FinishedAt = &at
	return nil
}

func (s *jobStore) Get(_ context.Context, id string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}
