package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
)

// Status reports liveness of the session cache and the metadata store.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats counts stored users and nodes, and thumbnail jobs by state.
type Stats struct {
	Users int64       `json:"users"`
	Files int64       `json:"files"`
	Jobs  queue.Stats `json:"jobs"`
}

// JobCounter reports thumbnail job counts.
type JobCounter interface {
	Stats() queue.Stats
}

// StatusService answers health and counting queries.
type StatusService struct {
	store    repomanager.RepositoryManager
	sessions sessions.Store
	jobs     JobCounter
}

func NewStatusService(store repomanager.RepositoryManager, s sessions.Store, jobs JobCounter) *StatusService {
	return &StatusService{store: store, sessions: s, jobs: jobs}
}

func (s *StatusService) Status(ctx context.Context) Status {
	return Status{
		Redis: s.sessions.IsAlive(ctx),
		DB:    s.store.IsAlive(ctx),
	}
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	u, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	f, err := s.store.Files().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting files: %w", err)
	}
	return &Stats{Users: u, Files: f, Jobs: s.jobs.Stats()}, nil
}
