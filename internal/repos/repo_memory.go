package repos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Repo
	byURL map[string]string // github_url -> id
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[string]Repo),
		byURL: make(map[string]string),
	}
}

// Upsert inserts or replaces the record keyed by github_url.
func (s *MemoryStore) Upsert(ctx context.Context, repo Repo) (Repo, error) {
	if err := ctx.Err(); err != nil {
		return Repo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byURL[repo.GithubURL]; ok {
		existing := s.byID[id]
		existing.Fingerprint = repo.Fingerprint
		s.byID[id] = existing
		return existing, nil
	}

	if repo.ID == "" {
		repo.ID = uuid.NewString()
	}
	if repo.CreatedAt.IsZero() {
		repo.CreatedAt = time.Now().UTC()
	}
	s.byID[repo.ID] = repo
	s.byURL[repo.GithubURL] = repo.ID
	return repo, nil
}

// GetByID returns the record with the given id.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (Repo, error) {
	if err := ctx.Err(); err != nil {
		return Repo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	repo, ok := s.byID[id]
	if !ok {
		return Repo{}, ErrNotFound
	}
	return repo, nil
}

// GetByGithubURL returns the record with the given github_url.
func (s *MemoryStore) GetByGithubURL(ctx context.Context, githubURL string) (Repo, error) {
	if err := ctx.Err(); err != nil {
		return Repo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURL[githubURL]
	if !ok {
		return Repo{}, ErrNotFound
	}
	return s.byID[id], nil
}

var _ Store = (*MemoryStore)(nil)
