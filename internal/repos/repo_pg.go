package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PGStore implements Store using Postgres. Fingerprints are stored as jsonb.
type PGStore struct {
	DB *sql.DB
}

// Upsert inserts a repo record or replaces its fingerprint, keyed by github_url.
func (s *PGStore) Upsert(ctx context.Context, repo Repo) (Repo, error) {
	const query = `
INSERT INTO repos (id, github_url, fingerprint, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (github_url)
DO UPDATE SET fingerprint = EXCLUDED.fingerprint, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`

	var fingerprint []byte
	if repo.Fingerprint != nil {
		data, err := json.Marshal(repo.Fingerprint)
		if err != nil {
			return Repo{}, fmt.Errorf("marshal fingerprint: %w", err)
		}
		fingerprint = data
	}

	id := repo.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	err := s.DB.QueryRowContext(ctx, query, id, repo.GithubURL, fingerprint, now).
		Scan(&repo.ID, &repo.CreatedAt)
	if err != nil {
		return Repo{}, fmt.Errorf("upsert repo: %w", err)
	}
	return repo, nil
}

// GetByID returns the record with the given id.
func (s *PGStore) GetByID(ctx context.Context, id string) (Repo, error) {
	const query = `
SELECT id, github_url, fingerprint, created_at
FROM repos
WHERE id = $1`
	return s.scanOne(s.DB.QueryRowContext(ctx, query, id))
}

// GetByGithubURL returns the record with the given github_url.
func (s *PGStore) GetByGithubURL(ctx context.Context, githubURL string) (Repo, error) {
	const query = `
SELECT id, github_url, fingerprint, created_at
FROM repos
WHERE github_url = $1`
	return s.scanOne(s.DB.QueryRowContext(ctx, query, githubURL))
}

func (s *PGStore) scanOne(row *sql.Row) (Repo, error) {
	var repo Repo
	var fingerprint []byte
	err := row.Scan(&repo.ID, &repo.GithubURL, &fingerprint, &repo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Repo{}, ErrNotFound
		}
		return Repo{}, err
	}
	if len(fingerprint) > 0 {
		var fp Fingerprint
		if err := json.Unmarshal(fingerprint, &fp); err != nil {
			return Repo{}, fmt.Errorf("unmarshal fingerprint: %w", err)
		}
		fp.Normalize()
		repo.Fingerprint = &fp
	}
	return repo, nil
}

var _ Store = (*PGStore)(nil)
