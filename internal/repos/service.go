package repos

import (
	"context"
	"fmt"
	"strings"

	"stackscout-backend/internal/githubapi"
	"stackscout-backend/internal/shared/telemetry"
)

// FileFetcher retrieves the raw files needed for analysis.
type FileFetcher interface {
	FetchRepoFiles(ctx context.Context, repoURL string) (*githubapi.RepoFiles, error)
}

// Service contains business logic for repository analysis.
type Service struct {
	Store    Store
	GitHub   FileFetcher
	Analyzer *Analyzer
}

// Analyze fetches a repository's dependency files, fingerprints them with the
// LLM, and upserts the record keyed by github_url.
func (s *Service) Analyze(ctx context.Context, githubURL string) (Repo, error) {
	if strings.TrimSpace(githubURL) == "" {
		return Repo{}, ErrInvalidInput
	}

	files, err := s.GitHub.FetchRepoFiles(ctx, githubURL)
	if err != nil {
		return Repo{}, fmt.Errorf("fetch repo files: %w", err)
	}

	fp, err := s.Analyzer.Analyze(ctx, files)
	if err != nil {
		return Repo{}, err
	}

	repo, err := s.Store.Upsert(ctx, Repo{GithubURL: githubURL, Fingerprint: &fp})
	if err != nil {
		return Repo{}, err
	}

	telemetry.Info("repo.analyzed", map[string]any{
		"repo_id":    repo.ID,
		"github_url": githubURL,
		"industry":   fp.Industry,
		"gaps":       len(fp.Gaps),
	})
	return repo, nil
}

// Get returns the stored repo; a record without a fingerprint is ErrNoFingerprint.
func (s *Service) Get(ctx context.Context, id string) (Repo, error) {
	repo, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return Repo{}, err
	}
	if repo.Fingerprint == nil {
		return Repo{}, ErrNoFingerprint
	}
	return repo, nil
}
