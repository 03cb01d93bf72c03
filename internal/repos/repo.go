package repos

import "context"

// Store defines persistence operations for repository records. GetByID is the
// fingerprint lookup the recommendation engine depends on.
type Store interface {
	Upsert(ctx context.Context, repo Repo) (Repo, error)
	GetByID(ctx context.Context, id string) (Repo, error)
	GetByGithubURL(ctx context.Context, githubURL string) (Repo, error)
}
